package loader

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"hrgraph/internal/mapping"
)

func parseXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyDataset
	}

	var nodesSheet, edgesSheet string
	for _, name := range sheets {
		switch sheetKind(name) {
		case kindNodes:
			nodesSheet = name
		case kindEdges:
			edgesSheet = name
		}
	}

	if nodesSheet == "" && edgesSheet == "" {
		t, err := readSheet(f, sheets[0])
		if err != nil {
			return nil, err
		}
		if t.Len() == 0 {
			return nil, ErrEmptyDataset
		}
		return classify(t), nil
	}

	ds := &Dataset{}
	if nodesSheet != "" {
		t, err := readSheet(f, nodesSheet)
		if err != nil {
			return nil, err
		}
		ds.Nodes = &t
	}
	if edgesSheet != "" {
		t, err := readSheet(f, edgesSheet)
		if err != nil {
			return nil, err
		}
		ds.Edges = &t
	}
	if (ds.Nodes == nil || ds.Nodes.Len() == 0) && (ds.Edges == nil || ds.Edges.Len() == 0) {
		return nil, ErrEmptyDataset
	}
	return ds, nil
}

type sheetClass int

const (
	kindUnknown sheetClass = iota
	kindNodes
	kindEdges
)

func sheetKind(name string) sheetClass {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "node") || lower == "노드":
		return kindNodes
	case strings.Contains(lower, "edge") || lower == "엣지" || strings.Contains(lower, "관계"):
		return kindEdges
	}
	return kindUnknown
}

func readSheet(f *excelize.File, sheet string) (mapping.Table, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return mapping.Table{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rowsToTable(rows), nil
}
