package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: only .csv and .xlsx can be loaded")
	ErrEmptyDataset      = errors.New("file contains no data rows")
)

// FileReadError wraps a failure to read the input file.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// Dataset is a decoded file split into node and edge tables. When one table
// holds both node and edge columns, Nodes and Edges point at the same table.
type Dataset struct {
	Source string
	Nodes  *mapping.Table
	Edges  *mapping.Table
}

// As returns the dataset narrowed to kind. A single-table dataset is
// relabelled to kind regardless of how its headers were classified; a
// workbook with both sheets keeps only its kind sheet. The result is nil
// when the dataset holds no table.
func (d *Dataset) As(kind schema.Kind) *Dataset {
	t := d.Nodes
	if kind == schema.KindEdges {
		t = d.Edges
	}
	if t == nil && d.Nodes != nil {
		t = d.Nodes
	}
	if t == nil && d.Edges != nil {
		t = d.Edges
	}
	if t == nil {
		return nil
	}

	out := &Dataset{Source: d.Source}
	if kind == schema.KindEdges {
		out.Edges = t
	} else {
		out.Nodes = t
	}
	return out
}

// Load reads a .csv or .xlsx file from disk.
func Load(path string) (*Dataset, error) {
	if _, err := formatOf(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileReadError{Path: path, Err: err}
	}
	defer f.Close()
	return Read(filepath.Base(path), f)
}

// Read decodes r, choosing the format from name's extension.
func Read(name string, r io.Reader) (*Dataset, error) {
	if _, err := formatOf(name); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &FileReadError{Path: name, Err: err}
	}
	return Decode(name, data)
}

// Decode parses raw file contents.
func Decode(name string, data []byte) (*Dataset, error) {
	format, err := formatOf(name)
	if err != nil {
		return nil, err
	}

	var ds *Dataset
	switch format {
	case ".csv":
		table, err := ParseCSV(data)
		if err != nil {
			return nil, err
		}
		ds = classify(table)
	case ".xlsx":
		ds, err = parseXLSX(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
	}
	ds.Source = name
	return ds, nil
}

func formatOf(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	switch ext {
	case ".csv", ".xlsx":
		return ext, nil
	}
	return "", fmt.Errorf("%w (got %q)", ErrUnsupportedFormat, filepath.Base(name))
}

var (
	nodeHints = []string{"id", "label", "type", "사번", "이름", "타입"}
	edgeHints = []string{"source", "target", "relation", "출발", "도착", "관계"}
)

// ClassifyHeaders reports whether headers look like node columns, edge
// columns, or both. A hint matches a whole word of a header, so "node_id"
// counts as a node column while "evidence" does not.
func ClassifyHeaders(headers []string) (hasNode, hasEdge bool) {
	for _, h := range headers {
		words := headerWords(h)
		if containsAny(words, nodeHints) {
			hasNode = true
		}
		if containsAny(words, edgeHints) {
			hasEdge = true
		}
	}
	return hasNode, hasEdge
}

// headerWords splits h on anything that is not a letter or digit and on
// camelCase boundaries, lower-casing each word.
func headerWords(h string) []string {
	var words []string
	var cur []rune
	flush := func() {
		if len(cur) > 0 {
			words = append(words, strings.ToLower(string(cur)))
			cur = cur[:0]
		}
	}
	prevLower := false
	for _, r := range h {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			flush()
		}
		cur = append(cur, r)
		prevLower = unicode.IsLower(r)
	}
	flush()
	return words
}

// classify assigns a single table by its columns. Tables that look like
// neither are treated as nodes.
func classify(t mapping.Table) *Dataset {
	hasNode, hasEdge := ClassifyHeaders(t.Headers)
	switch {
	case hasNode && hasEdge:
		return &Dataset{Nodes: &t, Edges: &t}
	case hasEdge:
		return &Dataset{Edges: &t}
	default:
		return &Dataset{Nodes: &t}
	}
}

func containsAny(words, hints []string) bool {
	for _, w := range words {
		for _, h := range hints {
			if w == h {
				return true
			}
		}
	}
	return false
}

// rowsToTable turns a header line plus records into a table, dropping
// records whose cells are all blank.
func rowsToTable(records [][]string) mapping.Table {
	if len(records) == 0 {
		return mapping.Table{}
	}
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}

	t := mapping.Table{Headers: headers}
	for _, rec := range records[1:] {
		row := make(mapping.Row, len(headers))
		blank := true
		for i, h := range headers {
			if h == "" || i >= len(rec) {
				continue
			}
			row[h] = rec[i]
			if strings.TrimSpace(rec[i]) != "" {
				blank = false
			}
		}
		if !blank {
			t.Rows = append(t.Rows, row)
		}
	}
	return t
}
