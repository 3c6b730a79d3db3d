package loader

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanDir walks root and decodes every .csv and .xlsx file below it,
// skipping hidden directories and files without data rows. Datasets holding
// node rows are passed to onDataset before edge-only datasets; within each
// group files are visited in lexical path order.
func ScanDir(root string, onDataset func(*Dataset) error) error {
	var nodeSets, edgeSets []*Dataset
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if _, err := formatOf(path); err != nil {
			return nil
		}
		// Office lock files.
		if strings.HasPrefix(d.Name(), "~$") {
			return nil
		}

		ds, err := Load(path)
		if errors.Is(err, ErrEmptyDataset) {
			return nil
		}
		if err != nil {
			return err
		}
		if ds.Nodes != nil {
			nodeSets = append(nodeSets, ds)
		} else {
			edgeSets = append(edgeSets, ds)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, ds := range append(nodeSets, edgeSets...) {
		if err := onDataset(ds); err != nil {
			return err
		}
	}
	return nil
}
