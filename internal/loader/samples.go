package loader

import (
	_ "embed"

	"hrgraph/internal/mapping"
)

var (
	//go:embed samples/nodes.csv
	sampleNodesCSV []byte

	//go:embed samples/edges.csv
	sampleEdgesCSV []byte
)

// SampleNodes returns the bundled demo node table.
func SampleNodes() mapping.Table {
	return mustParse(sampleNodesCSV)
}

// SampleEdges returns the bundled demo edge table.
func SampleEdges() mapping.Table {
	return mustParse(sampleEdgesCSV)
}

func mustParse(data []byte) mapping.Table {
	t, err := ParseCSV(data)
	if err != nil {
		panic("loader: bundled sample is invalid: " + err.Error())
	}
	return t
}
