package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"hrgraph/internal/schema"
)

var (
	nodeCSVHeader = []string{"id", "label", "type", "company", "department", "title"}
	edgeCSVHeader = []string{"source", "target", "relation", "since", "note"}
)

// WriteNodesCSV writes nodes with every field double-quoted.
func WriteNodesCSV(w io.Writer, nodes []*Node) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(nodeCSVHeader, ",") + "\n")
	for _, n := range nodes {
		writeQuotedRow(bw, n.ID, n.Label, string(n.Type), n.Company, n.Department, n.Title)
	}
	return bw.Flush()
}

// WriteEdgesCSV writes edges with every field double-quoted.
func WriteEdgesCSV(w io.Writer, edges []Edge) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(strings.Join(edgeCSVHeader, ",") + "\n")
	for _, e := range edges {
		writeQuotedRow(bw, e.Source, e.Target, e.Relation, e.Since, e.Note)
	}
	return bw.Flush()
}

func writeQuotedRow(w *bufio.Writer, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(f, `"`, `""`))
		w.WriteByte('"')
	}
	w.WriteByte('\n')
}

// ExportDOT writes the graph in Graphviz DOT format to the writer
func (g *Graph) ExportDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "graph HRNetwork {"); err != nil {
		return err
	}

	fmt.Fprintln(w, "  layout=neato;")
	fmt.Fprintln(w, "  node [style=filled, fontname=\"Arial\"];")
	fmt.Fprintln(w, "  edge [fontname=\"Arial\", fontsize=10];")

	for _, node := range g.Nodes {
		color := "#95a5a6"
		shape := "ellipse"

		switch node.Type {
		case schema.NodePerson:
			color = "#3498db"
		case schema.NodeCompany:
			color = "#e74c3c"
			shape = "box"
		case schema.NodeExternalPerson:
			color = "#2ecc71"
		case schema.NodeExternalCompany:
			color = "#9b59b6"
			shape = "box"
		}

		fmt.Fprintf(w, "  \"%s\" [label=\"%s\", fillcolor=\"%s\", shape=\"%s\"];\n",
			dotEscape(node.ID), dotEscape(node.Label), color, shape)
	}

	for _, edge := range g.Edges {
		fmt.Fprintf(w, "  \"%s\" -- \"%s\" [label=\"%s\", penwidth=%d];\n",
			dotEscape(edge.Source), dotEscape(edge.Target), dotEscape(edge.Relation), edge.Weight())
	}

	if _, err := fmt.Fprintln(w, "}"); err != nil {
		return err
	}
	return nil
}

// Escape label quotes and newlines
func dotEscape(s string) string {
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return strings.ReplaceAll(s, "\n", "\\n")
}
