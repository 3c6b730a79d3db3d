package ingest

import (
	"fmt"
	"strings"
)

// MissingRequiredField reports a required field that is empty after trimming.
type MissingRequiredField struct {
	Row   int
	Field string
}

func (e *MissingRequiredField) Error() string {
	return fmt.Sprintf("row %d: required field %q is empty", e.Row, e.Field)
}

// SelfLoopEdge reports an edge whose source and target are the same node.
type SelfLoopEdge struct {
	Row    int
	Source string
	Target string
}

func (e *SelfLoopEdge) Error() string {
	return fmt.Sprintf("row %d: edge %s -> %s points to itself", e.Row, e.Source, e.Target)
}

// DanglingReference reports an edge endpoint that is not a loaded node id.
type DanglingReference struct {
	Row    int
	Source string
	Target string
	// Missing lists the endpoints that could not be resolved.
	Missing []string
}

func (e *DanglingReference) Error() string {
	return fmt.Sprintf("row %d: edge %s -> %s references unknown node %s",
		e.Row, e.Source, e.Target, strings.Join(e.Missing, ", "))
}

// DuplicateNodeID reports a node id that already appeared on an earlier row.
type DuplicateNodeID struct {
	Row      int
	ID       string
	FirstRow int
}

func (e *DuplicateNodeID) Error() string {
	return fmt.Sprintf("row %d: node id %q already defined on row %d", e.Row, e.ID, e.FirstRow)
}

// ValidationErrors collects every problem found in a dataset.
type ValidationErrors []error

func (v ValidationErrors) Error() string {
	if len(v) == 1 {
		return v[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d validation errors:", len(v))
	for _, err := range v {
		sb.WriteString("\n  - ")
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Unwrap exposes the individual errors to errors.Is and errors.As.
func (v ValidationErrors) Unwrap() []error {
	return v
}

// Err returns v as an error, or nil when it holds nothing.
func (v ValidationErrors) Err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}
