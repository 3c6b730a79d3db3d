package ingest

import (
	"strings"

	"hrgraph/internal/graph"
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
)

// Record is a normalized row holding only schema fields with non-empty values.
type Record map[string]string

// MapRecords applies a confirmed mapping to every row. Values are trimmed and
// empty ones dropped; node records without a type default to person.
func MapRecords(t mapping.Table, m mapping.Mapping, kind schema.Kind) []Record {
	fields := schema.AllFields(kind)
	out := make([]Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(Record)
		for _, field := range fields {
			header, ok := m[field]
			if !ok || header == "" {
				continue
			}
			if v := strings.TrimSpace(row[header]); v != "" {
				rec[field] = v
			}
		}
		if kind == schema.KindNodes && rec[schema.FieldType] == "" {
			rec[schema.FieldType] = string(schema.DefaultNodeType)
		}
		out = append(out, rec)
	}
	return out
}

// Validate checks required fields on every record and, for edges, rejects
// self loops. It never stops early. Row numbers are 1-based.
func Validate(records []Record, kind schema.Kind) ValidationErrors {
	required := schema.RequiredFields(kind)
	var errs ValidationErrors
	for i, rec := range records {
		row := i + 1
		for _, field := range required {
			if strings.TrimSpace(rec[field]) == "" {
				errs = append(errs, &MissingRequiredField{Row: row, Field: field})
			}
		}
		if kind != schema.KindEdges {
			continue
		}
		src, tgt := rec[schema.FieldSource], rec[schema.FieldTarget]
		if src == tgt {
			errs = append(errs, &SelfLoopEdge{Row: row, Source: src, Target: tgt})
		}
	}
	return errs
}

// CrossValidate reports every edge whose endpoints are not in nodeIDs. Any
// error means the whole edge batch must be rejected.
func CrossValidate(edges []Record, nodeIDs map[string]bool) ValidationErrors {
	var errs ValidationErrors
	for i, rec := range edges {
		src, tgt := rec[schema.FieldSource], rec[schema.FieldTarget]
		var missing []string
		if !nodeIDs[src] {
			missing = append(missing, src)
		}
		if !nodeIDs[tgt] && tgt != src {
			missing = append(missing, tgt)
		}
		if len(missing) > 0 {
			errs = append(errs, &DanglingReference{Row: i + 1, Source: src, Target: tgt, Missing: missing})
		}
	}
	return errs
}

// DuplicateIDs reports every node record reusing an id seen on an earlier row.
func DuplicateIDs(nodes []Record) ValidationErrors {
	first := make(map[string]int)
	var errs ValidationErrors
	for i, rec := range nodes {
		id := rec[schema.FieldID]
		if id == "" {
			continue
		}
		if row, seen := first[id]; seen {
			errs = append(errs, &DuplicateNodeID{Row: i + 1, ID: id, FirstRow: row})
			continue
		}
		first[id] = i + 1
	}
	return errs
}

// ToNodes converts validated node records.
func ToNodes(records []Record) []graph.Node {
	out := make([]graph.Node, 0, len(records))
	for _, r := range records {
		out = append(out, graph.Node{
			ID:          r[schema.FieldID],
			Label:       r[schema.FieldLabel],
			Type:        schema.NodeType(r[schema.FieldType]),
			Company:     r[schema.FieldCompany],
			Department:  r[schema.FieldDepartment],
			Title:       r[schema.FieldTitle],
			Birthdate:   r[schema.FieldBirthdate],
			LastUpdated: r[schema.FieldLastUpdated],
		})
	}
	return out
}

// ToEdges converts validated edge records.
func ToEdges(records []Record) []graph.Edge {
	out := make([]graph.Edge, 0, len(records))
	for _, r := range records {
		out = append(out, graph.Edge{
			Source:   r[schema.FieldSource],
			Target:   r[schema.FieldTarget],
			Relation: r[schema.FieldRelation],
			Since:    r[schema.FieldSince],
			Note:     r[schema.FieldNote],
			Evidence: r[schema.FieldEvidence],
		})
	}
	return out
}
