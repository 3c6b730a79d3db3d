package mapping

import (
	"strings"

	"hrgraph/internal/schema"
)

// relationTokens mark a column as carrying relationship values.
var relationTokens = []string{"relation", "관계"}

// delimiters are tried in priority order; the first one present in a cell wins.
var delimiters = []string{"/", ";", ","}

// ExpandRelations turns wide rows with several relation columns into long
// rows holding exactly one relation each. Extra relation columns are removed
// from the output. If nothing can be expanded the input is returned as is.
func ExpandRelations(t Table, m Mapping) Table {
	primary := m[schema.FieldRelation]
	if primary == "" || len(t.Rows) == 0 {
		return t
	}

	extras := extraRelationColumns(t.Headers, primary)
	extraSet := make(map[string]bool, len(extras))
	for _, h := range extras {
		extraSet[h] = true
	}

	headers := make([]string, 0, len(t.Headers))
	for _, h := range t.Headers {
		if !extraSet[h] {
			headers = append(headers, h)
		}
	}

	var rows []Row
	for _, row := range t.Rows {
		base := make(Row, len(row))
		for k, v := range row {
			if !extraSet[k] {
				base[k] = v
			}
		}

		if row[primary] != "" {
			rows = append(rows, withRelation(base, primary, row[primary]))
		}

		for _, col := range extras {
			for _, rel := range SplitRelations(row[col]) {
				rows = append(rows, withRelation(base, primary, rel))
			}
		}
	}

	if len(rows) == 0 {
		return t
	}
	return Table{Headers: headers, Rows: rows}
}

// SplitRelations splits a multi-valued relation cell on the first delimiter
// found (priority "/", ";", ","), trimming tokens and dropping empty ones.
func SplitRelations(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}

	parts := []string{cell}
	for _, d := range delimiters {
		if strings.Contains(cell, d) {
			parts = strings.Split(cell, d)
			break
		}
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func extraRelationColumns(headers []string, primary string) []string {
	var out []string
	for _, h := range headers {
		if h == primary {
			continue
		}
		lh := strings.ToLower(h)
		for _, tok := range relationTokens {
			if strings.Contains(lh, tok) {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

func withRelation(base Row, column, relation string) Row {
	r := make(Row, len(base))
	for k, v := range base {
		r[k] = v
	}
	r[column] = relation
	return r
}
