package mapping

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Row is one decoded source record keyed by raw column header.
type Row map[string]string

// Table is an ordered set of rows sharing one header line.
type Table struct {
	Headers []string
	Rows    []Row
}

// Len returns the number of data rows.
func (t Table) Len() int {
	return len(t.Rows)
}

// Mapping binds schema fields to source headers.
type Mapping map[string]string

// Clone returns an independent copy of m.
func (m Mapping) Clone() Mapping {
	out := make(Mapping, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// MissingFieldsError is returned when required schema fields are left unmapped.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("required fields not mapped: %s", strings.Join(e.Fields, ", "))
}

// Propose guesses a header for every schema field. A header matches a field
// when its lower-case form equals or contains the field name; the first
// matching header wins and unmatched fields are left out.
func Propose(headers []string, required, optional []string) Mapping {
	m := make(Mapping)
	fields := append(append([]string(nil), required...), optional...)
	for _, field := range fields {
		f := strings.ToLower(field)
		for _, h := range headers {
			lh := strings.ToLower(h)
			if lh == f || strings.Contains(lh, f) {
				m[field] = h
				break
			}
		}
	}
	return m
}

// Confirm accepts user edits, dropping blank entries, and fails when any
// required field is left unmapped.
func Confirm(edits Mapping, required []string) (Mapping, error) {
	out := make(Mapping, len(edits))
	for field, header := range edits {
		if strings.TrimSpace(header) == "" {
			continue
		}
		out[field] = header
	}

	var missing []string
	for _, field := range required {
		if _, ok := out[field]; !ok {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingFieldsError{Fields: missing}
	}
	return out, nil
}

// Signature identifies a header layout independent of column order, so a
// confirmed mapping can be reused for re-imports of the same shape.
func Signature(headers []string) string {
	norm := make([]string, 0, len(headers))
	for _, h := range headers {
		norm = append(norm, strings.ToLower(strings.TrimSpace(h)))
	}
	sort.Strings(norm)
	sum := sha1.Sum([]byte(strings.Join(norm, "\x1f")))
	return hex.EncodeToString(sum[:])
}
