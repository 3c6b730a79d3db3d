package app

import (
	"hrgraph/internal/mapping"
	"hrgraph/internal/schema"
)

// Confirmer plays the part of the interactive dialogs.
type Confirmer interface {
	// ConfirmMapping returns the user's edits of the proposed mapping, or
	// ErrUserCancelledMapping.
	ConfirmMapping(kind schema.Kind, headers []string, proposed mapping.Mapping) (mapping.Mapping, error)

	// ConfirmSensitive asks before sensitive relations are shown.
	ConfirmSensitive() bool
}

// AutoConfirmer accepts every proposal without asking. Overrides bind schema
// fields to headers explicitly and are applied when the header is present.
type AutoConfirmer struct {
	Overrides      map[schema.Kind]mapping.Mapping
	AllowSensitive bool
}

func (a AutoConfirmer) ConfirmMapping(kind schema.Kind, headers []string, proposed mapping.Mapping) (mapping.Mapping, error) {
	m := proposed.Clone()
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}
	for field, header := range a.Overrides[kind] {
		if present[header] {
			m[field] = header
		}
	}
	return m, nil
}

func (a AutoConfirmer) ConfirmSensitive() bool {
	return a.AllowSensitive
}
