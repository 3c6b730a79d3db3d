package settings

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "settings.schema.json"

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func loadCompiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = err
			return
		}
		compiledSchema, compileErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, compileErr
}

// Validate checks a raw settings document against the embedded schema.
func Validate(data []byte) error {
	schema, err := loadCompiledSchema()
	if err != nil {
		return fmt.Errorf("failed to compile settings schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("settings schema validation failed: %w", err)
	}
	return nil
}

// Marshal encodes b after checking it against the schema.
func Marshal(b Blob) ([]byte, error) {
	b = b.Clone()
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal settings: %w", err)
	}
	if err := Validate(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Unmarshal decodes a stored document onto the defaults. Filters fall back
// to empty with sensitive relations hidden, display and global settings are
// merged key by key, and stored visual settings replace the defaults whole.
func Unmarshal(data []byte) (Blob, error) {
	if err := Validate(data); err != nil {
		return Blob{}, err
	}

	b := Default()
	defaults := b.VisualSettings
	b.Filters = Filters{}
	b.VisualSettings = nil
	if err := json.Unmarshal(data, &b); err != nil {
		return Blob{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if b.VisualSettings == nil {
		b.VisualSettings = defaults
	}
	return b.Clone(), nil
}
