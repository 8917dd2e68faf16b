package form

import (
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownField = errors.New("field not declared by form schema")

// FieldStore holds the current value of every field of one form instance.
// It is pure storage: no validation or normalization happens here.
type FieldStore struct {
	mu     sync.Mutex
	schema Schema
	values map[string]string
}

// NewFieldStore returns an all-empty store for the given schema.
func NewFieldStore(schema Schema) *FieldStore {
	fs := &FieldStore{schema: schema}
	fs.values = emptyValues(schema)
	return fs
}

// Set updates one field. Fields outside the schema are rejected so a typo in
// the wiring surfaces immediately instead of silently dropping input.
func (fs *FieldStore) Set(field, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if _, ok := fs.values[field]; !ok {
		return fmt.Errorf("set %s.%s: %w", fs.schema.ID, field, ErrUnknownField)
	}
	fs.values[field] = value
	return nil
}

// Get returns the current value of a field, empty for unknown fields.
func (fs *FieldStore) Get(field string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.values[field]
}

// Snapshot returns a copy of all current values.
func (fs *FieldStore) Snapshot() map[string]string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	out := make(map[string]string, len(fs.values))
	for k, v := range fs.values {
		out[k] = v
	}
	return out
}

// Reset returns every field to the empty string.
func (fs *FieldStore) Reset() {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.values = emptyValues(fs.schema)
}

func emptyValues(schema Schema) map[string]string {
	values := make(map[string]string, len(schema.Fields))
	for _, f := range schema.Fields {
		values[f] = ""
	}
	return values
}
