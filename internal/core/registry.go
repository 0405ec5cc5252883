package core

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registry   = make(map[EntityKind]ColumnSchema)
	registryMu sync.RWMutex
)

// Register adds a column schema to the registry.
// Panics if a schema for the same kind is already registered or the schema is unusable.
func Register(schema ColumnSchema) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if _, exists := registry[schema.Kind]; exists {
		panic(fmt.Sprintf("schema already registered: %s", schema.Kind))
	}
	if schema.Table == "" || len(schema.Columns) == 0 {
		panic(fmt.Sprintf("schema %s: table and columns are required", schema.Kind))
	}

	// Fill derived names so consumers never see an empty DBColumn or Sheet
	cols := make([]ColumnSpec, len(schema.Columns))
	for i, c := range schema.Columns {
		c.DBColumn = ResolveDBColumn(c)
		cols[i] = c
	}
	schema.Columns = cols
	if schema.Sheet == "" {
		schema.Sheet = schema.Label
	}

	registry[schema.Kind] = schema
}

// Get returns a schema by kind.
// Returns false if not found.
func Get(kind EntityKind) (ColumnSchema, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	schema, ok := registry[kind]
	return schema, ok
}

// Lookup returns a schema by kind, wrapping ErrUnknownKind when missing.
func Lookup(kind EntityKind) (ColumnSchema, error) {
	schema, ok := Get(kind)
	if !ok {
		return ColumnSchema{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return schema, nil
}

// All returns all registered schemas sorted by kind.
func All() []ColumnSchema {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ColumnSchema, 0, len(registry))
	for _, schema := range registry {
		result = append(result, schema)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Kind < result[j].Kind
	})

	return result
}

// SchemaCount returns the number of registered schemas.
func SchemaCount() int {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return len(registry)
}

// Clear removes all registered schemas.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[EntityKind]ColumnSchema)
}
