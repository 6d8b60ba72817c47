// Package graph provides access to the movie entity graph.
//
// Components never talk to the driver directly; they depend on the Store
// interface so tests can substitute an in-memory double.
package graph

import (
	"context"
)

// Row is a single result row: declared output name to typed value.
type Row map[string]any

// Store executes parameterized read/write graph queries.
//
// Query text is always a template with named parameters, never interpolated.
// Implementations surface every store-level failure as apperr.Unavailable so
// callers can distinguish infrastructure errors from business outcomes.
type Store interface {
	Execute(ctx context.Context, query string, params map[string]any) ([]Row, error)
}

// String extracts a string value from a row. Missing or mistyped values
// return the zero string.
func (r Row) String(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

// Int64 extracts an integer value from a row. Neo4j returns all integers
// as int64.
func (r Row) Int64(key string) int64 {
	if v, ok := r[key].(int64); ok {
		return v
	}
	return 0
}

// Strings extracts a list-of-string value from a row, dropping nulls the
// store may collect from optional matches.
func (r Row) Strings(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Maps extracts a list-of-map value from a row.
func (r Row) Maps(key string) []map[string]any {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(raw))
	for _, v := range raw {
		if m, ok := v.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
