// Package types contains common types used across the application
package types

// Meta describes the snapshot a query ran against. Loaded is false until the
// first snapshot has been applied; clients render a "no data" state then.
type Meta struct {
	Loaded  bool   `json:"loaded"`
	Version uint64 `json:"version"`
}

// Listing is the response shape shared by every filtered list.
type Listing[T any] struct {
	Meta
	// Filters echoes the selections that produced Rows.
	Filters  map[string][]string `json:"filters"`
	Revision uint64              `json:"filters_version"`
	Count    int                 `json:"count"`
	Rows     []T                 `json:"rows"`
}

// NewListing wraps rows, substituting an empty slice for nil so clients
// always receive a JSON array.
func NewListing[T any](meta Meta, filters map[string][]string, revision uint64, rows []T) Listing[T] {
	if rows == nil {
		rows = []T{}
	}
	if filters == nil {
		filters = map[string][]string{}
	}
	return Listing[T]{Meta: meta, Filters: filters, Revision: revision, Count: len(rows), Rows: rows}
}
