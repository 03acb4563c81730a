// Package view implements the table-view engine: field-scoped filters
// evaluated through user predicates, multi-key stable sorting, column
// projection, and named persisted views.
//
// Views reference schema fields by name only. A view saved against an
// older schema stays loadable after fields are added or removed; columns
// whose field no longer exists render as empty cells.
package view

import (
	"encoding/json"
	"fmt"
)

// Direction orders a sort key.
type Direction string

// Sort directions. The long spellings "ascending"/"descending" are
// accepted when decoding stored views for compatibility with hand-written
// files.
const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// UnmarshalJSON accepts both the short and long direction spellings.
func (d *Direction) UnmarshalJSON(data []byte) error {
	var raw string

	err := json.Unmarshal(data, &raw)
	if err != nil {
		return fmt.Errorf("unmarshal direction: %w", err)
	}

	switch raw {
	case "asc", "ascending":
		*d = Ascending
	case "desc", "descending":
		*d = Descending
	default:
		return fmt.Errorf("unmarshal direction: unknown direction %q", raw)
	}

	return nil
}

// Predicate is one field-scoped filter: the name of the field whose value
// feeds the expression, and the user-authored expression source. The field
// reference is weak; it is resolved against records at apply time, not
// against the schema.
type Predicate struct {
	Field string `json:"field"`
	Expr  string `json:"expr"`
}

// SortKey orders records by one field. Keys earlier in a view's sequence
// take precedence; later keys break ties.
type SortKey struct {
	Field     string    `json:"field"`
	Direction Direction `json:"direction"`
}

// ColumnSpec places one field in the rendered table.
type ColumnSpec struct {
	Field    string `json:"field"`
	Visible  bool   `json:"visible"`
	Position int    `json:"position"`
}

// View is a named, persistable combination of column layout, filters, and
// sort order. Views are independent of record lifecycle: they persist until
// explicitly deleted.
type View struct {
	Name     string       `json:"name"`
	Columns  []ColumnSpec `json:"columns"`
	Filters  []Predicate  `json:"filters"`
	SortKeys []SortKey    `json:"sortKeys"`
}

// Clone returns a deep copy so callers can edit a loaded view without
// aliasing the stored one.
func (v View) Clone() View {
	out := View{Name: v.Name}

	if v.Columns != nil {
		out.Columns = make([]ColumnSpec, len(v.Columns))
		copy(out.Columns, v.Columns)
	}

	if v.Filters != nil {
		out.Filters = make([]Predicate, len(v.Filters))
		copy(out.Filters, v.Filters)
	}

	if v.SortKeys != nil {
		out.SortKeys = make([]SortKey, len(v.SortKeys))
		copy(out.SortKeys, v.SortKeys)
	}

	return out
}
