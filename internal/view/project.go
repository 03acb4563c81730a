package view

import (
	"slices"

	"github.com/Whatshisname303/fair-renderer/internal/predicate"
	"github.com/Whatshisname303/fair-renderer/internal/record"
	"github.com/Whatshisname303/fair-renderer/internal/schema"
)

// Table is a projected result: one header row and one row of cells per
// surviving record, all as display strings.
type Table struct {
	Header []string
	Rows   [][]string
}

// visibleColumns returns the view's visible columns ordered by Position,
// stable on equal positions.
func visibleColumns(v View) []ColumnSpec {
	columns := make([]ColumnSpec, 0, len(v.Columns))

	for _, column := range v.Columns {
		if column.Visible {
			columns = append(columns, column)
		}
	}

	slices.SortStableFunc(columns, func(a, b ColumnSpec) int {
		return a.Position - b.Position
	})

	return columns
}

// Project renders records through the view's column layout. Columns
// referencing fields a record does not set, or fields absent from the
// schema entirely, render as empty cells; projection never fails on
// incomplete data.
func Project(v View, records []record.Record) Table {
	columns := visibleColumns(v)

	header := make([]string, len(columns))
	for i, column := range columns {
		header[i] = column.Field
	}

	rows := make([][]string, len(records))

	for i, rec := range records {
		row := make([]string, len(columns))

		for j, column := range columns {
			value, ok := rec.Value(column.Field)
			if ok {
				row[j] = value.String()
			}
		}

		rows[i] = row
	}

	return Table{Header: header, Rows: rows}
}

// Apply runs the full pipeline for one view over a snapshot of records:
// filter, then sort, then projection. Predicate faults are returned as
// warnings alongside the table.
func Apply(v View, records []record.Record, registry *schema.Registry, eval *predicate.Evaluator) (Table, []Warning) {
	filtered, warnings := Filter(records, v.Filters, eval)
	sorted := Sort(filtered, v.SortKeys, registry)

	return Project(v, sorted), warnings
}
