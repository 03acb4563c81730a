package view_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
	"github.com/Whatshisname303/fair-renderer/internal/predicate"
	"github.com/Whatshisname303/fair-renderer/internal/record"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

func Test_Project_OrdersVisibleColumnsByPosition(t *testing.T) {
	t.Parallel()

	v := view.View{
		Name: "default",
		Columns: []view.ColumnSpec{
			{Field: "Priority", Visible: true, Position: 2},
			{Field: "name", Visible: true, Position: 0},
			{Field: "Link", Visible: false, Position: 1},
			{Field: "Headcount", Visible: true, Position: 1},
		},
	}

	records := []record.Record{
		rec("acme", frontmatter.Frontmatter{
			"name":      frontmatter.TextValue("Acme"),
			"Priority":  frontmatter.TextValue("Low"),
			"Headcount": frontmatter.NumberValue(250),
			"Link":      frontmatter.TextValue("https://acme.example"),
		}),
	}

	table := view.Project(v, records)

	assert.Equal(t, []string{"name", "Headcount", "Priority"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"Acme", "250", "Low"}, table.Rows[0])
}

func Test_Project_RendersEmptyCell_When_FieldUnknownOrUnset(t *testing.T) {
	t.Parallel()

	// "Vanished" no longer exists in any schema or record; the view still
	// applies.
	v := view.View{
		Name: "stale",
		Columns: []view.ColumnSpec{
			{Field: "name", Visible: true, Position: 0},
			{Field: "Vanished", Visible: true, Position: 1},
			{Field: "Priority", Visible: true, Position: 2},
		},
	}

	records := []record.Record{
		rec("acme", frontmatter.Frontmatter{"name": frontmatter.TextValue("Acme")}),
		rec("zeta", frontmatter.Frontmatter{
			"name":     frontmatter.TextValue("Zeta"),
			"Priority": frontmatter.TextValue("High"),
		}),
	}

	table := view.Project(v, records)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Acme", "", ""}, table.Rows[0])
	assert.Equal(t, []string{"Zeta", "", "High"}, table.Rows[1])
}

func Test_Project_TieOnPositionKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	v := view.View{
		Columns: []view.ColumnSpec{
			{Field: "b", Visible: true, Position: 1},
			{Field: "a", Visible: true, Position: 1},
		},
	}

	table := view.Project(v, nil)
	assert.Equal(t, []string{"b", "a"}, table.Header)
}

func Test_Apply_RunsFilterSortProjectPipeline(t *testing.T) {
	t.Parallel()

	v := view.View{
		Name: "cs-companies",
		Columns: []view.ColumnSpec{
			{Field: "name", Visible: true, Position: 0},
			{Field: "Headcount", Visible: true, Position: 1},
		},
		Filters: []view.Predicate{{
			Field: "Majors",
			Expr:  "if (value) {return value.includes('Computer Science')} else {return false}",
		}},
		SortKeys: []view.SortKey{{Field: "Headcount", Direction: view.Descending}},
	}

	records := []record.Record{
		rec("small", frontmatter.Frontmatter{
			"name":      frontmatter.TextValue("Smallsoft"),
			"Headcount": frontmatter.NumberValue(40),
			"Majors":    frontmatter.ListValue([]string{"Computer Science"}),
		}),
		rec("nocs", frontmatter.Frontmatter{
			"name":   frontmatter.TextValue("BioCorp"),
			"Majors": frontmatter.ListValue([]string{"Biology"}),
		}),
		rec("big", frontmatter.Frontmatter{
			"name":      frontmatter.TextValue("Bigsoft"),
			"Headcount": frontmatter.NumberValue(4000),
			"Majors":    frontmatter.ListValue([]string{"Computer Science", "Math"}),
		}),
		rec("nomajors", frontmatter.Frontmatter{
			"name": frontmatter.TextValue("Mystery Inc"),
		}),
	}

	table, warnings := view.Apply(v, records, testRegistry(t), predicate.New())

	assert.Empty(t, warnings)
	assert.Equal(t, []string{"name", "Headcount"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Bigsoft", "4000"}, table.Rows[0])
	assert.Equal(t, []string{"Smallsoft", "40"}, table.Rows[1])
}

func Test_Clone_IsDeep(t *testing.T) {
	t.Parallel()

	original := view.View{
		Name:     "v",
		Columns:  []view.ColumnSpec{{Field: "a", Visible: true}},
		Filters:  []view.Predicate{{Field: "a", Expr: "return true"}},
		SortKeys: []view.SortKey{{Field: "a", Direction: view.Ascending}},
	}

	clone := original.Clone()
	clone.Columns[0].Field = "mutated"
	clone.Filters[0].Expr = "mutated"
	clone.SortKeys[0].Field = "mutated"

	assert.Equal(t, "a", original.Columns[0].Field)
	assert.Equal(t, "return true", original.Filters[0].Expr)
	assert.Equal(t, "a", original.SortKeys[0].Field)
}
