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

func rec(id string, values frontmatter.Frontmatter) record.Record {
	return record.Record{ID: id, Values: values}
}

func ids(records []record.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}

	return out
}

func Test_Filter_IsIdentity_When_NoPredicates(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("C", frontmatter.Frontmatter{"major": frontmatter.TextValue("Biology")}),
		rec("A", frontmatter.Frontmatter{}),
		rec("B", nil),
	}

	filtered, warnings := view.Filter(records, nil, predicate.New())
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"C", "A", "B"}, ids(filtered))
}

// The scenario documented for the filter surface: explicit null branch,
// matching on a substring.
func Test_Filter_SelectsMatchingRecords_NullBranchExcludes(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("A", frontmatter.Frontmatter{"major": frontmatter.TextValue("Computer Science")}),
		rec("B", frontmatter.Frontmatter{"major": frontmatter.Null()}),
		rec("C", frontmatter.Frontmatter{"major": frontmatter.TextValue("Biology")}),
	}

	predicates := []view.Predicate{{
		Field: "major",
		Expr:  "if (value) {return value.includes('Computer Science')} else {return false}",
	}}

	filtered, warnings := view.Filter(records, predicates, predicate.New())
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"A"}, ids(filtered))
}

func Test_Filter_ExcludesAll_When_FieldMissingEverywhere(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("A", frontmatter.Frontmatter{}),
		rec("B", frontmatter.Frontmatter{"other": frontmatter.TextValue("x")}),
	}

	predicates := []view.Predicate{{
		Field: "major",
		Expr:  "if (value) {return true} else {return false}",
	}}

	filtered, warnings := view.Filter(records, predicates, predicate.New())
	assert.Empty(t, warnings)
	assert.Empty(t, filtered)
}

func Test_Filter_NullBranchCanOptIn(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("A", frontmatter.Frontmatter{"major": frontmatter.TextValue("Biology")}),
		rec("B", frontmatter.Frontmatter{}),
	}

	predicates := []view.Predicate{{
		Field: "major",
		Expr:  "return value === null",
	}}

	filtered, warnings := view.Filter(records, predicates, predicate.New())
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"B"}, ids(filtered))
}

func Test_Filter_CombinesPredicatesWithAND(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("A", frontmatter.Frontmatter{
			"Priority":  frontmatter.TextValue("High"),
			"Headcount": frontmatter.NumberValue(500),
		}),
		rec("B", frontmatter.Frontmatter{
			"Priority":  frontmatter.TextValue("High"),
			"Headcount": frontmatter.NumberValue(50),
		}),
		rec("C", frontmatter.Frontmatter{
			"Priority":  frontmatter.TextValue("Low"),
			"Headcount": frontmatter.NumberValue(500),
		}),
	}

	predicates := []view.Predicate{
		{Field: "Priority", Expr: "return value === 'High'"},
		{Field: "Headcount", Expr: "if (value) {return value > 100} else {return false}"},
	}

	filtered, warnings := view.Filter(records, predicates, predicate.New())
	assert.Empty(t, warnings)
	assert.Equal(t, []string{"A"}, ids(filtered))
}

func Test_Filter_FaultExcludesRecordAndEvaluationContinues(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("A", frontmatter.Frontmatter{"major": frontmatter.TextValue("Computer Science")}),
		rec("B", frontmatter.Frontmatter{}), // faults: null.includes
		rec("C", frontmatter.Frontmatter{"major": frontmatter.TextValue("Science Education")}),
	}

	// No null guard: faults on B, matches A and C.
	predicates := []view.Predicate{{
		Field: "major",
		Expr:  "return value.includes('Science')",
	}}

	filtered, warnings := view.Filter(records, predicates, predicate.New())
	assert.Equal(t, []string{"A", "C"}, ids(filtered))

	require.Len(t, warnings, 1)
	assert.Equal(t, "B", warnings[0].RecordID)
	assert.Equal(t, "major", warnings[0].Field)
	assert.ErrorIs(t, warnings[0].Err, predicate.ErrFault)
}

func Test_Filter_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	records := []record.Record{
		rec("B", frontmatter.Frontmatter{"x": frontmatter.NumberValue(2)}),
		rec("A", frontmatter.Frontmatter{"x": frontmatter.NumberValue(1)}),
	}

	_, _ = view.Filter(records, []view.Predicate{{Field: "x", Expr: "return value > 1"}}, predicate.New())

	assert.Equal(t, []string{"B", "A"}, ids(records))
}
