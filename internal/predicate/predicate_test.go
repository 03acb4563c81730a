package predicate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
	"github.com/Whatshisname303/fair-renderer/internal/predicate"
)

// The documented predicate shape: a function body with explicit null
// handling, exactly as a user writes it into a filter box.
const includesCS = "if (value) {return value.includes('Computer Science')} else {return false}"

func Test_Evaluate_MatchesDocumentedShape(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	cases := []struct {
		name  string
		value frontmatter.Value
		want  bool
	}{
		{"matching text", frontmatter.TextValue("Computer Science"), true},
		{"substring of text", frontmatter.TextValue("BS Computer Science 2025"), true},
		{"non-matching text", frontmatter.TextValue("Biology"), false},
		{"absent value takes null branch", frontmatter.Null(), false},
		{"matching list element", frontmatter.ListValue([]string{"Biology", "Computer Science"}), true},
		{"non-matching list", frontmatter.ListValue([]string{"Biology"}), false},
		{"empty list", frontmatter.ListValue([]string{}), false},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			matched, err := eval.Evaluate(includesCS, testCase.value)
			require.NoError(t, err)
			assert.Equal(t, testCase.want, matched)
		})
	}
}

func Test_Evaluate_SupportsScalarComparisons(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	matched, err := eval.Evaluate("return value > 100", frontmatter.NumberValue(250))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = eval.Evaluate("return value === false", frontmatter.BoolValue(false))
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = eval.Evaluate("return value !== null", frontmatter.Null())
	require.NoError(t, err)
	assert.False(t, matched)
}

func Test_Evaluate_ReportsFault_WithoutRaising(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	cases := []struct {
		name  string
		expr  string
		value frontmatter.Value
	}{
		{"throws on null", "return value.includes('X')", frontmatter.Null()},
		{"explicit throw", "throw new Error('boom')", frontmatter.TextValue("x")},
		{"syntax error", "return value.includes('X'", frontmatter.TextValue("x")},
		{"non-boolean return", "return 'yes'", frontmatter.TextValue("x")},
		{"no return is undefined", "value + 1", frontmatter.NumberValue(1)},
		{"undefined reference", "return nope(value)", frontmatter.TextValue("x")},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			matched, err := eval.Evaluate(testCase.expr, testCase.value)
			assert.False(t, matched, "faulted predicate must be non-matching")
			require.Error(t, err)
			assert.True(t, errors.Is(err, predicate.ErrFault), "err = %v", err)
		})
	}
}

func Test_Evaluate_IsolatesRecordsFromEachOther(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	// A predicate that trips a global on first use would poison later rows
	// if the runtime were shared.
	expr := "if (globalThis.seen) {return true}; globalThis.seen = true; return false"

	for range 5 {
		matched, err := eval.Evaluate(expr, frontmatter.TextValue("x"))
		require.NoError(t, err)
		assert.False(t, matched, "globals must not survive between evaluations")
	}
}

func Test_Evaluate_ContinuesAfterFault(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	_, err := eval.Evaluate("return value.includes('X')", frontmatter.Null())
	require.Error(t, err)

	// The same evaluator keeps working for well-behaved rows.
	matched, err := eval.Evaluate("return value.includes('X')", frontmatter.TextValue("AXB"))
	require.NoError(t, err)
	assert.True(t, matched)
}

func Test_Evaluate_MutationCannotReachTheRecord(t *testing.T) {
	t.Parallel()

	eval := predicate.New()
	value := frontmatter.ListValue([]string{"a", "b"})

	matched, err := eval.Evaluate("value.push('c'); return value.length === 3", value)
	require.NoError(t, err)
	assert.True(t, matched)

	// The Go-side list is untouched.
	assert.Equal(t, []string{"a", "b"}, value.List)
}

func Test_Evaluate_MultiLineExpressionsAccepted(t *testing.T) {
	t.Parallel()

	eval := predicate.New()

	expr := "var hit = false\nif (value) {\n  hit = value > 10\n}\nreturn hit"

	matched, err := eval.Evaluate(expr, frontmatter.NumberValue(42))
	require.NoError(t, err)
	assert.True(t, matched)
}
