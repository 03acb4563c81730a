package view

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
	"github.com/Whatshisname303/fair-renderer/internal/record"
	"github.com/Whatshisname303/fair-renderer/internal/schema"
)

// Sort orders records by the given keys, comparing against key zero first
// and breaking ties with later keys. The sort is stable: records equal on
// all keys keep their input order, and an empty key list returns the input
// order unchanged.
//
// Missing-last rule: a record with no value for a key sorts after every
// record that has one, in both directions. Direction flips how present
// values compare, never where absent ones land.
func Sort(records []record.Record, keys []SortKey, registry *schema.Registry) []record.Record {
	out := make([]record.Record, len(records))
	copy(out, records)

	if len(keys) == 0 {
		return out
	}

	slices.SortStableFunc(out, func(a, b record.Record) int {
		for _, key := range keys {
			c := compareByKey(a, b, key, registry)
			if c != 0 {
				return c
			}
		}

		return 0
	})

	return out
}

func compareByKey(a, b record.Record, key SortKey, registry *schema.Registry) int {
	aValue, aOK := a.Value(key.Field)
	bValue, bOK := b.Value(key.Field)

	// Absent values pin to the end regardless of direction.
	switch {
	case !aOK && !bOK:
		return 0
	case !aOK:
		return 1
	case !bOK:
		return -1
	}

	fieldType := schema.TypeText
	if registry != nil {
		if field, ok := registry.Lookup(key.Field); ok {
			fieldType = field.Type
		}
	}

	c := compareValues(aValue, bValue, fieldType)
	if key.Direction == Descending {
		return -c
	}

	return c
}

// compareValues compares two present values under a declared field type.
// Lexicographic for text and link; numeric for number; chronological for
// date; false before true for boolean. Lists compare by length first, then
// element-wise lexicographically on equal lengths.
//
// Values that do not match the declared type sort after the ones that do
// and compare lexicographically among themselves. Splitting the groups
// first keeps the comparator transitive: 9 and 10 compare numerically,
// never through their "10" < "9" string forms.
func compareValues(a, b frontmatter.Value, fieldType schema.FieldType) int {
	switch fieldType {
	case schema.TypeNumber:
		aOK, bOK := a.Kind == frontmatter.KindNumber, b.Kind == frontmatter.KindNumber
		if c := conformsRank(aOK) - conformsRank(bOK); c != 0 {
			return c
		}

		if aOK {
			return cmp.Compare(a.Number, b.Number)
		}
	case schema.TypeDate:
		aTime, aOK := parseDate(a)
		bTime, bOK := parseDate(b)

		if c := conformsRank(aOK) - conformsRank(bOK); c != 0 {
			return c
		}

		if aOK {
			return aTime.Compare(bTime)
		}
	case schema.TypeBoolean:
		aOK, bOK := a.Kind == frontmatter.KindBool, b.Kind == frontmatter.KindBool
		if c := conformsRank(aOK) - conformsRank(bOK); c != 0 {
			return c
		}

		if aOK {
			return boolRank(a.Bool) - boolRank(b.Bool)
		}
	case schema.TypeList:
		aOK, bOK := a.Kind == frontmatter.KindList, b.Kind == frontmatter.KindList
		if c := conformsRank(aOK) - conformsRank(bOK); c != 0 {
			return c
		}

		if aOK {
			return compareLists(a.List, b.List)
		}
	}

	// Text, link, and values that both miss their declared type.
	return strings.Compare(a.String(), b.String())
}

func conformsRank(ok bool) int {
	if ok {
		return 0
	}

	return 1
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}

func compareLists(a, b []string) int {
	if c := cmp.Compare(len(a), len(b)); c != 0 {
		return c
	}

	for i := range a {
		if c := strings.Compare(a[i], b[i]); c != 0 {
			return c
		}
	}

	return 0
}

// dateLayouts are tried in order when parsing date-typed values.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04",
}

func parseDate(v frontmatter.Value) (time.Time, bool) {
	if v.Kind != frontmatter.KindText {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, v.Text)
		if err == nil {
			return parsed, true
		}
	}

	return time.Time{}, false
}
