package view

import (
	"github.com/Whatshisname303/fair-renderer/internal/predicate"
	"github.com/Whatshisname303/fair-renderer/internal/record"
)

// Warning reports a predicate fault for one record. Faults exclude the
// record but never abort the pass; callers decide whether to show them.
type Warning struct {
	RecordID string
	Field    string
	Err      error
}

// Filter returns the records matching every predicate, in input order. An
// empty predicate set is the identity filter. Each predicate sees only its
// own field's value (null when absent); a fault in one (predicate, record)
// pair excludes that record and is reported as a warning without touching
// any other record's evaluation.
func Filter(records []record.Record, predicates []Predicate, eval *predicate.Evaluator) ([]record.Record, []Warning) {
	if len(predicates) == 0 {
		out := make([]record.Record, len(records))
		copy(out, records)

		return out, nil
	}

	out := make([]record.Record, 0, len(records))

	var warnings []Warning

	for _, rec := range records {
		keep := true

		for _, pred := range predicates {
			value, _ := rec.Value(pred.Field)

			matched, err := eval.Evaluate(pred.Expr, value)
			if err != nil {
				warnings = append(warnings, Warning{RecordID: rec.ID, Field: pred.Field, Err: err})
			}

			if !matched {
				keep = false

				break
			}
		}

		if keep {
			out = append(out, rec)
		}
	}

	return out, warnings
}
