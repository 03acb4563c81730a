package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Whatshisname303/fair-renderer/internal/schema"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

// tableOptions holds the view-shaping flags shared by "table" and
// "view save".
type tableOptions struct {
	viewName   string
	columns    []string
	hasColumns bool
	filters    []view.Predicate
	hasFilters bool
	sortKeys   []view.SortKey
	hasSort    bool
	limit      int
	offset     int
}

var (
	errBadFilterSpec = errors.New("invalid --filter, want field=expression")
	errBadSortSpec   = errors.New("invalid --sort, want field or field:asc|desc")
)

// addShapingFlags registers the shared view-shaping flags on a flag set.
func addShapingFlags(flagSet *flag.FlagSet) (columns *string, filters, sorts *[]string) {
	columns = flagSet.String("columns", "", "Comma-separated fields to show, in order")
	filters = flagSet.StringArray("filter", nil, "Field predicate as field=expression (repeatable)")
	sorts = flagSet.StringArray("sort", nil, "Sort key as field or field:asc|desc (repeatable)")

	return columns, filters, sorts
}

func (opts *tableOptions) setShaping(flagSet *flag.FlagSet, columns string, filters, sorts []string) error {
	if flagSet.Changed("columns") {
		opts.hasColumns = true

		for _, field := range strings.Split(columns, ",") {
			field = strings.TrimSpace(field)
			if field != "" {
				opts.columns = append(opts.columns, field)
			}
		}
	}

	if flagSet.Changed("filter") {
		opts.hasFilters = true

		for _, spec := range filters {
			pred, err := parseFilterSpec(spec)
			if err != nil {
				return err
			}

			opts.filters = append(opts.filters, pred)
		}
	}

	if flagSet.Changed("sort") {
		opts.hasSort = true

		for _, spec := range sorts {
			key, err := parseSortSpec(spec)
			if err != nil {
				return err
			}

			opts.sortKeys = append(opts.sortKeys, key)
		}
	}

	return nil
}

func parseFilterSpec(spec string) (view.Predicate, error) {
	field, expr, ok := strings.Cut(spec, "=")

	field = strings.TrimSpace(field)
	if !ok || field == "" || strings.TrimSpace(expr) == "" {
		return view.Predicate{}, fmt.Errorf("%w: %q", errBadFilterSpec, spec)
	}

	return view.Predicate{Field: field, Expr: expr}, nil
}

// parseSortSpec reads "field", "field:asc", or "field:desc". Only a
// trailing :asc/:desc is treated as a direction, so field names containing
// colons still work.
func parseSortSpec(spec string) (view.SortKey, error) {
	field := spec
	direction := view.Ascending

	if idx := strings.LastIndex(spec, ":"); idx >= 0 {
		switch spec[idx+1:] {
		case "asc", "ascending":
			field = spec[:idx]
		case "desc", "descending":
			field = spec[:idx]
			direction = view.Descending
		}
	}

	field = strings.TrimSpace(field)
	if field == "" {
		return view.SortKey{}, fmt.Errorf("%w: %q", errBadSortSpec, spec)
	}

	return view.SortKey{Field: field, Direction: direction}, nil
}

// columnSpecs turns an ordered field list into visible column specs.
func columnSpecs(fields []string) []view.ColumnSpec {
	columns := make([]view.ColumnSpec, len(fields))
	for i, field := range fields {
		columns[i] = view.ColumnSpec{Field: field, Visible: true, Position: i}
	}

	return columns
}

// buildView resolves the effective view: the stored one when --view was
// given, shaped by any explicit flag overrides; otherwise an ad hoc view
// whose columns default to the schema's declared fields.
func buildView(opts tableOptions, store *view.Store, registry *schema.Registry) (view.View, error) {
	var base view.View

	if opts.viewName != "" {
		loaded, err := store.Load(opts.viewName)
		if err != nil {
			return view.View{}, err
		}

		base = loaded.Clone()
	}

	if opts.hasColumns {
		base.Columns = columnSpecs(opts.columns)
	}

	if opts.hasFilters {
		base.Filters = opts.filters
	}

	if opts.hasSort {
		base.SortKeys = opts.sortKeys
	}

	if len(base.Columns) == 0 {
		base.Columns = columnSpecs(registry.FieldNames())
	}

	return base, nil
}

func printWarnings(errOut io.Writer, warnings []view.Warning) {
	for _, warning := range warnings {
		fprintln(errOut, "warning:", warning.RecordID+": field", warning.Field+":", warning.Err)
	}
}
