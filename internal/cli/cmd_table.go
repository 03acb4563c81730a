package cli

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/Whatshisname303/fair-renderer/internal/predicate"
	"github.com/Whatshisname303/fair-renderer/internal/record"
	"github.com/Whatshisname303/fair-renderer/internal/vault"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

func cmdTable(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: fair table [--view NAME] [--columns a,b,..] [--filter f=expr]... [--sort f[:asc|desc]]... [--limit N] [--offset N]")

		return 0
	}

	flagSet := flag.NewFlagSet("table", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	viewName := flagSet.String("view", "", "Stored view to render")
	columns, filters, sorts := addShapingFlags(flagSet)
	limit := flagSet.Int("limit", 0, "Show at most N rows")
	offset := flagSet.Int("offset", 0, "Skip the first N rows")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	opts := tableOptions{viewName: *viewName, limit: *limit, offset: *offset}
	if err := opts.setShaping(flagSet, *columns, *filters, *sorts); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if opts.limit < 0 || opts.offset < 0 {
		fprintln(errOut, "error: --limit and --offset must not be negative")

		return 1
	}

	vlt, err := vault.Open(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	results, err := vlt.ScanRecords()
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	exitCode := 0

	for _, result := range results {
		if result.Err != nil {
			fprintln(errOut, "warning:", result.Path+":", result.Err)

			exitCode = 1
		}
	}

	effective, err := buildView(opts, vlt.Views, vlt.Schema)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	table, warnings := view.Apply(effective, record.Ok(results), vlt.Schema, predicate.New())

	if len(warnings) > 0 {
		printWarnings(errOut, warnings)

		exitCode = 1
	}

	table.Rows = sliceRows(table.Rows, opts.offset, opts.limit)

	renderTable(out, table)
	fprintln(out)
	fprintf(out, "%d %s\n", len(table.Rows), pluralRows(len(table.Rows)))

	return exitCode
}

func sliceRows(rows [][]string, offset, limit int) [][]string {
	if offset >= len(rows) {
		return nil
	}

	rows = rows[offset:]

	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	return rows
}

func pluralRows(n int) string {
	if n == 1 {
		return "row"
	}

	return "rows"
}
