package cli

import (
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/Whatshisname303/fair-renderer/internal/importer"
	"github.com/Whatshisname303/fair-renderer/internal/vault"
)

func cmdImport(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: fair import <export.json> [--dry-run]")

		return 0
	}

	flagSet := flag.NewFlagSet("import", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	dryRun := flagSet.Bool("dry-run", false, "Parse the export and report, without writing records")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if flagSet.NArg() != 1 {
		fprintln(errOut, "error: import takes exactly one export file")

		return 1
	}

	data, err := os.ReadFile(flagSet.Arg(0))
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	companies, entryErrs, err := importer.ParseExport(data)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	exitCode := 0

	for _, entryErr := range entryErrs {
		fprintln(errOut, "warning:", entryErr.Error())

		exitCode = 1
	}

	vlt, err := vault.Open(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if *dryRun {
		fprintf(out, "Would import %d companies into %s (%d entries skipped)\n",
			len(companies), vlt.Config.RecordDirAbs, len(entryErrs))

		return exitCode
	}

	results, err := importer.WriteRecords(vlt.Config.RecordDirAbs, companies, vlt.Schema)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	written := 0

	for _, result := range results {
		if result.Err != nil {
			fprintln(errOut, "warning:", result.Company+":", result.Err)

			exitCode = 1

			continue
		}

		written++
	}

	fprintf(out, "Imported %d companies into %s (%d entries skipped)\n",
		written, vlt.Config.RecordDirAbs, len(entryErrs))

	return exitCode
}
