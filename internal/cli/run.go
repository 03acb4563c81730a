// Package cli implements the fair command line: rendering table views over
// a vault of records, managing persisted views, and importing career-fair
// exports.
package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Whatshisname303/fair-renderer/internal/vault"
)

const helpFlag = "--help"

// Run is the main entry point. Returns exit code.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string) int {
	if len(args) < 2 {
		printUsage(out)

		return 0
	}

	flags, err := parseGlobalFlags(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	cfg, err := vault.LoadConfig(vault.LoadConfigInput{
		WorkDirOverride:   flags.workDir,
		ConfigPath:        flags.configPath,
		RecordDirOverride: flags.recordDir,
		Env:               env,
	})
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if len(flags.remaining) == 0 {
		printUsage(out)

		return 0
	}

	cmd := flags.remaining[0]
	rest := flags.remaining[1:]

	if cmd == "-h" || cmd == helpFlag {
		printUsage(out)

		return 0
	}

	switch cmd {
	case "table":
		return cmdTable(out, errOut, cfg, rest)
	case "view":
		return cmdView(in, out, errOut, cfg, rest)
	case "fields":
		return cmdFields(out, errOut, cfg, rest)
	case "import":
		return cmdImport(out, errOut, cfg, rest)
	case "print-config":
		return cmdPrintConfig(out, cfg)
	default:
		fprintln(errOut, "error: unknown command:", cmd)
		printUsage(errOut)

		return 1
	}
}

func printUsage(out io.Writer) {
	fprintln(out, "Usage: fair [global flags] <command> [args]")
	fprintln(out, "")
	fprintln(out, "View, filter, and sort vault records as tables.")
	fprintln(out, "")
	fprintln(out, "Commands:")
	fprintln(out, "  table                  Render a table over the records")
	fprintln(out, "  view save <name>       Save the given table options as a named view")
	fprintln(out, "  view ls                List saved views")
	fprintln(out, "  view show <name>       Print a saved view definition")
	fprintln(out, "  view rm <name>         Delete a saved view")
	fprintln(out, "  view edit <name>       Edit a saved view interactively")
	fprintln(out, "  fields                 List the schema fields")
	fprintln(out, "  import <export.json>   Import a career-fair export into the vault")
	fprintln(out, "  print-config           Show the effective configuration")
	fprintln(out, "")
	fprintln(out, "Global flags:")
	fprintln(out, "  -C, --cwd <dir>        Run as if started in <dir>")
	fprintln(out, "  -c, --config <file>    Use an explicit config file")
	fprintln(out, "  --record-dir <dir>     Override the record directory")
}

type globalFlags struct {
	workDir    string
	configPath string
	recordDir  string
	remaining  []string
}

var (
	errFlagRequiresArg = errors.New("flag requires an argument")
	errUnknownFlag     = errors.New("unknown flag")
)

func parseGlobalFlags(args []string) (globalFlags, error) {
	var flags globalFlags

	idx := 0
	for idx < len(args) {
		consumed, err := parseFlag(args, idx, &flags)
		if err != nil {
			return globalFlags{}, err
		}

		if consumed == 0 {
			// Not a flag, this is the command
			flags.remaining = args[idx:]

			break
		}

		idx += consumed
	}

	return flags, nil
}

// parseFlag tries to parse a flag at args[idx]. Returns number of args
// consumed (0 if not a flag).
func parseFlag(args []string, idx int, flags *globalFlags) (int, error) {
	arg := args[idx]

	if arg == "-C" || arg == "--cwd" {
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.workDir = args[idx+1]

		return 2, nil
	}

	if after, ok := strings.CutPrefix(arg, "--cwd="); ok {
		flags.workDir = after

		return 1, nil
	}

	if arg == "-c" || arg == "--config" {
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.configPath = args[idx+1]

		return 2, nil
	}

	if after, ok := strings.CutPrefix(arg, "--config="); ok {
		flags.configPath = after

		return 1, nil
	}

	if arg == "--record-dir" {
		if idx+1 >= len(args) {
			return 0, fmt.Errorf("%w: %s", errFlagRequiresArg, arg)
		}

		flags.recordDir = args[idx+1]

		return 2, nil
	}

	if after, ok := strings.CutPrefix(arg, "--record-dir="); ok {
		flags.recordDir = after

		return 1, nil
	}

	if arg == "-h" || arg == helpFlag {
		flags.remaining = []string{helpFlag}

		return len(args) - idx, nil
	}

	if strings.HasPrefix(arg, "-") && arg != "-" {
		return 0, fmt.Errorf("%w: %s", errUnknownFlag, arg)
	}

	// Not a flag
	return 0, nil
}

func hasHelpFlag(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == helpFlag {
			return true
		}
	}

	return false
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func fprintf(w io.Writer, format string, a ...any) {
	_, _ = fmt.Fprintf(w, format, a...)
}
