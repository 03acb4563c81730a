package cli

import (
	"errors"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/Whatshisname303/fair-renderer/internal/vault"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

func cmdView(in io.Reader, out, errOut io.Writer, cfg vault.Config, args []string) int {
	if len(args) == 0 || hasHelpFlag(args[:1]) {
		printViewUsage(out)

		return 0
	}

	sub := args[0]
	rest := args[1:]

	switch sub {
	case "save":
		return cmdViewSave(out, errOut, cfg, rest)
	case "ls":
		return cmdViewLs(out, errOut, cfg)
	case "show":
		return cmdViewShow(out, errOut, cfg, rest)
	case "rm":
		return cmdViewRm(out, errOut, cfg, rest)
	case "edit":
		return cmdViewEdit(in, out, errOut, cfg, rest)
	default:
		fprintln(errOut, "error: unknown view command:", sub)
		printViewUsage(errOut)

		return 1
	}
}

func printViewUsage(out io.Writer) {
	fprintln(out, "Usage: fair view <save|ls|show|rm|edit> [args]")
	fprintln(out, "")
	fprintln(out, "  save <name>   Save columns, filters, and sort keys as a named view")
	fprintln(out, "  ls            List saved views")
	fprintln(out, "  show <name>   Print a saved view definition")
	fprintln(out, "  rm <name>     Delete a saved view")
	fprintln(out, "  edit <name>   Edit a saved view interactively")
}

func cmdViewSave(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if hasHelpFlag(args) {
		fprintln(out, "Usage: fair view save <name> [--from VIEW] [--columns a,b,..] [--filter f=expr]... [--sort f[:asc|desc]]... [--force]")

		return 0
	}

	flagSet := flag.NewFlagSet("view save", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)

	columns, filters, sorts := addShapingFlags(flagSet)
	from := flagSet.String("from", "", "Start from an existing view instead of an empty one")
	force := flagSet.Bool("force", false, "Overwrite an existing view of the same name")

	if err := flagSet.Parse(args); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	if flagSet.NArg() != 1 {
		fprintln(errOut, "error: view save takes exactly one name")

		return 1
	}

	name := flagSet.Arg(0)

	var opts tableOptions
	if err := opts.setShaping(flagSet, *columns, *filters, *sorts); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	vlt, err := vault.Open(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	opts.viewName = *from

	saved, err := buildView(opts, vlt.Views, vlt.Schema)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	saved.Name = name

	if err := vlt.Views.Save(saved, *force); err != nil {
		if errors.Is(err, view.ErrDuplicateName) {
			fprintln(errOut, "error: view already exists:", name, "(use --force to overwrite)")
		} else {
			fprintln(errOut, "error:", err)
		}

		return 1
	}

	fprintln(out, "Saved view", name)

	return 0
}

func cmdViewLs(out, errOut io.Writer, cfg vault.Config) int {
	store := view.NewStore(cfg.ViewDirAbs)

	names, err := store.List()
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	for _, name := range names {
		fprintln(out, name)
	}

	return 0
}

func cmdViewShow(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if len(args) != 1 {
		fprintln(errOut, "error: view show takes exactly one name")

		return 1
	}

	store := view.NewStore(cfg.ViewDirAbs)

	loaded, err := store.Load(args[0])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	data, err := view.Marshal(loaded)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintln(out, strings.TrimRight(string(data), "\n"))

	return 0
}

func cmdViewRm(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if len(args) != 1 {
		fprintln(errOut, "error: view rm takes exactly one name")

		return 1
	}

	store := view.NewStore(cfg.ViewDirAbs)

	if err := store.Delete(args[0]); err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	fprintln(out, "Deleted view", args[0])

	return 0
}
