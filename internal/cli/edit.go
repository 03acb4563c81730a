package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/peterh/liner"

	"github.com/Whatshisname303/fair-renderer/internal/vault"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

var editCommands = []string{
	"show", "columns", "filter", "unfilter", "sort", "unsort",
	"clear", "save", "help", "quit",
}

// editSession is the state of one interactive view edit. All mutation
// happens in memory until an explicit save.
type editSession struct {
	view  view.View
	store *view.Store
	dirty bool
}

func cmdViewEdit(in io.Reader, out, errOut io.Writer, cfg vault.Config, args []string) int {
	if len(args) != 1 {
		fprintln(errOut, "error: view edit takes exactly one name")

		return 1
	}

	store := view.NewStore(cfg.ViewDirAbs)

	loaded, err := store.Load(args[0])
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	session := &editSession{view: loaded.Clone(), store: store}

	prompt := newEditPrompt(in)
	defer prompt.close()

	fprintln(out, "Editing view", loaded.Name, "(type 'help' for commands)")

	for {
		line, err := prompt.readLine(loaded.Name + "> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fprintln(out)

				return 0
			}

			fprintln(errOut, "error:", err)

			return 1
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		done, msg := session.apply(line)
		if msg != "" {
			fprintln(out, msg)
		}

		if done {
			return 0
		}
	}
}

// editPrompt reads edit commands through liner when attached to a real
// terminal, and line by line from the given reader otherwise, so
// commands can be piped in.
type editPrompt struct {
	liner   *liner.State
	scanner *bufio.Scanner
}

func newEditPrompt(in io.Reader) *editPrompt {
	if in == os.Stdin && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)
		state.SetCompleter(completeEditCommand)

		return &editPrompt{liner: state}
	}

	return &editPrompt{scanner: bufio.NewScanner(in)}
}

func completeEditCommand(line string) []string {
	var matches []string

	for _, cmd := range editCommands {
		if strings.HasPrefix(cmd, strings.ToLower(line)) {
			matches = append(matches, cmd)
		}
	}

	return matches
}

func (p *editPrompt) readLine(prompt string) (string, error) {
	if p.liner != nil {
		line, err := p.liner.Prompt(prompt)
		if err == nil && strings.TrimSpace(line) != "" {
			p.liner.AppendHistory(line)
		}

		return line, err
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return p.scanner.Text(), nil
}

func (p *editPrompt) close() {
	if p.liner != nil {
		p.liner.Close()
	}
}

// apply runs a single edit command and reports whether the session is
// finished, plus any message to show.
func (s *editSession) apply(line string) (done bool, msg string) {
	cmd, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)

	switch strings.ToLower(cmd) {
	case "show":
		data, err := view.Marshal(s.view)
		if err != nil {
			return false, "error: " + err.Error()
		}

		return false, strings.TrimRight(string(data), "\n")

	case "columns":
		if rest == "" {
			return false, "usage: columns <field,field,...>"
		}

		var fields []string

		for _, field := range strings.Split(rest, ",") {
			if field = strings.TrimSpace(field); field != "" {
				fields = append(fields, field)
			}
		}

		s.view.Columns = columnSpecs(fields)
		s.dirty = true

		return false, "ok"

	case "filter":
		pred, err := parseFilterSpec(rest)
		if err != nil {
			return false, "error: " + err.Error()
		}

		s.view.Filters = append(s.view.Filters, pred)
		s.dirty = true

		return false, "ok"

	case "unfilter":
		if rest == "" {
			return false, "usage: unfilter <field>"
		}

		before := len(s.view.Filters)
		s.view.Filters = slices.DeleteFunc(s.view.Filters, func(p view.Predicate) bool {
			return p.Field == rest
		})

		if len(s.view.Filters) == before {
			return false, "no filter on field " + rest
		}

		s.dirty = true

		return false, "ok"

	case "sort":
		key, err := parseSortSpec(rest)
		if err != nil {
			return false, "error: " + err.Error()
		}

		s.view.SortKeys = append(s.view.SortKeys, key)
		s.dirty = true

		return false, "ok"

	case "unsort":
		if rest == "" {
			return false, "usage: unsort <field>"
		}

		before := len(s.view.SortKeys)
		s.view.SortKeys = slices.DeleteFunc(s.view.SortKeys, func(k view.SortKey) bool {
			return k.Field == rest
		})

		if len(s.view.SortKeys) == before {
			return false, "no sort key on field " + rest
		}

		s.dirty = true

		return false, "ok"

	case "clear":
		s.view.Filters = nil
		s.view.SortKeys = nil
		s.dirty = true

		return false, "ok"

	case "save":
		if err := s.store.Save(s.view, true); err != nil {
			return false, "error: " + err.Error()
		}

		s.dirty = false

		return false, "saved"

	case "help", "?":
		return false, editHelp

	case "quit", "exit", "q":
		if s.dirty {
			return true, "discarding unsaved changes"
		}

		return true, ""

	default:
		return false, "unknown command: " + cmd + " (type 'help' for commands)"
	}
}

const editHelp = `Commands:
  show                   Print the current definition
  columns <a,b,...>      Replace the visible columns
  filter <field>=<expr>  Add a filter predicate
  unfilter <field>       Remove all filters on a field
  sort <field[:dir]>     Add a sort key (dir is asc or desc)
  unsort <field>         Remove all sort keys on a field
  clear                  Drop all filters and sort keys
  save                   Write the view back to disk
  quit                   Leave the editor`
