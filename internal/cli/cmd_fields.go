package cli

import (
	"io"

	"github.com/Whatshisname303/fair-renderer/internal/vault"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

func cmdFields(out, errOut io.Writer, cfg vault.Config, args []string) int {
	if len(args) != 0 {
		fprintln(errOut, "error: fields takes no arguments")

		return 1
	}

	vlt, err := vault.Open(cfg)
	if err != nil {
		fprintln(errOut, "error:", err)

		return 1
	}

	table := view.Table{Header: []string{"field", "type", "default"}}

	for _, field := range vlt.Schema.Fields() {
		defaultCell := ""
		if field.Default != nil {
			defaultCell = field.Default.String()
		}

		table.Rows = append(table.Rows, []string{field.Name, string(field.Type), defaultCell})
	}

	renderTable(out, table)

	return 0
}
