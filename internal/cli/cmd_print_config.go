package cli

import (
	"io"

	"github.com/Whatshisname303/fair-renderer/internal/vault"
)

func cmdPrintConfig(out io.Writer, cfg vault.Config) int {
	fprintln(out, "effective_cwd="+cfg.EffectiveCwd)
	fprintln(out, "record_dir="+cfg.RecordDirAbs)
	fprintln(out, "schema="+cfg.SchemaPathAbs)
	fprintln(out, "view_dir="+cfg.ViewDirAbs)

	fprintln(out, "")
	fprintln(out, "# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		fprintln(out, "(defaults only)")

		return 0
	}

	if cfg.Sources.Global != "" {
		fprintln(out, "global_config="+cfg.Sources.Global)
	}

	if cfg.Sources.Project != "" {
		fprintln(out, "project_config="+cfg.Sources.Project)
	}

	return 0
}
