package vault

import (
	"fmt"

	"github.com/Whatshisname303/fair-renderer/internal/record"
	"github.com/Whatshisname303/fair-renderer/internal/schema"
	"github.com/Whatshisname303/fair-renderer/internal/view"
)

// Vault bundles the pieces a view evaluation needs: the schema registry,
// the record directory, and the view store.
type Vault struct {
	Config Config
	Schema *schema.Registry
	Views  *view.Store
}

// Open loads the schema and prepares the view store for a configured
// vault. A missing schema document is a hard error: without field types
// there is nothing to sort or project against.
func Open(cfg Config) (*Vault, error) {
	registry, err := schema.Load(cfg.SchemaPathAbs)
	if err != nil {
		return nil, fmt.Errorf("open vault: %w", err)
	}

	return &Vault{
		Config: cfg,
		Schema: registry,
		Views:  view.NewStore(cfg.ViewDirAbs),
	}, nil
}

// ScanRecords reads the current record snapshot. Each evaluation re-reads
// from scratch; nothing is cached between calls.
func (v *Vault) ScanRecords() ([]record.Result, error) {
	return record.Scan(v.Config.RecordDirAbs)
}
