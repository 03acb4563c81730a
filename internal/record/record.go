// Package record models the documents a view operates over: markdown files
// whose frontmatter carries the schema-typed metadata. The store only reads
// records; authoring and editing belong to the host vault.
package record

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
)

// Record is one document in the collection being viewed. ID is the stable
// identity (the vault-relative file path). Values holds the frontmatter
// metadata; a field a record does not set is simply absent from the map,
// which is a valid state, not an error.
type Record struct {
	ID     string
	Values frontmatter.Frontmatter
}

// Value returns the record's value for a field. Absent keys and explicit
// nulls both report ok=false: both mean "no value" to filtering and
// sorting.
func (r Record) Value(field string) (frontmatter.Value, bool) {
	v, ok := r.Values[field]
	if !ok || v.IsNull() {
		return frontmatter.Value{}, false
	}

	return v, true
}

// Result pairs a scanned file with its parse outcome. A file that fails to
// parse is carried as a Result with Err set so callers can warn about it
// without aborting the scan.
type Result struct {
	Record Record
	Path   string
	Err    error
}

// Scan reads every markdown record under dir, sorted by file name so
// output order is stable across runs. A missing directory is an empty
// collection. Unreadable or malformed files become per-file errors in the
// returned results, never a scan failure.
func Scan(dir string) ([]Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Result{}, nil
		}

		return nil, fmt.Errorf("reading record directory: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		names = append(names, entry.Name())
	}

	slices.Sort(names)

	results := make([]Result, 0, len(names))

	for _, name := range names {
		path := filepath.Join(dir, name)

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			results = append(results, Result{Path: name, Err: readErr})

			continue
		}

		fm, _, parseErr := frontmatter.Parse(data)
		if parseErr != nil {
			results = append(results, Result{Path: name, Err: parseErr})

			continue
		}

		results = append(results, Result{
			Record: Record{ID: name, Values: fm},
			Path:   name,
		})
	}

	return results, nil
}

// Ok extracts the successfully parsed records from scan results, preserving
// order.
func Ok(results []Result) []Record {
	records := make([]Record, 0, len(results))

	for _, result := range results {
		if result.Err == nil {
			records = append(records, result.Record)
		}
	}

	return records
}
