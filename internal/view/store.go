package view

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/natefinch/atomic"
	"github.com/tailscale/hujson"
)

// Structural errors surfaced by the store. These are the only errors the
// view layer raises to callers; everything row-level degrades to warnings.
var (
	ErrNotFound      = errors.New("view not found")
	ErrDuplicateName = errors.New("view already exists")
	ErrInvalidName   = errors.New("invalid view name")
)

// Store persists named views, one JSON file per view. Files are written
// atomically and read through hujson, so a hand-edited view with comments
// or trailing commas stays loadable.
//
// Views are read-mostly shared state: any number of concurrent readers is
// fine, and writers serialize against them so a reader never observes a
// partially written view.
type Store struct {
	mu  sync.RWMutex
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on
// first save.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

const viewFileExt = ".json"

// validateName rejects names that would escape the views directory or
// collide with its bookkeeping. Views are user-named, so this is the only
// shape restriction.
func validateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	}

	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if strings.HasPrefix(name, ".") {
		return fmt.Errorf("%w: %q must not start with '.'", ErrInvalidName, name)
	}

	return nil
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name+viewFileExt)
}

// Marshal renders a view as the indented JSON the store writes. HTML
// escaping is off: view files are meant to be hand-edited, and a filter
// like "value > 100" must read back the way it was written.
func Marshal(v View) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	err := enc.Encode(v)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Save persists a view under v.Name. Saving over an existing name fails
// with ErrDuplicateName unless overwrite is set.
func (s *Store) Save(v View, overwrite bool) error {
	err := validateName(v.Name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(v.Name)

	if !overwrite {
		_, statErr := os.Stat(path)
		if statErr == nil {
			return fmt.Errorf("%w: %s", ErrDuplicateName, v.Name)
		}

		if !os.IsNotExist(statErr) {
			return fmt.Errorf("save view %s: %w", v.Name, statErr)
		}
	}

	err = os.MkdirAll(s.dir, 0o750)
	if err != nil {
		return fmt.Errorf("save view %s: %w", v.Name, err)
	}

	data, err := Marshal(v)
	if err != nil {
		return fmt.Errorf("save view %s: %w", v.Name, err)
	}

	err = atomic.WriteFile(path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("save view %s: %w", v.Name, err)
	}

	return nil
}

// Load reads a stored view by name. The stored file's own name field is
// ignored in favor of the requested name, so renamed files behave
// predictably.
func (s *Store) Load(name string) (View, error) {
	err := validateName(name)
	if err != nil {
		return View{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return View{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return View{}, fmt.Errorf("load view %s: %w", name, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return View{}, fmt.Errorf("load view %s: %w", name, err)
	}

	var v View

	err = json.Unmarshal(standardized, &v)
	if err != nil {
		return View{}, fmt.Errorf("load view %s: %w", name, err)
	}

	v.Name = name

	return v, nil
}

// Delete removes a stored view. Deleting an unknown name fails with
// ErrNotFound.
func (s *Store) Delete(name string) error {
	err := validateName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err = os.Remove(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}

		return fmt.Errorf("delete view %s: %w", name, err)
	}

	return nil
}

// List returns the stored view names in lexical order. A missing views
// directory is an empty list.
func (s *Store) List() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}

		return nil, fmt.Errorf("list views: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, viewFileExt) {
			continue
		}

		names = append(names, strings.TrimSuffix(name, viewFileExt))
	}

	slices.Sort(names)

	return names, nil
}
