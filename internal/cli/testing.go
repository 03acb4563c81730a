package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CLI provides a clean interface for running commands in tests. It
// manages a temp vault directory and environment variables.
type CLI struct {
	t   *testing.T
	Dir string
	Env map[string]string
}

// defaultTestSchema is the schema seeded into every test vault.
const defaultTestSchema = `{
	// Company records at a career fair.
	"name": "company",
	"fields": [
		{"name": "Name", "type": "text"},
		{"name": "Majors", "type": "list"},
		{"name": "Headcount", "type": "number"},
		{"name": "Sponsors Visa", "type": "boolean"},
		{"name": "Visited", "type": "date"},
		{"name": "Priority", "type": "text", "default": "Low"},
	],
}
`

// NewCLI creates a test CLI backed by a temp vault with the default
// company schema already in place.
func NewCLI(t *testing.T) *CLI {
	t.Helper()

	c := &CLI{
		t:   t,
		Dir: t.TempDir(),
		Env: map[string]string{},
	}

	c.WriteSchema(defaultTestSchema)

	return c
}

// WriteSchema replaces the vault's schema document.
func (r *CLI) WriteSchema(document string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, "classes", "company.json")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.t.Fatalf("failed to create schema dir: %v", err)
	}

	if err := os.WriteFile(path, []byte(document), 0o600); err != nil {
		r.t.Fatalf("failed to write schema: %v", err)
	}
}

// WriteRecord writes a markdown record into the vault's record directory.
func (r *CLI) WriteRecord(name, content string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, "companies", name+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.t.Fatalf("failed to create record dir: %v", err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write record %s: %v", name, err)
	}
}

// WriteFile writes an arbitrary file relative to the vault root.
func (r *CLI) WriteFile(relPath, content string) {
	r.t.Helper()

	path := filepath.Join(r.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		r.t.Fatalf("failed to create dir for %s: %v", relPath, err)
	}

	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		r.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// ViewDir returns the path to the vault's view directory.
func (r *CLI) ViewDir() string {
	return filepath.Join(r.Dir, ".fair", "views")
}

// Run executes the CLI with the given args and returns stdout, stderr,
// and exit code. Args should not include "fair" or "--cwd", those are
// added automatically.
func (r *CLI) Run(args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"fair", "--cwd", r.Dir}, args...)
	code := Run(strings.NewReader(""), &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// RunWithInput executes the CLI with the given stdin.
func (r *CLI) RunWithInput(stdin io.Reader, args ...string) (string, string, int) {
	var outBuf, errBuf bytes.Buffer

	fullArgs := append([]string{"fair", "--cwd", r.Dir}, args...)
	code := Run(stdin, &outBuf, &errBuf, fullArgs, r.Env)

	return outBuf.String(), errBuf.String(), code
}

// MustRun executes the CLI and fails the test on a non-zero exit code.
// Returns trimmed stdout.
func (r *CLI) MustRun(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code != 0 {
		r.t.Fatalf("command %v failed with exit code %d\nstderr: %s", args, code, stderr)
	}

	return strings.TrimSpace(stdout)
}

// MustFail executes the CLI and fails the test if the command succeeds.
// Returns trimmed stderr.
func (r *CLI) MustFail(args ...string) string {
	r.t.Helper()

	stdout, stderr, code := r.Run(args...)
	if code == 0 {
		r.t.Fatalf("command %v should have failed but succeeded\nstdout: %s", args, stdout)
	}

	return strings.TrimSpace(stderr)
}

// AssertContains fails the test if content doesn't contain substr.
func AssertContains(t *testing.T, content, substr string) {
	t.Helper()

	if !strings.Contains(content, substr) {
		t.Errorf("content should contain %q\ncontent:\n%s", substr, content)
	}
}

// AssertNotContains fails the test if content contains substr.
func AssertNotContains(t *testing.T, content, substr string) {
	t.Helper()

	if strings.Contains(content, substr) {
		t.Errorf("content should NOT contain %q\ncontent:\n%s", substr, content)
	}
}
