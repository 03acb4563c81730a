package cli_test

import (
	"strings"
	"testing"

	"github.com/Whatshisname303/fair-renderer/internal/cli"
)

func Test_Fields_Lists_Schema_In_Declaration_Order(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout := c.MustRun("fields")

	lines := strings.Split(stdout, "\n")
	if len(lines) < 8 {
		t.Fatalf("expected header plus six fields, got:\n%s", stdout)
	}

	cli.AssertContains(t, lines[0], "field")
	cli.AssertContains(t, lines[0], "type")

	cli.AssertContains(t, lines[2], "Name")
	cli.AssertContains(t, lines[3], "Majors")
	cli.AssertContains(t, lines[3], "list")
	cli.AssertContains(t, lines[4], "Headcount")
	cli.AssertContains(t, lines[4], "number")

	// Default value shown for Priority
	cli.AssertContains(t, lines[7], "Priority")
	cli.AssertContains(t, lines[7], "Low")
}

func Test_Fields_Missing_Schema(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	// Point the vault at a directory with no schema document.
	stderr := c.MustFail("--cwd", t.TempDir(), "fields")

	cli.AssertContains(t, stderr, "error:")
}

func Test_Fields_Rejects_Arguments(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("fields", "extra")
	cli.AssertContains(t, stderr, "no arguments")
}
