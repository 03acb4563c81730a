package cli_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Whatshisname303/fair-renderer/internal/cli"
)

const sampleExport = `{
	"results": [
		{
			"employer": {
				"name": "Acme Robotics",
				"website": "https://acme.example",
				"logo_url": "https://acme.example/logo.png"
			},
			"company_description": "We build robots.",
			"location_name": "Boise, ID",
			"work_authorization_requirements": "US citizens only",
			"job_titles": "Software Engineer",
			"job_types": [{"name": "Internship"}],
			"majors": [{"name": "Computer Science"}],
			"school_years": [{"name": "Senior"}],
			"attending_career_fair_sessions": [{"display_name": "Day 1"}]
		},
		{
			"employer": {"name": 42}
		},
		{
			"employer": {
				"name": "Zeta Biotech",
				"website": "https://zeta.example"
			},
			"company_description": "Biology things.",
			"location_name": "Remote",
			"job_titles": "Lab Tech",
			"majors": [{"name": "Biology"}]
		}
	]
}`

func writeExport(t *testing.T, c *cli.CLI) string {
	t.Helper()

	path := filepath.Join(c.Dir, "export.json")
	if err := os.WriteFile(path, []byte(sampleExport), 0o600); err != nil {
		t.Fatalf("failed to write export: %v", err)
	}

	return path
}

func Test_Import_Writes_Records_And_Reports_Skips(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := writeExport(t, c)

	stdout, stderr, exitCode := c.Run("import", path)

	// The malformed entry makes this a partial success.
	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d\nstderr: %s", got, want, stderr)
	}

	cli.AssertContains(t, stderr, "warning:")
	cli.AssertContains(t, stderr, "entry 1")

	cli.AssertContains(t, stdout, "Imported 2 companies")
	cli.AssertContains(t, stdout, "1 entries skipped")

	for _, name := range []string{"Acme Robotics.md", "Zeta Biotech.md"} {
		if _, err := os.Stat(filepath.Join(c.Dir, "companies", name)); err != nil {
			t.Errorf("expected record %s: %v", name, err)
		}
	}

	// Imported records render through the table pipeline.
	table := c.MustRun("table", "--columns", "Name,Majors")
	cli.AssertContains(t, table, "Acme Robotics")
	cli.AssertContains(t, table, "Computer Science")
	cli.AssertContains(t, table, "2 rows")
}

func Test_Import_Dry_Run_Writes_Nothing(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	path := writeExport(t, c)

	stdout, _, exitCode := c.Run("import", "--dry-run", path)

	if got, want := exitCode, 1; got != want {
		t.Errorf("exitCode=%d, want=%d", got, want)
	}

	cli.AssertContains(t, stdout, "Would import 2 companies")

	if _, err := os.Stat(filepath.Join(c.Dir, "companies")); !os.IsNotExist(err) {
		t.Errorf("dry run should not create the record directory, stat err=%v", err)
	}
}

func Test_Import_Missing_File(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("import", filepath.Join(c.Dir, "nope.json"))
	cli.AssertContains(t, stderr, "error:")
}

func Test_Import_Invalid_Export(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("bad.json", `{"not_results": []}`)

	stderr := c.MustFail("import", filepath.Join(c.Dir, "bad.json"))
	cli.AssertContains(t, stderr, "error:")
}

func Test_Import_Requires_One_Argument(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	stderr := c.MustFail("import")
	cli.AssertContains(t, stderr, "exactly one export file")
}
