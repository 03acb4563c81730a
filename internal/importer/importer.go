// Package importer turns a career-fair JSON export into vault company
// records. The export is the host platform's results payload; each entry
// becomes one markdown record whose frontmatter carries the company
// metadata plus the schema's user-tracking fields prefilled with their
// defaults.
package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
	"github.com/Whatshisname303/fair-renderer/internal/schema"
)

// Company is one parsed export entry.
type Company struct {
	Name              string
	Description       string
	Location          string
	Website           string
	LogoURL           string
	WorkAuthorization string
	JobTitles         string
	JobTypes          []string
	Majors            []string
	SchoolYears       []string
	Sessions          []string
}

// Frontmatter keys written for company data.
const (
	keyFileClass = "fileClass"
	keyName      = "Name"
	keyLocation  = "Location"
	keyWebsite   = "Website"
	keyLogo      = "Logo"
	keyWorkAuth  = "Work Authorization"
	keyJobTitles = "Job Titles"
	keyJobTypes  = "Job Types"
	keyMajors    = "Majors"
	keyYears     = "School Years"
	keySessions  = "Sessions"
)

// EntryError reports one malformed export entry. Malformed entries are
// skipped; the rest of the export still imports.
type EntryError struct {
	Index int
	Err   error
}

func (e EntryError) Error() string {
	return fmt.Sprintf("entry %d: %v", e.Index, e.Err)
}

// ParseExport decodes the export payload. The top level must be an object
// with a results array; anything else is a hard error. Per-entry problems
// (mistyped fields) come back as EntryErrors alongside the entries that
// did parse; absent fields are simply empty, exports omit what a company
// left blank.
func ParseExport(data []byte) ([]Company, []EntryError, error) {
	var payload struct {
		Results []json.RawMessage `json:"results"`
	}

	err := json.Unmarshal(data, &payload)
	if err != nil {
		return nil, nil, fmt.Errorf("parse export: %w", err)
	}

	if payload.Results == nil {
		return nil, nil, fmt.Errorf("parse export: missing results array")
	}

	companies := make([]Company, 0, len(payload.Results))

	var entryErrs []EntryError

	for i, raw := range payload.Results {
		company, entryErr := parseEntry(raw)
		if entryErr != nil {
			entryErrs = append(entryErrs, EntryError{Index: i, Err: entryErr})

			continue
		}

		companies = append(companies, company)
	}

	return companies, entryErrs, nil
}

type exportEntry struct {
	Employer struct {
		Name    any `json:"name"`
		Website any `json:"website"`
		LogoURL any `json:"logo_url"`
	} `json:"employer"`
	Description any             `json:"company_description"`
	Location    any             `json:"location_name"`
	WorkAuth    any             `json:"work_authorization_requirements"`
	JobTitles   any             `json:"job_titles"`
	JobTypes    json.RawMessage `json:"job_types"`
	Majors      json.RawMessage `json:"majors"`
	SchoolYears json.RawMessage `json:"school_years"`
	Sessions    json.RawMessage `json:"attending_career_fair_sessions"`
}

func parseEntry(raw json.RawMessage) (Company, error) {
	var entry exportEntry

	err := json.Unmarshal(raw, &entry)
	if err != nil {
		return Company{}, err
	}

	company := Company{}

	company.Name, err = asString(entry.Employer.Name, "name")
	if err != nil {
		return Company{}, err
	}

	company.Description, err = asString(entry.Description, "description")
	if err != nil {
		return Company{}, err
	}

	company.Location, err = asString(entry.Location, "location")
	if err != nil {
		return Company{}, err
	}

	company.Website, err = asString(entry.Employer.Website, "website")
	if err != nil {
		return Company{}, err
	}

	company.LogoURL, err = asString(entry.Employer.LogoURL, "logo_url")
	if err != nil {
		return Company{}, err
	}

	company.WorkAuthorization, err = asString(entry.WorkAuth, "work_auth")
	if err != nil {
		return Company{}, err
	}

	company.JobTitles, err = asString(entry.JobTitles, "job_titles")
	if err != nil {
		return Company{}, err
	}

	company.JobTypes, err = namedList(entry.JobTypes, "name", "job_type")
	if err != nil {
		return Company{}, err
	}

	company.Majors, err = namedList(entry.Majors, "name", "major")
	if err != nil {
		return Company{}, err
	}

	company.SchoolYears, err = namedList(entry.SchoolYears, "name", "school_year")
	if err != nil {
		return Company{}, err
	}

	company.Sessions, err = namedList(entry.Sessions, "display_name", "session")
	if err != nil {
		return Company{}, err
	}

	return company, nil
}

// asString reads an optional scalar field. Exports omit fields a company
// left blank, so absence is an empty string; only a present non-string is
// a malformed entry.
func asString(raw any, field string) (string, error) {
	if raw == nil {
		return "", nil
	}

	str, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s: not a string", field)
	}

	return str, nil
}

// namedList extracts the key attribute from each object in an array field,
// e.g. majors[].name or sessions[].display_name. An absent field is an
// empty list.
func namedList(raw json.RawMessage, key, field string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}

	var items []map[string]any

	err := json.Unmarshal(raw, &items)
	if err != nil {
		return nil, fmt.Errorf("%s: not an array of objects", field)
	}

	out := make([]string, 0, len(items))

	for _, item := range items {
		str, ok := item[key].(string)
		if !ok {
			return nil, fmt.Errorf("%s: %s not a string", field, key)
		}

		out = append(out, str)
	}

	return out, nil
}

// Frontmatter builds the record metadata for a company: the fileClass tag,
// every schema field prefilled with its declared default (explicit null
// when it has none), and the company data itself.
func (c Company) Frontmatter(registry *schema.Registry) frontmatter.Frontmatter {
	fm := frontmatter.Frontmatter{
		keyFileClass: frontmatter.TextValue(registry.Name()),
	}

	for _, field := range registry.Fields() {
		if field.Default != nil {
			fm[field.Name] = *field.Default
		} else {
			fm[field.Name] = frontmatter.Null()
		}
	}

	fm[keyName] = frontmatter.TextValue(c.Name)
	fm[keyLocation] = frontmatter.TextValue(c.Location)
	fm[keyWebsite] = frontmatter.TextValue(c.Website)
	fm[keyLogo] = frontmatter.TextValue(c.LogoURL)
	fm[keyWorkAuth] = frontmatter.TextValue(c.WorkAuthorization)
	fm[keyJobTitles] = frontmatter.TextValue(c.JobTitles)
	fm[keyJobTypes] = frontmatter.ListValue(dropEmpty(c.JobTypes))
	fm[keyMajors] = frontmatter.ListValue(dropEmpty(c.Majors))
	fm[keyYears] = frontmatter.ListValue(dropEmpty(c.SchoolYears))
	fm[keySessions] = frontmatter.ListValue(dropEmpty(c.Sessions))

	return fm
}

// dropEmpty removes empty strings, which the frontmatter serializer
// rejects as list items.
func dropEmpty(items []string) []string {
	out := make([]string, 0, len(items))

	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}

	return out
}

// render produces the full record file: frontmatter, then a description
// section.
func (c Company) render(registry *schema.Registry) (string, error) {
	keyOrder := append([]string{keyFileClass}, registry.FieldNames()...)

	head, err := c.Frontmatter(registry).Marshal(keyOrder)
	if err != nil {
		return "", err
	}

	var builder strings.Builder

	builder.WriteString(head)
	builder.WriteString("\n**Description:**\n\n")
	builder.WriteString(c.Description)
	builder.WriteString("\n")

	return builder.String(), nil
}

// WriteResult reports the outcome for one company record.
type WriteResult struct {
	Company string
	Path    string
	Err     error
}

// WriteRecords renders each company into dir as <Name>.md. A record that
// cannot be written under its own name falls back to error<i>.md so the
// failure stays visible inside the vault; results carry every outcome in
// input order.
func WriteRecords(dir string, companies []Company, registry *schema.Registry) ([]WriteResult, error) {
	err := os.MkdirAll(dir, 0o750)
	if err != nil {
		return nil, fmt.Errorf("create record directory: %w", err)
	}

	results := make([]WriteResult, 0, len(companies))

	for i, company := range companies {
		content, renderErr := company.render(registry)
		if renderErr != nil {
			results = append(results, WriteResult{Company: company.Name, Err: renderErr})

			continue
		}

		name := recordFileName(company.Name)
		path := filepath.Join(dir, name)

		writeErr := atomic.WriteFile(path, strings.NewReader(content))
		if writeErr != nil {
			fallback := filepath.Join(dir, fmt.Sprintf("error%d.md", i))

			fallbackErr := atomic.WriteFile(fallback, strings.NewReader(content))
			if fallbackErr != nil {
				results = append(results, WriteResult{Company: company.Name, Err: fallbackErr})

				continue
			}

			results = append(results, WriteResult{Company: company.Name, Path: fallback, Err: writeErr})

			continue
		}

		results = append(results, WriteResult{Company: company.Name, Path: path})
	}

	return results, nil
}

// recordFileName maps a company name to a safe markdown file name.
func recordFileName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', 0:
			return '-'
		}

		return r
	}, name)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" || cleaned == "." || cleaned == ".." {
		cleaned = "unnamed"
	}

	return cleaned + ".md"
}
