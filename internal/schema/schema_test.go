package schema_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
	"github.com/Whatshisname303/fair-renderer/internal/schema"
)

const companySchema = `{
	// Field class for company records.
	"name": "company",
	"fields": [
		{"name": "Work", "type": "text"},
		{"name": "Priority", "type": "text", "default": "Low"},
		{"name": "Headcount", "type": "number"},
		{"name": "Software Focus", "type": "boolean", "default": false},
		{"name": "Done", "type": "boolean", "default": false},
		{"name": "Link", "type": "link"},
		{"name": "Founded", "type": "date"},
		{"name": "Majors", "type": "list", "default": []},
	]
}`

func Test_Parse_LoadsFieldsInDeclarationOrder(t *testing.T) {
	t.Parallel()

	reg, err := schema.Parse([]byte(companySchema))
	require.NoError(t, err)

	assert.Equal(t, "company", reg.Name())

	wantNames := []string{
		"Work", "Priority", "Headcount", "Software Focus",
		"Done", "Link", "Founded", "Majors",
	}
	assert.Equal(t, wantNames, reg.FieldNames())

	priority, ok := reg.Lookup("Priority")
	require.True(t, ok)
	assert.Equal(t, schema.TypeText, priority.Type)
	require.NotNil(t, priority.Default)
	assert.True(t, priority.Default.Equal(frontmatter.TextValue("Low")))

	majors, ok := reg.Lookup("Majors")
	require.True(t, ok)
	assert.Equal(t, schema.TypeList, majors.Type)
	require.NotNil(t, majors.Default)
	assert.Equal(t, frontmatter.KindList, majors.Default.Kind)

	work, ok := reg.Lookup("Work")
	require.True(t, ok)
	assert.Nil(t, work.Default)
}

func Test_Lookup_ReturnsNotOK_When_FieldUnknown(t *testing.T) {
	t.Parallel()

	reg, err := schema.Parse([]byte(companySchema))
	require.NoError(t, err)

	_, ok := reg.Lookup("Vanished")
	assert.False(t, ok)
}

func Test_Parse_Fails_When_DocumentInvalid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "duplicate field name",
			doc:     `{"name": "c", "fields": [{"name": "A", "type": "text"}, {"name": "A", "type": "number"}]}`,
			wantErr: "duplicate schema field",
		},
		{
			name:    "unknown field type",
			doc:     `{"name": "c", "fields": [{"name": "A", "type": "blob"}]}`,
			wantErr: "unknown schema field type",
		},
		{
			name:    "empty field name",
			doc:     `{"name": "c", "fields": [{"name": "", "type": "text"}]}`,
			wantErr: "field name cannot be empty",
		},
		{
			name:    "non-string default list item",
			doc:     `{"name": "c", "fields": [{"name": "A", "type": "list", "default": [1]}]}`,
			wantErr: "default list items must be strings",
		},
		{
			name:    "malformed json",
			doc:     `{"name":`,
			wantErr: "parse schema file",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			_, err := schema.Parse([]byte(testCase.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), testCase.wantErr)
		})
	}
}

func Test_Load_ReadsHujsonFromDisk(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "company.json")

	err := os.WriteFile(path, []byte(companySchema), 0o600)
	require.NoError(t, err)

	reg, err := schema.Load(path)
	require.NoError(t, err)
	assert.Len(t, reg.Fields(), 8)
}

func Test_Fields_ReturnsCopy(t *testing.T) {
	t.Parallel()

	reg, err := schema.Parse([]byte(companySchema))
	require.NoError(t, err)

	fields := reg.Fields()
	fields[0].Name = "mutated"

	again, ok := reg.Lookup("Work")
	require.True(t, ok)
	assert.Equal(t, "Work", again.Name)
}
