// Package schema loads the field-class document that declares which typed
// fields a record kind carries. The registry is read-only after loading:
// view evaluation resolves field names against it but never mutates it.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/Whatshisname303/fair-renderer/internal/frontmatter"
)

// FieldType enumerates the declared types a schema field can have.
type FieldType string

// Field types supported by the schema document.
const (
	TypeText    FieldType = "text"
	TypeNumber  FieldType = "number"
	TypeDate    FieldType = "date"
	TypeList    FieldType = "list"
	TypeBoolean FieldType = "boolean"
	TypeLink    FieldType = "link"
)

// ValidType reports whether t is one of the supported field types.
func ValidType(t FieldType) bool {
	switch t {
	case TypeText, TypeNumber, TypeDate, TypeList, TypeBoolean, TypeLink:
		return true
	}

	return false
}

// Field is one declared field: a name, a type, and an optional default
// shown when a record leaves the field unset.
type Field struct {
	Name    string             `json:"name"`
	Type    FieldType          `json:"type"`
	Default *frontmatter.Value `json:"-"`
}

// Registry holds the declared fields for a record kind in declaration
// order. It is immutable once loaded.
type Registry struct {
	name   string
	fields []Field
	byName map[string]int
}

var (
	errEmptyFieldName = errors.New("schema field name cannot be empty")
	errDuplicateField = errors.New("duplicate schema field")
	errUnknownType    = errors.New("unknown schema field type")
)

// New builds a registry from declared fields, validating name uniqueness
// and field types.
func New(name string, fields []Field) (*Registry, error) {
	byName := make(map[string]int, len(fields))

	for i, field := range fields {
		if field.Name == "" {
			return nil, errEmptyFieldName
		}

		if !ValidType(field.Type) {
			return nil, fmt.Errorf("%w: %s: %q", errUnknownType, field.Name, field.Type)
		}

		if _, exists := byName[field.Name]; exists {
			return nil, fmt.Errorf("%w: %s", errDuplicateField, field.Name)
		}

		byName[field.Name] = i
	}

	copied := make([]Field, len(fields))
	copy(copied, fields)

	return &Registry{name: name, fields: copied, byName: byName}, nil
}

// Name returns the record kind this registry describes (e.g. "company").
func (r *Registry) Name() string {
	return r.name
}

// Fields returns the declared fields in declaration order.
// The returned slice is a copy.
func (r *Registry) Fields() []Field {
	out := make([]Field, len(r.fields))
	copy(out, r.fields)

	return out
}

// Lookup resolves a field by name. Unknown names return ok=false, never an
// error: views may reference fields that no longer exist in the schema.
func (r *Registry) Lookup(name string) (Field, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Field{}, false
	}

	return r.fields[idx], true
}

// FieldNames returns the declared field names in declaration order.
func (r *Registry) FieldNames() []string {
	out := make([]string, len(r.fields))
	for i, field := range r.fields {
		out[i] = field.Name
	}

	return out
}

// document is the on-disk shape of the schema file.
type document struct {
	Name   string          `json:"name"`
	Fields []fieldDocument `json:"fields"`
}

type fieldDocument struct {
	Name    string    `json:"name"`
	Type    FieldType `json:"type"`
	Default any       `json:"default,omitempty"`
}

// Load reads a schema document. The file is hujson: comments and trailing
// commas are allowed, so the document stays hand-editable.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema file: %w", err)
	}

	return Parse(data)
}

// Parse builds a registry from schema document bytes.
func Parse(data []byte) (*Registry, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	var doc document

	err = json.Unmarshal(standardized, &doc)
	if err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	fields := make([]Field, 0, len(doc.Fields))

	for _, fd := range doc.Fields {
		field := Field{Name: fd.Name, Type: fd.Type}

		if fd.Default != nil {
			value, convErr := defaultValue(fd.Default)
			if convErr != nil {
				return nil, fmt.Errorf("parse schema file: field %s: %w", fd.Name, convErr)
			}

			field.Default = &value
		}

		fields = append(fields, field)
	}

	registry, err := New(doc.Name, fields)
	if err != nil {
		return nil, fmt.Errorf("parse schema file: %w", err)
	}

	return registry, nil
}

func defaultValue(raw any) (frontmatter.Value, error) {
	switch typed := raw.(type) {
	case string:
		return frontmatter.TextValue(typed), nil
	case float64:
		return frontmatter.NumberValue(typed), nil
	case bool:
		return frontmatter.BoolValue(typed), nil
	case []any:
		list := make([]string, 0, len(typed))

		for _, item := range typed {
			str, ok := item.(string)
			if !ok {
				return frontmatter.Value{}, errors.New("default list items must be strings")
			}

			list = append(list, str)
		}

		return frontmatter.ListValue(list), nil
	default:
		return frontmatter.Value{}, fmt.Errorf("unsupported default type %T", raw)
	}
}
