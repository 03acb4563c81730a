// Package frontmatter parses and serializes the restricted YAML subset used
// by vault record metadata blocks.
//
// The supported grammar is intentionally minimal to keep parsing
// deterministic and avoid the complexity of full YAML. Only the following
// constructs are allowed:
//
//	---
//	fileClass: company
//	Priority: Low
//	Software Focus: false
//	Headcount: 250
//	Link:
//	Majors:
//	  - Computer Science
//	  - Biology
//	job_types: [Internship, Full-Time]
//	---
//
// Scalar values may be unquoted strings, numbers, or booleans (true/false).
// Keys may contain spaces, matching how vault properties are named. A key
// with no value ("Link:") holds an explicit null, which viewers treat the
// same as a missing key. Lists contain only strings. Quoted strings using
// single or double quotes are supported for values containing special
// characters.
//
// Features explicitly not supported: nested maps, multi-line strings,
// anchors, aliases, tags, flow mappings, and nested lists.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Kind distinguishes the value shapes a metadata key can hold.
type Kind uint8

// Kind values enumerate the supported metadata shapes.
const (
	KindNull Kind = iota
	KindText
	KindNumber
	KindBool
	KindList
)

// Value is a validated metadata value in the supported YAML subset.
// The zero value is an explicit null.
type Value struct {
	Kind   Kind     // Kind describes which field below is populated.
	Text   string   // Text holds the value when Kind == KindText.
	Number float64  // Number holds the value when Kind == KindNumber.
	Bool   bool     // Bool holds the value when Kind == KindBool.
	List   []string // List holds the value when Kind == KindList.
}

// Null returns an explicit null value.
func Null() Value {
	return Value{Kind: KindNull}
}

// TextValue returns a text value.
func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

// NumberValue returns a numeric value.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: n}
}

// BoolValue returns a boolean value.
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// ListValue returns a string list value.
func ListValue(items []string) Value {
	return Value{Kind: KindList, List: items}
}

// IsNull reports whether the value is an explicit null.
func (v Value) IsNull() bool {
	return v.Kind == KindNull
}

// String renders the value the way a table cell shows it.
// Null renders empty, lists render comma-separated.
func (v Value) String() string {
	switch v.Kind {
	case KindNull:
		return ""
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}

		return "false"
	case KindList:
		return strings.Join(v.List, ", ")
	default:
		return ""
	}
}

// Equal reports deep equality between two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}

	switch v.Kind {
	case KindNull:
		return true
	case KindText:
		return v.Text == other.Text
	case KindNumber:
		return v.Number == other.Number
	case KindBool:
		return v.Bool == other.Bool
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}

		for i := range v.List {
			if v.List[i] != other.List[i] {
				return false
			}
		}

		return true
	default:
		return false
	}
}

// Frontmatter maps metadata keys to validated values.
type Frontmatter map[string]Value

const (
	delimiter    = "---"
	maxBlockLine = 400 // Parse fails past this many frontmatter lines.
)

var delimiterBytes = []byte(delimiter)

// Parse reads the frontmatter block from a full record payload and returns
// the metadata map plus the body bytes following the closing delimiter.
// A record without an opening delimiter on its first line parses as empty
// metadata with the whole payload as body; an empty block ("---\n---\n") is
// valid and returns an empty map.
func Parse(src []byte) (Frontmatter, []byte, error) {
	source := newLineSource(src)

	first, ok := source.next()
	if !ok || !bytes.Equal(first.data, delimiterBytes) {
		return Frontmatter{}, src, nil
	}

	out := make(Frontmatter)

	for {
		tok, ok := source.next()
		if !ok {
			return nil, nil, errors.New("parse frontmatter: missing closing delimiter")
		}

		if bytes.Equal(tok.data, delimiterBytes) {
			return out, source.remainder(), nil
		}

		if tok.num > maxBlockLine {
			return nil, nil, errors.New("parse frontmatter: exceeds maximum line limit")
		}

		if len(bytes.TrimSpace(tok.data)) == 0 {
			continue
		}

		if tok.data[0] == ' ' || tok.data[0] == '\t' {
			return nil, nil, parseErr(tok.num, "unexpected indentation")
		}

		keyRaw, restRaw, found := bytes.Cut(tok.data, []byte{':'})
		if !found {
			return nil, nil, parseErr(tok.num, "missing ':'")
		}

		key := string(bytes.TrimSpace(keyRaw))
		if key == "" {
			return nil, nil, parseErr(tok.num, "empty key")
		}

		if _, exists := out[key]; exists {
			return nil, nil, parseErr(tok.num, "duplicate key")
		}

		rest := bytes.TrimSpace(restRaw)
		if len(rest) != 0 {
			value, err := parseScalarOrInlineList(rest)
			if err != nil {
				return nil, nil, parseErr(tok.num, err.Error())
			}

			out[key] = value

			continue
		}

		// Bare "key:" is either an explicit null or the start of a block
		// list, decided by whether an indented "- item" line follows.
		value, err := parseNullOrBlockList(source)
		if err != nil {
			return nil, nil, err
		}

		out[key] = value
	}
}

func parseScalarOrInlineList(rest []byte) (Value, error) {
	if rest[0] == '[' {
		if rest[len(rest)-1] != ']' {
			return Value{}, errors.New("unterminated list")
		}

		items, err := parseInlineList(rest)
		if err != nil {
			return Value{}, err
		}

		return ListValue(items), nil
	}

	return parseScalar(rest)
}

func parseNullOrBlockList(source *lineSource) (Value, error) {
	tok, ok := source.next()
	if !ok {
		return Value{}, errors.New("parse frontmatter: missing closing delimiter")
	}

	indent, hasTab := leadingSpaces(tok.data)
	if hasTab {
		return Value{}, parseErr(tok.num, "tabs are not allowed")
	}

	trimmed := tok.data[indent:]
	if indent == 0 || len(trimmed) < 2 || trimmed[0] != '-' || trimmed[1] != ' ' {
		// Not a list item: the key was an explicit null. The line belongs
		// to whatever comes next.
		source.unread(tok)

		return Null(), nil
	}

	items := []string{}

	for {
		item := bytes.TrimSpace(trimmed[2:])
		if len(item) == 0 {
			return Value{}, parseErr(tok.num, "empty list item")
		}

		parsed, err := parseString(item)
		if err != nil {
			return Value{}, parseErr(tok.num, err.Error())
		}

		items = append(items, parsed)

		next, ok := source.next()
		if !ok {
			return Value{}, errors.New("parse frontmatter: missing closing delimiter")
		}

		nextIndent, hasTab := leadingSpaces(next.data)
		if hasTab {
			return Value{}, parseErr(next.num, "tabs are not allowed")
		}

		trimmed = next.data[nextIndent:]
		if nextIndent == 0 || len(trimmed) < 2 || trimmed[0] != '-' || trimmed[1] != ' ' {
			source.unread(next)

			return ListValue(items), nil
		}

		if nextIndent != indent {
			return Value{}, parseErr(next.num, "inconsistent indentation")
		}

		tok = next
	}
}

func parseInlineList(value []byte) ([]string, error) {
	inner := bytes.TrimSpace(value[1 : len(value)-1])
	if len(inner) == 0 {
		return []string{}, nil
	}

	parts := bytes.Split(inner, []byte{','})

	items := make([]string, 0, len(parts))

	for _, part := range parts {
		item := bytes.TrimSpace(part)
		if len(item) == 0 {
			return nil, errors.New("empty list item")
		}

		parsed, err := parseString(item)
		if err != nil {
			return nil, err
		}

		items = append(items, parsed)
	}

	return items, nil
}

func parseScalar(value []byte) (Value, error) {
	if hasUnsupportedPrefix(value) {
		return Value{}, errors.New("unsupported value")
	}

	switch {
	case bytes.Equal(value, []byte("true")):
		return BoolValue(true), nil
	case bytes.Equal(value, []byte("false")):
		return BoolValue(false), nil
	case bytes.Equal(value, []byte("null")), bytes.Equal(value, []byte("~")):
		return Null(), nil
	}

	if looksNumeric(value) {
		parsed, err := strconv.ParseFloat(string(value), 64)
		if err == nil {
			return NumberValue(parsed), nil
		}
	}

	parsed, err := parseString(value)
	if err != nil {
		return Value{}, err
	}

	return TextValue(parsed), nil
}

// looksNumeric gates ParseFloat so values like "1e" or "Low" stay text and
// hex/inf/NaN spellings are not accepted as numbers.
func looksNumeric(value []byte) bool {
	idx := 0
	if value[0] == '-' || value[0] == '+' {
		idx++
	}

	if idx == len(value) {
		return false
	}

	sawDigit := false

	for ; idx < len(value); idx++ {
		c := value[idx]

		switch {
		case c >= '0' && c <= '9':
			sawDigit = true
		case c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+':
			// Left for ParseFloat to validate.
		default:
			return false
		}
	}

	return sawDigit
}

func hasUnsupportedPrefix(value []byte) bool {
	switch value[0] {
	case '[', '{', '}', ']', '|', '>', '&', '*', '!', '%', '@', '`':
		return true
	}

	return len(value) >= 2 && value[0] == '-' && value[1] == ' '
}

func parseString(value []byte) (string, error) {
	if value[0] == '"' {
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errors.New("unterminated quoted string")
		}

		parsed, err := strconv.Unquote(string(value))
		if err != nil {
			return "", errors.New("invalid quoted string")
		}

		return parsed, nil
	}

	if value[0] == '\'' {
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errors.New("unterminated quoted string")
		}

		return string(value[1 : len(value)-1]), nil
	}

	return string(value), nil
}

// leadingSpaces counts the spaces indenting a line and reports whether a
// tab appears in the indentation instead.
func leadingSpaces(line []byte) (int, bool) {
	count := 0

	for _, r := range line {
		if r == ' ' {
			count++

			continue
		}

		if r == '\t' {
			return 0, true
		}

		break
	}

	return count, false
}

// Marshal serializes frontmatter in a deterministic YAML subset, fenced by
// --- delimiters. keyOrder lists the keys to emit first, in order; keys it
// names that are absent from the map are emitted as explicit nulls, and
// remaining keys follow sorted alphabetically. Pass nil for fully sorted
// output.
func (fm Frontmatter) Marshal(keyOrder []string) (string, error) {
	if fm == nil {
		return "", errors.New("marshal frontmatter: nil map")
	}

	emitted := make(map[string]bool, len(fm))
	ordered := make([]string, 0, len(fm)+len(keyOrder))

	for _, key := range keyOrder {
		if emitted[key] {
			continue
		}

		emitted[key] = true
		ordered = append(ordered, key)
	}

	rest := make([]string, 0, len(fm))

	for key := range fm {
		if !emitted[key] {
			rest = append(rest, key)
		}
	}

	slices.Sort(rest)
	ordered = append(ordered, rest...)

	var builder strings.Builder

	builder.WriteString(delimiter)
	builder.WriteString("\n")

	for _, key := range ordered {
		err := marshalEntry(&builder, key, fm[key])
		if err != nil {
			return "", err
		}
	}

	builder.WriteString(delimiter)
	builder.WriteString("\n")

	return builder.String(), nil
}

func marshalEntry(builder *strings.Builder, key string, value Value) error {
	if key == "" || strings.ContainsAny(key, ":\n") {
		return fmt.Errorf("marshal frontmatter: invalid key %q", key)
	}

	builder.WriteString(key)
	builder.WriteString(":")

	switch value.Kind {
	case KindNull:
		builder.WriteString("\n")
	case KindText:
		builder.WriteString(" ")
		builder.WriteString(quoteIfNeeded(value.Text))
		builder.WriteString("\n")
	case KindNumber:
		builder.WriteString(" ")
		builder.WriteString(strconv.FormatFloat(value.Number, 'f', -1, 64))
		builder.WriteString("\n")
	case KindBool:
		if value.Bool {
			builder.WriteString(" true\n")
		} else {
			builder.WriteString(" false\n")
		}
	case KindList:
		if len(value.List) == 0 {
			builder.WriteString(" []\n")

			break
		}

		builder.WriteString("\n")

		for _, item := range value.List {
			if item == "" {
				return fmt.Errorf("marshal frontmatter: %s: empty list item", key)
			}

			builder.WriteString("  - ")
			builder.WriteString(quoteIfNeeded(item))
			builder.WriteString("\n")
		}
	default:
		return fmt.Errorf("marshal frontmatter: %s: unsupported value kind %d", key, value.Kind)
	}

	return nil
}

// quoteIfNeeded wraps strings the parser would otherwise misread: values
// that parse back as booleans, numbers, nulls, lists, or other reserved
// prefixes.
func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}

	switch s {
	case "true", "false", "null", "~":
		return strconv.Quote(s)
	}

	if hasUnsupportedPrefix([]byte(s)) || looksNumeric([]byte(s)) {
		return strconv.Quote(s)
	}

	if s != strings.TrimSpace(s) || strings.ContainsAny(s, "\n\"'#") {
		return strconv.Quote(s)
	}

	return s
}

type lineToken struct {
	data []byte
	num  int
}

type lineSource struct {
	data    []byte
	idx     int
	lineNum int
	pending *lineToken
}

func newLineSource(data []byte) *lineSource {
	return &lineSource{data: data}
}

func (s *lineSource) next() (lineToken, bool) {
	if s.pending != nil {
		out := *s.pending
		s.pending = nil

		return out, true
	}

	if s.idx >= len(s.data) {
		return lineToken{}, false
	}

	start := s.idx
	for s.idx < len(s.data) && s.data[s.idx] != '\n' {
		s.idx++
	}

	end := s.idx
	if s.idx < len(s.data) {
		s.idx++
	}

	line := s.data[start:end]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	s.lineNum++

	return lineToken{data: line, num: s.lineNum}, true
}

func (s *lineSource) unread(tok lineToken) {
	s.pending = &lineToken{data: tok.data, num: tok.num}
}

func (s *lineSource) remainder() []byte {
	if s.idx >= len(s.data) {
		return nil
	}

	return s.data[s.idx:]
}

type parseError struct {
	line int
	msg  string
}

func (e *parseError) Error() string {
	return fmt.Sprintf("parse frontmatter line %d: %s", e.line, e.msg)
}

func parseErr(line int, msg string) error {
	return &parseError{line: line, msg: msg}
}
