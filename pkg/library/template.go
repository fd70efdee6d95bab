package library

import (
	"bytes"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/devicemap/pkg/errors"
)

// Template is a parsed device or module type definition.
type Template struct {
	Entry  Entry
	Fields map[string]any
	Raw    []byte
}

// Load reads and parses the template behind entry. Parsed templates are
// cached by path; callers must not modify the returned Fields.
func (l *Library) Load(entry Entry) (*Template, error) {
	if l.templates == nil {
		return LoadFile(entry)
	}
	if cached, ok := l.templates.Get(entry.Path); ok {
		return cached.(*Template), nil
	}
	tmpl, err := LoadFile(entry)
	if err != nil {
		return nil, err
	}
	l.templates.SetDefault(entry.Path, tmpl)
	return tmpl, nil
}

// LoadFile reads and parses the template at entry.Path.
func LoadFile(entry Entry) (*Template, error) {
	raw, err := os.ReadFile(entry.Path)
	if err != nil {
		return nil, errors.WrapIO("read", entry.Path, err)
	}
	return Parse(entry, raw)
}

// Parse parses raw YAML into a Template for entry.
func Parse(entry Entry, raw []byte) (*Template, error) {
	fields := map[string]any{}
	if err := yaml.Unmarshal(raw, &fields); err != nil {
		return nil, errors.WrapParse("yaml", entry.File, err)
	}
	if len(fields) == 0 {
		return nil, errors.NewParseError("yaml", entry.File, "empty template", nil)
	}
	return &Template{Entry: entry, Fields: fields, Raw: raw}, nil
}

// Has reports whether the template declares key at all. An empty or null
// value still counts; module classification keys on the section's presence.
func (t *Template) Has(key string) bool {
	_, ok := t.Fields[key]
	return ok
}

// String returns a scalar field as a string, or "".
func (t *Template) String(key string) string {
	s, _ := t.Fields[key].(string)
	return s
}

// Slug is the template's slug field.
func (t *Template) Slug() string {
	return t.String("slug")
}

// Components returns the list under key (for example "interfaces") as maps.
// Non-mapping items are skipped.
func (t *Template) Components(key string) []map[string]any {
	list, ok := t.Fields[key].([]any)
	if !ok {
		return nil
	}
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

// Contains reports whether the serialized template contains substr, ignoring case.
func (t *Template) Contains(substr string) bool {
	return bytes.Contains(bytes.ToLower(t.Raw), bytes.ToLower([]byte(substr)))
}
