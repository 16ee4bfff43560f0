// Package countries holds the static country selector table.
package countries

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultCode is used when a display name is not in the table.
const DefaultCode = "US"

//go:embed countries.yaml
var defaultTable []byte

// Country is one selector entry.
type Country struct {
	Name string `yaml:"name" json:"name"`
	Code string `yaml:"code" json:"code"`
}

// Table maps display names to ISO alpha-2 codes. It is read-only after Load.
type Table struct {
	entries []Country
	byName  map[string]string
}

// Load parses the embedded country list.
func Load() (*Table, error) {
	return Parse(defaultTable)
}

// Parse builds a Table from YAML of the form {countries: [{name, code}]}.
func Parse(data []byte) (*Table, error) {
	var doc struct {
		Countries []Country `yaml:"countries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse country table: %w", err)
	}
	if len(doc.Countries) == 0 {
		return nil, fmt.Errorf("country table is empty")
	}

	t := &Table{
		entries: make([]Country, 0, len(doc.Countries)),
		byName:  make(map[string]string, len(doc.Countries)),
	}
	for _, c := range doc.Countries {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if c.Name == "" || len(code) != 2 {
			return nil, fmt.Errorf("invalid country entry %q/%q", c.Name, c.Code)
		}
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("duplicate country %q", c.Name)
		}
		t.byName[c.Name] = code
		t.entries = append(t.entries, Country{Name: c.Name, Code: code})
	}
	return t, nil
}

// Code returns the code for a display name.
func (t *Table) Code(name string) (string, bool) {
	code, ok := t.byName[name]
	return code, ok
}

// CodeOrDefault returns the code for name, or DefaultCode when unknown.
func (t *Table) CodeOrDefault(name string) string {
	if code, ok := t.byName[name]; ok {
		return code
	}
	return DefaultCode
}

// Name returns the first display name mapped to code.
func (t *Table) Name(code string) (string, bool) {
	code = strings.ToUpper(code)
	for _, c := range t.entries {
		if c.Code == code {
			return c.Name, true
		}
	}
	return "", false
}

// NameOrDefault returns name when it is in the table, and otherwise the name
// of DefaultCode, so a form shows the country that CodeOrDefault searches.
func (t *Table) NameOrDefault(name string) string {
	if _, ok := t.byName[name]; ok {
		return name
	}
	n, _ := t.Name(DefaultCode)
	return n
}

// Names returns display names in table order.
func (t *Table) Names() []string {
	names := make([]string, len(t.entries))
	for i, c := range t.entries {
		names[i] = c.Name
	}
	return names
}

// Entries returns a copy of the table in order.
func (t *Table) Entries() []Country {
	out := make([]Country, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *Table) Len() int { return len(t.entries) }
