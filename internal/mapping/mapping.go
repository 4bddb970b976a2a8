// Package mapping holds the static many-to-many table of majors to BLS occupations.
package mapping

import (
	_ "embed"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sells-group/career-explorer/internal/apperr"
)

//go:embed majors.yaml
var embeddedMajors []byte

// document is the on-disk shape of a mapping file.
type document struct {
	Majors []struct {
		Name        string   `yaml:"name"`
		Occupations []string `yaml:"occupations"`
	} `yaml:"majors"`
	Defaults []string `yaml:"defaults"`
}

// Table maps major names to ordered occupation names. It is immutable after
// construction and safe for concurrent readers.
type Table struct {
	order    []string // declaration order
	byMajor  map[string][]string
	defaults []string
}

// Default returns the table compiled into the binary.
func Default() *Table {
	t, err := Parse(embeddedMajors)
	if err != nil {
		panic("mapping: embedded majors.yaml is invalid: " + err.Error())
	}
	return t
}

// LoadFile reads a mapping document from path. An empty path yields the
// embedded table.
func LoadFile(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperr.Configuration(err, "mapping: read "+path)
	}
	return Parse(data)
}

// Parse decodes and validates a mapping document.
func Parse(data []byte) (*Table, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, apperr.Configuration(err, "mapping: parse document")
	}
	if len(doc.Majors) == 0 {
		return nil, apperr.Configurationf("mapping: document defines no majors")
	}

	t := &Table{byMajor: make(map[string][]string, len(doc.Majors))}
	for _, m := range doc.Majors {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			return nil, apperr.Configurationf("mapping: major with empty name")
		}
		if _, dup := t.byMajor[name]; dup {
			return nil, apperr.Configurationf("mapping: duplicate major %q", name)
		}

		seen := make(map[string]bool, len(m.Occupations))
		occs := make([]string, 0, len(m.Occupations))
		for _, o := range m.Occupations {
			o = strings.TrimSpace(o)
			if o == "" || seen[o] {
				continue
			}
			seen[o] = true
			occs = append(occs, o)
		}

		t.order = append(t.order, name)
		t.byMajor[name] = occs
	}

	for _, d := range doc.Defaults {
		d = strings.TrimSpace(d)
		if _, ok := t.byMajor[d]; !ok {
			return nil, apperr.Configurationf("mapping: default major %q is not mapped", d)
		}
		if !slices.Contains(t.defaults, d) {
			t.defaults = append(t.defaults, d)
		}
	}

	return t, nil
}

// OccupationsFor returns the occupations mapped to major, in declared order.
// Unknown majors yield an empty slice.
func (t *Table) OccupationsFor(major string) []string {
	return slices.Clone(t.byMajor[major])
}

// AllMajors returns every mapped major, sorted alphabetically.
func (t *Table) AllMajors() []string {
	out := slices.Clone(t.order)
	slices.Sort(out)
	return out
}

// DefaultMajors returns the curated first-run selection in curated order.
func (t *Table) DefaultMajors() []string {
	return slices.Clone(t.defaults)
}

// Has reports whether major is mapped.
func (t *Table) Has(major string) bool {
	_, ok := t.byMajor[major]
	return ok
}

// Len returns the number of mapped majors.
func (t *Table) Len() int {
	return len(t.order)
}
