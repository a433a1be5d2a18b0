// Package catalog holds the static ICD-10 reference table the engine scores
// against. The catalog is immutable after construction and declaration order
// is stable: it is the index basis for the scorer's TF-IDF matrix.
package catalog

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one ICD-10 code with its descriptive metadata.
type Entry struct {
	Code        string   `json:"icd_code" yaml:"code"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"category"`
	Keywords    []string `json:"keywords" yaml:"keywords"`
}

// Catalog is an ordered, read-only set of entries.
type Catalog struct {
	entries []Entry
	byCode  map[string]int
}

// New builds a catalog from entries, preserving their order.
// Returns an error on duplicate or empty codes.
func New(entries []Entry) (*Catalog, error) {
	byCode := make(map[string]int, len(entries))
	for i, e := range entries {
		if e.Code == "" {
			return nil, fmt.Errorf("catalog entry %d has empty code", i)
		}
		if _, dup := byCode[e.Code]; dup {
			return nil, fmt.Errorf("duplicate catalog code %q", e.Code)
		}
		byCode[e.Code] = i
	}
	return &Catalog{entries: entries, byCode: byCode}, nil
}

// Default returns the built-in ICD-10 catalog.
func Default() *Catalog {
	c, err := New(defaultEntries())
	if err != nil {
		// The built-in table is validated by tests; a failure here is a bug.
		panic(err)
	}
	return c
}

// Load reads a catalog from a YAML file holding a list of entries.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog file %s contains no entries", path)
	}
	return New(entries)
}

// Get returns the entry for code, with ok=false when unknown.
func (c *Catalog) Get(code string) (Entry, bool) {
	i, ok := c.byCode[code]
	if !ok {
		return Entry{}, false
	}
	return c.entries[i], true
}

// All returns the entries in declaration order. The returned slice is shared;
// callers must not modify it.
func (c *Catalog) All() []Entry {
	return c.entries
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Documents returns the lowercased "description + joined keywords" corpus
// document for each entry, in declaration order. This is the fit input for
// the scoring vectorizer.
func (c *Catalog) Documents() []string {
	docs := make([]string, len(c.entries))
	for i, e := range c.entries {
		docs[i] = strings.ToLower(e.Description + " " + strings.Join(e.Keywords, " "))
	}
	return docs
}

// SearchByKeyword returns up to max entries whose description or any keyword
// contains term (case-insensitive substring), in declaration order.
// An empty result is a slice of length zero, never an error.
func (c *Catalog) SearchByKeyword(term string, max int) []Entry {
	term = strings.ToLower(term)
	matches := []Entry{}
	for _, e := range c.entries {
		if max >= 0 && len(matches) >= max {
			break
		}
		if entryMatches(e, term) {
			matches = append(matches, e)
		}
	}
	return matches
}

func entryMatches(e Entry, term string) bool {
	if strings.Contains(strings.ToLower(e.Description), term) {
		return true
	}
	for _, kw := range e.Keywords {
		if strings.Contains(strings.ToLower(kw), term) {
			return true
		}
	}
	return false
}
