// Package template holds the curated default-field templates used to
// complete bibliography entries, keyed by normalized (venue, year) and
// scoped by entry type.
package template

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrDuplicateTemplate is returned by NewStore when two templates share the
// same (venue, year, entry type). The store refuses to load an ambiguous
// configuration; lookups never have to tie-break.
var ErrDuplicateTemplate = errors.New("duplicate template")

// Template is a curated default field set for one (venue, year, type).
// Venue and Year keep their raw display form; matching uses normalized keys.
type Template struct {
	Venue  string            `yaml:"venue" json:"venue"`
	Year   string            `yaml:"year" json:"year"`
	Type   string            `yaml:"type" json:"type"`
	Fields map[string]string `yaml:"fields" json:"fields"`
}

// Key is a normalized (venue, year) lookup key.
type Key struct {
	Venue string `json:"venue"`
	Year  string `json:"year"`
}

// Key returns the template's normalized lookup key.
func (t Template) Key() Key {
	return Key{Venue: NormalizeVenue(t.Venue), Year: NormalizeYear(t.Year)}
}

type storeKey struct {
	entryType string
	key       Key
}

// Store answers template lookups. It is immutable after NewStore and safe
// for concurrent readers.
type Store struct {
	templates map[storeKey]*Template
}

// NewStore builds a store from template definitions. It fails if two
// templates normalize to the same (venue, year, entry type), regardless of
// their order in the input.
func NewStore(templates []Template) (*Store, error) {
	s := &Store{templates: make(map[storeKey]*Template, len(templates))}
	for i := range templates {
		t := templates[i]
		sk := storeKey{entryType: strings.ToLower(t.Type), key: t.Key()}
		if prev, exists := s.templates[sk]; exists {
			return nil, fmt.Errorf("%w: %q (%s, %s) collides with %q (%s, %s)",
				ErrDuplicateTemplate, t.Venue, t.Year, t.Type, prev.Venue, prev.Year, prev.Type)
		}
		s.templates[sk] = &t
	}
	return s, nil
}

// Lookup returns the unique template for an entry type and key, or false.
// There is no fuzzy fallback: a near-miss key is a miss.
func (s *Store) Lookup(entryType string, key Key) (*Template, bool) {
	t, ok := s.templates[storeKey{entryType: strings.ToLower(entryType), key: key}]
	return t, ok
}

// Len returns the number of loaded templates.
func (s *Store) Len() int {
	return len(s.templates)
}

// abbreviations expands common venue abbreviations token-wise so that
// "Proc. of the Intl. Conf." and "Proceedings of the International
// Conference" derive the same key.
var abbreviations = map[string]string{
	"proc.":  "proceedings",
	"intl.":  "international",
	"int.":   "international",
	"conf.":  "conference",
	"trans.": "transactions",
	"j.":     "journal",
	"symp.":  "symposium",
}

var spaceRe = regexp.MustCompile(`\s+`)

// NormalizeVenue canonicalizes a venue string for key derivation: braces
// stripped, whitespace collapsed, case folded, known abbreviations expanded.
func NormalizeVenue(venue string) string {
	v := stripBraces(venue)
	v = strings.ToLower(strings.TrimSpace(v))
	v = spaceRe.ReplaceAllString(v, " ")
	if v == "" {
		return ""
	}

	tokens := strings.Split(v, " ")
	for i, tok := range tokens {
		if expanded, ok := abbreviations[tok]; ok {
			tokens[i] = expanded
		}
	}
	return strings.Join(tokens, " ")
}

// NormalizeYear canonicalizes a year string: braces stripped, trimmed, and
// TeX-style ranges (2020--2021) collapsed to a single dash. Validation of
// the result is the matcher's concern, not the store's.
func NormalizeYear(year string) string {
	y := stripBraces(year)
	y = strings.TrimSpace(y)
	y = strings.ReplaceAll(y, "--", "-")
	return y
}

func stripBraces(s string) string {
	s = strings.ReplaceAll(s, "{", "")
	return strings.ReplaceAll(s, "}", "")
}
