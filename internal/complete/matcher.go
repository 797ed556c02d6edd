// Package complete implements the completion pass: matching entries to
// templates, merging in missing fields, and reporting conflicts and
// unmatched entries.
package complete

import (
	"regexp"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/template"
)

// yearRe accepts a 4-digit year or a 4-digit range after normalization.
var yearRe = regexp.MustCompile(`^\d{4}(-\d{4})?$`)

// MatchResult holds the template matched for one entry, if any. The
// template is borrowed from the store, never owned.
type MatchResult struct {
	Template *template.Template
}

// DeriveKey extracts the normalized (venue, year) lookup key for an entry.
// It returns false when the venue is absent or the year is not a 4-digit
// value or range; that is a soft failure, the entry just goes unmatched.
func DeriveKey(e bibtex.Entry) (template.Key, bool) {
	venue := template.NormalizeVenue(e.Venue())
	year, _ := e.Get("year")
	year = template.NormalizeYear(year)

	if venue == "" || !yearRe.MatchString(year) {
		return template.Key{}, false
	}
	return template.Key{Venue: venue, Year: year}, true
}

// Match derives the entry's key and looks it up in the store, scoped by the
// entry's type. An exact miss is a miss: ambiguity is resolved at store
// load time, not here.
func Match(e bibtex.Entry, store *template.Store) MatchResult {
	key, ok := DeriveKey(e)
	if !ok {
		return MatchResult{}
	}
	tpl, found := store.Lookup(e.Type, key)
	if !found {
		return MatchResult{}
	}
	return MatchResult{Template: tpl}
}
