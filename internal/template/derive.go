package template

import (
	"sort"
	"strings"

	"github.com/kmatt/bibgroom/internal/bibtex"
)

// derivationExcluded lists fields that are entry-specific and never belong
// in a venue template.
var derivationExcluded = map[string]bool{
	"year":      true,
	"booktitle": true,
	"journal":   true,
	"title":     true,
	"author":    true,
	"pages":     true,
	"volume":    true,
	"url":       true,
	"doi":       true,
	"pdf":       true,
	"numpages":  true,
	"articleno": true,
	"number":    true,
	"note":      true,
}

// TemplateUpdate describes a merge of entry fields into an existing template.
type TemplateUpdate struct {
	Template Template `json:"template"`
	Added    []string `json:"added,omitempty"`    // fields the template was missing
	Replaced []string `json:"replaced,omitempty"` // fields where the entry value won
}

// DeriveResult is the outcome of deriving templates from a bibliography.
type DeriveResult struct {
	New             []Template       `json:"new"`
	Updated         []TemplateUpdate `json:"updated"`
	SkippedMissing  []string         `json:"skipped_missing"` // citation keys lacking venue or year
	SkippedExisting int              `json:"skipped_existing"`
	Merged          []Template       `json:"-"` // full resulting set, for --update
}

// Derive builds template definitions from bibliography entries and merges
// them into an existing set. Entries without venue or year are skipped.
// For keys already in the set, entry values win over template values and
// missing fields are added; unchanged templates are counted but untouched.
// Matching is scoped by entry type, like store lookups.
func Derive(entries []bibtex.Entry, existing []Template) DeriveResult {
	result := DeriveResult{Merged: append([]Template(nil), existing...)}

	index := make(map[storeKey]int, len(existing))
	for i, t := range result.Merged {
		index[storeKey{entryType: strings.ToLower(t.Type), key: t.Key()}] = i
	}

	for _, e := range entries {
		venue := e.Venue()
		year, _ := e.Get("year")
		if venue == "" || year == "" {
			result.SkippedMissing = append(result.SkippedMissing, e.Key)
			continue
		}

		meta := make(map[string]string)
		for _, f := range e.Fields {
			if !derivationExcluded[f.Name] {
				meta[f.Name] = f.Value
			}
		}

		sk := storeKey{
			entryType: e.Type,
			key:       Key{Venue: NormalizeVenue(venue), Year: NormalizeYear(year)},
		}

		idx, found := index[sk]
		if !found {
			t := Template{Venue: venue, Year: year, Type: e.Type, Fields: meta}
			result.New = append(result.New, t)
			result.Merged = append(result.Merged, t)
			index[sk] = len(result.Merged) - 1
			continue
		}

		t := result.Merged[idx]
		merged := make(map[string]string, len(t.Fields))
		for k, v := range t.Fields {
			merged[k] = v
		}

		var added, replaced []string
		for name, value := range meta {
			prev, ok := merged[name]
			if !ok {
				merged[name] = value
				added = append(added, name)
				continue
			}
			if strings.TrimSpace(prev) != strings.TrimSpace(value) {
				merged[name] = value // the entry's value is fresher
				replaced = append(replaced, name)
			}
		}

		if len(added) == 0 && len(replaced) == 0 {
			result.SkippedExisting++
			continue
		}

		sort.Strings(added)
		sort.Strings(replaced)
		t.Fields = merged
		result.Merged[idx] = t
		result.Updated = append(result.Updated, TemplateUpdate{Template: t, Added: added, Replaced: replaced})
	}

	return result
}
