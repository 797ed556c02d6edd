package complete

import (
	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/template"
)

// missingPlaceholder stands in for an absent venue or year in missing
// template records, so the log line still identifies the gap.
const missingPlaceholder = "(none)"

// MissingTemplate records an entry for which no template could be matched.
// Venue and Year carry the entry's raw field values verbatim for diagnosis.
type MissingTemplate struct {
	CitationKey string `json:"id"`
	Venue       string `json:"venue"`
	Year        string `json:"year"`
	EntryType   string `json:"type"`
}

// Report is the accumulated outcome of one completion pass.
type Report struct {
	// Entries holds the completed entries, same length and order as input.
	Entries []bibtex.Entry
	// Conflicts and Missing are ordered by input entry position.
	Conflicts []Conflict
	Missing   []MissingTemplate
}

// Run performs one completion pass over entries in input order. Every entry
// flows through: unmatched entries pass unchanged and gain a missing record,
// matched entries are merged. N entries in, N entries out, always.
func Run(entries []bibtex.Entry, store *template.Store) Report {
	report := Report{Entries: make([]bibtex.Entry, 0, len(entries))}

	for _, e := range entries {
		match := Match(e, store)
		if match.Template == nil {
			report.Missing = append(report.Missing, missingRecord(e))
			report.Entries = append(report.Entries, e)
			continue
		}

		merged, conflicts := Merge(e, match.Template)
		report.Entries = append(report.Entries, merged)
		report.Conflicts = append(report.Conflicts, conflicts...)
	}

	return report
}

// Patches returns the fields each entry gained relative to its input form,
// keyed by citation key. Merge only appends, so the added fields are the
// tail beyond the original field count.
func (r Report) Patches(input []bibtex.Entry) map[string][]bibtex.Field {
	patches := make(map[string][]bibtex.Field)
	for i, completed := range r.Entries {
		if i >= len(input) {
			break
		}
		if added := completed.Fields[len(input[i].Fields):]; len(added) > 0 {
			patches[completed.Key] = added
		}
	}
	return patches
}

// FieldsAdded counts the fields gained across all entries.
func (r Report) FieldsAdded(input []bibtex.Entry) int {
	total := 0
	for _, added := range r.Patches(input) {
		total += len(added)
	}
	return total
}

func missingRecord(e bibtex.Entry) MissingTemplate {
	venue := e.Venue()
	if venue == "" {
		venue = missingPlaceholder
	}
	year, _ := e.Get("year")
	if year == "" {
		year = missingPlaceholder
	}
	return MissingTemplate{
		CitationKey: e.Key,
		Venue:       venue,
		Year:        year,
		EntryType:   e.Type,
	}
}
