package complete

import (
	"sort"
	"strings"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/template"
)

// Conflict records a field present in both an entry and its template with
// differing values. The entry's value stays authoritative.
type Conflict struct {
	CitationKey string `json:"id"`
	Field       string `json:"field"`
	Existing    string `json:"existing"`
	Template    string `json:"template"`
}

// Merge reconciles an entry with a matched template. Template fields the
// entry lacks are appended (in sorted field-name order, for deterministic
// output); equal values are left alone; differing values keep the entry's
// value and yield a Conflict. A nil template returns the entry unchanged.
//
// Merge is total and idempotent: it never fails, and a second merge of its
// own output adds nothing and conflicts identically.
func Merge(e bibtex.Entry, tpl *template.Template) (bibtex.Entry, []Conflict) {
	if tpl == nil {
		return e, nil
	}

	names := make([]string, 0, len(tpl.Fields))
	for name := range tpl.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	out := e.Clone()
	var conflicts []Conflict

	for _, name := range names {
		tplValue := tpl.Fields[name]
		existing, ok := out.Get(name)
		if !ok {
			out.Fields = append(out.Fields, bibtex.Field{Name: name, Value: tplValue})
			continue
		}
		if strings.TrimSpace(existing) == strings.TrimSpace(tplValue) {
			continue
		}
		conflicts = append(conflicts, Conflict{
			CitationKey: e.Key,
			Field:       name,
			Existing:    existing,
			Template:    tplValue,
		})
	}

	return out, conflicts
}
