// Package titlecase validates and renders Title Case for entry titles.
package titlecase

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// smallWords are not capitalized unless they open or close the title.
var smallWords = map[string]bool{
	"a": true, "an": true, "and": true, "as": true, "at": true,
	"but": true, "by": true, "for": true, "from": true, "in": true,
	"into": true, "nor": true, "of": true, "on": true, "or": true,
	"per": true, "the": true, "to": true, "via": true, "vs": true,
	"with": true,
}

// caser uppercases the leading letter of a word without lowering the rest,
// so acronyms and mixed-case terms survive rendering.
var caser = cases.Title(language.English, cases.NoLower)

// Render returns the Title Case form of a title. Brace-protected words are
// left untouched, small words are lowercased except at the edges, and
// everything else has its leading letter capitalized.
func Render(title string) string {
	words := strings.Fields(title)
	for i, w := range words {
		if strings.ContainsAny(w, "{}") {
			continue // protected span, author knows best
		}
		bare := strings.ToLower(strings.Trim(w, ".,:;!?"))
		if i != 0 && i != len(words)-1 && smallWords[bare] {
			words[i] = strings.ToLower(w)
			continue
		}
		words[i] = caser.String(w)
	}
	return strings.Join(words, " ")
}

// IsTitleCased reports whether a title is already in Title Case, i.e.
// rendering it is a no-op. Interior whitespace differences do not count.
func IsTitleCased(title string) bool {
	return Render(title) == strings.Join(strings.Fields(title), " ")
}
