package protect

import (
	"regexp"
	"strings"

	"github.com/kmatt/bibgroom/internal/bibtex"
)

// Finding is one unprotected term spotted in a title.
type Finding struct {
	CitationKey string `json:"id"`
	Term        string `json:"term"`
	Reason      string `json:"reason"`
}

var (
	protectedSpanRe = regexp.MustCompile(`\{[^{}]*\}`)
	wordRe          = regexp.MustCompile(`[A-Za-z0-9][A-Za-z0-9-]*`)
)

// Scan checks every entry's title against the vocabularies and returns
// findings in entry order. Brace-protected spans are masked out first, and
// titles that are mostly uppercase are skipped entirely. Overlapping
// findings within a title collapse to the longest term, so S-LoRA is
// reported once rather than alongside LoRA.
func Scan(entries []bibtex.Entry, vocabs []Vocabulary) []Finding {
	var findings []Finding

	for _, e := range entries {
		title, ok := e.Get("title")
		if !ok || title == "" {
			continue
		}

		clean := maskProtected(title)
		if upperRatio(clean) > 0.7 {
			continue
		}

		found := scanTitle(clean, vocabs)
		for _, f := range found {
			findings = append(findings, Finding{CitationKey: e.Key, Term: f.term, Reason: f.reason})
		}
	}

	return findings
}

type termMatch struct {
	term   string
	reason string
}

func scanTitle(title string, vocabs []Vocabulary) []termMatch {
	var matches []termMatch

	for _, word := range wordRe.FindAllString(title, -1) {
		reason, ok := classify(word, vocabs)
		if !ok && strings.Contains(word, "-") {
			// A hyphenated word is suspect if any of its parts is; report
			// the full word so the whole compound gets protected.
			for _, part := range strings.Split(word, "-") {
				if r, partOK := classify(part, vocabs); partOK {
					reason, ok = r, true
					break
				}
			}
		}
		if ok {
			matches = append(matches, termMatch{term: word, reason: reason})
		}
	}

	return dedupe(matches)
}

func classify(word string, vocabs []Vocabulary) (string, bool) {
	for _, v := range vocabs {
		if v.IsProtectedTerm(word) {
			return v.Reason(), true
		}
	}
	return "", false
}

// dedupe drops repeated terms and terms contained in a longer finding.
func dedupe(matches []termMatch) []termMatch {
	var out []termMatch
	for _, m := range matches {
		contained := false
		for i := 0; i < len(out); i++ {
			if m.term == out[i].term || (strings.Contains(out[i].term, m.term) && len(out[i].term) > len(m.term)) {
				contained = true
				break
			}
			if strings.Contains(m.term, out[i].term) && len(m.term) > len(out[i].term) {
				out = append(out[:i], out[i+1:]...)
				i--
			}
		}
		if !contained {
			out = append(out, m)
		}
	}
	return out
}

func upperRatio(s string) float64 {
	if len(s) == 0 {
		return 0
	}
	upper := 0
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			upper++
		}
	}
	return float64(upper) / float64(len(s))
}

// maskProtected replaces brace-protected spans with spaces so their content
// is never flagged but word positions stay put.
func maskProtected(title string) string {
	return protectedSpanRe.ReplaceAllStringFunc(title, func(span string) string {
		return strings.Repeat(" ", len(span))
	})
}
