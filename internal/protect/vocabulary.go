// Package protect scans entry titles for terms that need brace protection
// so BibTeX styles cannot lowercase them.
package protect

import "regexp"

// Vocabulary decides whether a single word needs typographic protection.
type Vocabulary interface {
	IsProtectedTerm(word string) bool
	Reason() string
}

// ListVocabulary matches an exact, case-sensitive term list.
type ListVocabulary struct {
	terms map[string]bool
}

// NewListVocabulary builds a vocabulary from curated terms.
func NewListVocabulary(terms []string) *ListVocabulary {
	m := make(map[string]bool, len(terms))
	for _, t := range terms {
		m[t] = true
	}
	return &ListVocabulary{terms: m}
}

func (v *ListVocabulary) IsProtectedTerm(word string) bool { return v.terms[word] }
func (v *ListVocabulary) Reason() string                   { return "Known Term" }

// MixedCaseVocabulary matches words with an interior capital (ResNet, LoRA,
// iPhone) while letting plain Titlecase words through.
type MixedCaseVocabulary struct{}

var mixedCaseRe = regexp.MustCompile(`^(?:[a-z]+[A-Z][a-zA-Z]*|[A-Z][a-z]*[A-Z][a-zA-Z]*)$`)

func (MixedCaseVocabulary) IsProtectedTerm(word string) bool { return mixedCaseRe.MatchString(word) }
func (MixedCaseVocabulary) Reason() string                   { return "Mixed Case" }

// AcronymVocabulary matches all-caps words of two or more letters (BERT, LLM).
type AcronymVocabulary struct{}

var acronymRe = regexp.MustCompile(`^[A-Z]{2,}$`)

func (AcronymVocabulary) IsProtectedTerm(word string) bool { return acronymRe.MatchString(word) }
func (AcronymVocabulary) Reason() string                   { return "Acronym" }

// NumericVocabulary matches words mixing letters and digits (GPT-4, VGG16).
// Bare numbers are ordinary prose and don't need protection.
type NumericVocabulary struct{}

var numericRe = regexp.MustCompile(`^[A-Za-z0-9-]*[A-Za-z][A-Za-z0-9-]*$`)
var hasDigitRe = regexp.MustCompile(`\d`)

func (NumericVocabulary) IsProtectedTerm(word string) bool {
	return hasDigitRe.MatchString(word) && numericRe.MatchString(word)
}
func (NumericVocabulary) Reason() string { return "Contains Number" }

// DefaultVocabularies returns the standard detector chain. Order matters:
// the curated list outranks shape heuristics.
func DefaultVocabularies(terms []string) []Vocabulary {
	return []Vocabulary{
		NewListVocabulary(terms),
		MixedCaseVocabulary{},
		AcronymVocabulary{},
		NumericVocabulary{},
	}
}
