// Package checkers implements formatting convention checks over parsed
// bibliography entries: required months and Title Case titles.
package checkers

import (
	"strings"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/titlecase"
)

// MonthIssue flags an entry of a target type with no month field.
type MonthIssue struct {
	CitationKey string `json:"id"`
	EntryType   string `json:"type"`
	Year        string `json:"year"`
}

// TitleIssue flags a title that is not in Title Case, with a suggestion.
type TitleIssue struct {
	CitationKey string `json:"id"`
	Title       string `json:"title"`
	Suggested   string `json:"suggested"`
}

// MissingMonths reports entries of the target types whose month field is
// absent or empty. Year is carried for display; "N/A" when absent.
func MissingMonths(entries []bibtex.Entry, targetTypes []string) []MonthIssue {
	targets := make(map[string]bool, len(targetTypes))
	for _, t := range targetTypes {
		targets[strings.ToLower(t)] = true
	}

	var issues []MonthIssue
	for _, e := range entries {
		if !targets[e.Type] {
			continue
		}
		month, _ := e.Get("month")
		if strings.TrimSpace(month) != "" {
			continue
		}
		year, ok := e.Get("year")
		if !ok {
			year = "N/A"
		}
		issues = append(issues, MonthIssue{CitationKey: e.Key, EntryType: e.Type, Year: year})
	}
	return issues
}

// TitleCaseIssues reports titles that are not in Title Case. Titles that
// are mostly uppercase are skipped; they are deliberate, not sloppy.
func TitleCaseIssues(entries []bibtex.Entry) []TitleIssue {
	var issues []TitleIssue
	for _, e := range entries {
		title, ok := e.Get("title")
		if !ok || strings.TrimSpace(title) == "" {
			continue
		}
		if upperRatio(title) > 0.7 {
			continue
		}
		if titlecase.IsTitleCased(title) {
			continue
		}
		issues = append(issues, TitleIssue{
			CitationKey: e.Key,
			Title:       title,
			Suggested:   titlecase.Render(title),
		})
	}
	return issues
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
