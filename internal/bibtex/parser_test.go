package bibtex

import (
	"errors"
	"strings"
	"testing"
)

const sampleBib = `% curated references
@comment{internal notes, not an entry}

@inproceedings{smith2020foo,
  Title     = {Foo: A {BERT}-based Approach},
  author    = {Smith, Jane and Doe, John},
  booktitle = {Advances in Neural Information Processing Systems},
  year      = {2020},
  pages     = "1--10",
  volume    = 33,
}

@article{doe2021bar,
  title   = {Bar},
  journal = {Journal of Important Results},
  year    = {2021}
}
`

func TestParse(t *testing.T) {
	entries, err := Parse(strings.NewReader(sampleBib))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}

	e := entries[0]
	if e.Type != "inproceedings" {
		t.Errorf("expected type inproceedings, got %s", e.Type)
	}
	if e.Key != "smith2020foo" {
		t.Errorf("expected key smith2020foo, got %s", e.Key)
	}
	if e.Line != 4 {
		t.Errorf("expected header line 4, got %d", e.Line)
	}

	// Field names are lowercased, order preserved
	wantOrder := []string{"title", "author", "booktitle", "year", "pages", "volume"}
	if len(e.Fields) != len(wantOrder) {
		t.Fatalf("expected %d fields, got %d", len(wantOrder), len(e.Fields))
	}
	for i, name := range wantOrder {
		if e.Fields[i].Name != name {
			t.Errorf("field %d: expected %s, got %s", i, name, e.Fields[i].Name)
		}
	}

	// Inner braces preserved, outer stripped
	if title, _ := e.Get("title"); title != "Foo: A {BERT}-based Approach" {
		t.Errorf("unexpected title: %q", title)
	}
	// Quoted and bare values
	if pages, _ := e.Get("pages"); pages != "1--10" {
		t.Errorf("unexpected pages: %q", pages)
	}
	if volume, _ := e.Get("volume"); volume != "33" {
		t.Errorf("unexpected volume: %q", volume)
	}

	if entries[1].Key != "doe2021bar" {
		t.Errorf("expected second key doe2021bar, got %s", entries[1].Key)
	}
}

func TestParse_Empty(t *testing.T) {
	entries, err := Parse(strings.NewReader("just prose, no entries\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected 0 entries, got %d", len(entries))
	}
}

func TestParse_UnbalancedBraces(t *testing.T) {
	_, err := Parse(strings.NewReader("@article{broken,\n  title = {never closed\n"))
	if err == nil {
		t.Fatal("expected error for unbalanced braces")
	}

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
	if parseErr.Line != 2 {
		t.Errorf("expected error on line 2, got %d", parseErr.Line)
	}
}

func TestParse_MissingKey(t *testing.T) {
	_, err := Parse(strings.NewReader("@article{,\n  title = {x},\n}\n"))
	if err == nil {
		t.Fatal("expected error for missing citation key")
	}
}

func TestEntry_Venue(t *testing.T) {
	proceedings := Entry{Fields: []Field{{Name: "booktitle", Value: "NeurIPS"}}}
	if proceedings.Venue() != "NeurIPS" {
		t.Errorf("expected booktitle venue, got %q", proceedings.Venue())
	}

	journal := Entry{Fields: []Field{{Name: "journal", Value: "Nature"}}}
	if journal.Venue() != "Nature" {
		t.Errorf("expected journal venue, got %q", journal.Venue())
	}

	neither := Entry{}
	if neither.Venue() != "" {
		t.Errorf("expected empty venue, got %q", neither.Venue())
	}
}

func TestEntry_Clone(t *testing.T) {
	e := Entry{Key: "a", Fields: []Field{{Name: "title", Value: "x"}}}
	c := e.Clone()
	c.Fields = append(c.Fields, Field{Name: "month", Value: "May"})

	if len(e.Fields) != 1 {
		t.Errorf("clone mutation leaked into original: %d fields", len(e.Fields))
	}
}
