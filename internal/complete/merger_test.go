package complete

import (
	"reflect"
	"testing"

	"github.com/kmatt/bibgroom/internal/template"
)

var neuripsTemplate = &template.Template{
	Venue: "NeurIPS", Year: "2020", Type: "inproceedings",
	Fields: map[string]string{
		"address": "Vancouver, Canada",
		"month":   "December",
	},
}

func TestMerge_AddsMissingFields(t *testing.T) {
	e := entry("smith2020", "inproceedings",
		field("booktitle", "NeurIPS"),
		field("year", "2020"),
		field("title", "Foo"),
	)

	merged, conflicts := Merge(e, neuripsTemplate)

	if len(conflicts) != 0 {
		t.Fatalf("expected no conflicts, got %v", conflicts)
	}
	if len(merged.Fields) != 5 {
		t.Fatalf("expected 5 fields, got %d", len(merged.Fields))
	}

	// Original fields keep their order; additions follow in sorted name order
	wantOrder := []string{"booktitle", "year", "title", "address", "month"}
	for i, name := range wantOrder {
		if merged.Fields[i].Name != name {
			t.Errorf("field %d: expected %s, got %s", i, name, merged.Fields[i].Name)
		}
	}
	if v, _ := merged.Get("address"); v != "Vancouver, Canada" {
		t.Errorf("unexpected address: %q", v)
	}
	if v, _ := merged.Get("month"); v != "December" {
		t.Errorf("unexpected month: %q", v)
	}
}

func TestMerge_ConflictKeepsEntryValue(t *testing.T) {
	e := entry("smith2020", "inproceedings",
		field("booktitle", "NeurIPS"),
		field("year", "2020"),
		field("month", "Dec"),
	)

	merged, conflicts := Merge(e, neuripsTemplate)

	if v, _ := merged.Get("month"); v != "Dec" {
		t.Errorf("entry value was overwritten: %q", v)
	}

	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(conflicts))
	}
	want := Conflict{CitationKey: "smith2020", Field: "month", Existing: "Dec", Template: "December"}
	if conflicts[0] != want {
		t.Errorf("conflict = %+v, want %+v", conflicts[0], want)
	}

	// The missing field is still added
	if v, _ := merged.Get("address"); v != "Vancouver, Canada" {
		t.Errorf("missing field not added despite conflict: %q", v)
	}
}

func TestMerge_EqualValuesNoConflict(t *testing.T) {
	e := entry("smith2020", "inproceedings",
		field("month", " December "), // equal after trimming
		field("address", "Vancouver, Canada"),
	)

	merged, conflicts := Merge(e, neuripsTemplate)

	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
	if v, _ := merged.Get("month"); v != " December " {
		t.Errorf("entry value was rewritten: %q", v)
	}
}

func TestMerge_ComparisonIsCaseSensitive(t *testing.T) {
	e := entry("smith2020", "inproceedings", field("month", "december"))

	_, conflicts := Merge(e, neuripsTemplate)

	if len(conflicts) != 1 {
		t.Fatalf("expected case difference to conflict, got %d conflicts", len(conflicts))
	}
}

func TestMerge_NilTemplate(t *testing.T) {
	e := entry("smith2020", "inproceedings", field("title", "Foo"))

	merged, conflicts := Merge(e, nil)

	if !reflect.DeepEqual(merged, e) {
		t.Errorf("entry changed without a template: %+v", merged)
	}
	if conflicts != nil {
		t.Errorf("expected nil conflicts, got %v", conflicts)
	}
}

func TestMerge_Idempotent(t *testing.T) {
	e := entry("smith2020", "inproceedings",
		field("booktitle", "NeurIPS"),
		field("year", "2020"),
		field("month", "Dec"),
	)

	first, firstConflicts := Merge(e, neuripsTemplate)
	second, secondConflicts := Merge(first, neuripsTemplate)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("second merge changed the entry:\nfirst:  %+v\nsecond: %+v", first, second)
	}
	// Conflicts repeat identically; nothing new is added
	if !reflect.DeepEqual(firstConflicts, secondConflicts) {
		t.Errorf("conflicts differ between passes: %v vs %v", firstConflicts, secondConflicts)
	}
}

func TestMerge_DoesNotMutateInput(t *testing.T) {
	e := entry("smith2020", "inproceedings", field("booktitle", "NeurIPS"), field("year", "2020"))
	before := len(e.Fields)

	Merge(e, neuripsTemplate)

	if len(e.Fields) != before {
		t.Errorf("input entry was mutated: %d fields", len(e.Fields))
	}
}
