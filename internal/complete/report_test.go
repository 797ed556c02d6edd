package complete

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteConflictLog(t *testing.T) {
	dir := t.TempDir()
	path := ConflictLogPath(dir, "/data/refs.bib")

	if path != filepath.Join(dir, "refs.bib.conflicts.txt") {
		t.Fatalf("unexpected log path: %s", path)
	}

	conflicts := []Conflict{
		{CitationKey: "smith2020", Field: "month", Existing: "Dec", Template: "December"},
		{CitationKey: "doe2021", Field: "address", Existing: "NY", Template: "New York, NY"},
	}
	if err := WriteConflictLog(path, conflicts); err != nil {
		t.Fatalf("WriteConflictLog failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "conflicts: entry_id\tfield\texisting\ttemplate\n" +
		"smith2020\tmonth\tEXISTING=Dec\tTEMPLATE=December\n" +
		"doe2021\taddress\tEXISTING=NY\tTEMPLATE=New York, NY\n"
	if string(got) != want {
		t.Errorf("log mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteMissingLog_Empty(t *testing.T) {
	path := MissingLogPath(t.TempDir(), "refs.bib")

	if err := WriteMissingLog(path, nil); err != nil {
		t.Fatalf("WriteMissingLog failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "missing templates: entry_id\tvenue\tyear\ttype\n(none)\n"
	if string(got) != want {
		t.Errorf("log mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteMissingLog_Rows(t *testing.T) {
	path := MissingLogPath(t.TempDir(), "refs.bib")

	missing := []MissingTemplate{
		{CitationKey: "noyear", Venue: "Nature", Year: "(none)", EntryType: "article"},
	}
	if err := WriteMissingLog(path, missing); err != nil {
		t.Fatalf("WriteMissingLog failed: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "missing templates: entry_id\tvenue\tyear\ttype\n" +
		"noyear\tNature\t(none)\tarticle\n"
	if string(got) != want {
		t.Errorf("log mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteLog_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")
	path := ConflictLogPath(dir, "refs.bib")

	if err := WriteConflictLog(path, nil); err != nil {
		t.Fatalf("WriteConflictLog failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("log file not created: %v", err)
	}
}
