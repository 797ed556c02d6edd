package storage

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/kmatt/bibgroom/internal/complete"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordRun_ListRuns(t *testing.T) {
	db := openTestDB(t)

	conflicts := []complete.Conflict{
		{CitationKey: "smith2020", Field: "month", Existing: "Dec", Template: "December"},
	}
	missing := []complete.MissingTemplate{
		{CitationKey: "noyear", Venue: "Nature", Year: "(none)", EntryType: "article"},
		{CitationKey: "unknown", Venue: "ICML", Year: "2020", EntryType: "inproceedings"},
	}

	runAt := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	id, err := db.RecordRun(Run{
		BibFile:      "refs.bib",
		RunAt:        runAt,
		EntryCount:   10,
		PatchedCount: 4,
		DryRun:       true,
	}, conflicts, missing)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}
	if id == 0 {
		t.Fatal("expected a non-zero run id")
	}

	runs, err := db.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	r := runs[0]
	if r.BibFile != "refs.bib" || r.EntryCount != 10 || r.PatchedCount != 4 {
		t.Errorf("unexpected run: %+v", r)
	}
	if r.ConflictCount != 1 || r.MissingCount != 2 {
		t.Errorf("unexpected counts: %+v", r)
	}
	if !r.DryRun {
		t.Error("expected dry-run flag set")
	}
	if !r.RunAt.Equal(runAt) {
		t.Errorf("unexpected run time: %v", r.RunAt)
	}
}

func TestRunDetails(t *testing.T) {
	db := openTestDB(t)

	conflicts := []complete.Conflict{
		{CitationKey: "a", Field: "month", Existing: "Dec", Template: "December"},
		{CitationKey: "b", Field: "address", Existing: "NY", Template: "New York, NY"},
	}
	missing := []complete.MissingTemplate{
		{CitationKey: "c", Venue: "ICML", Year: "2020", EntryType: "inproceedings"},
	}

	id, err := db.RecordRun(Run{BibFile: "refs.bib", RunAt: time.Now()}, conflicts, missing)
	if err != nil {
		t.Fatalf("RecordRun failed: %v", err)
	}

	gotConflicts, err := db.RunConflicts(id)
	if err != nil {
		t.Fatalf("RunConflicts failed: %v", err)
	}
	if !reflect.DeepEqual(gotConflicts, conflicts) {
		t.Errorf("conflicts = %+v, want %+v", gotConflicts, conflicts)
	}

	gotMissing, err := db.RunMissing(id)
	if err != nil {
		t.Fatalf("RunMissing failed: %v", err)
	}
	if !reflect.DeepEqual(gotMissing, missing) {
		t.Errorf("missing = %+v, want %+v", gotMissing, missing)
	}
}

func TestListRuns_NewestFirstAndLimited(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := db.RecordRun(Run{BibFile: "refs.bib", RunAt: time.Now(), EntryCount: i}, nil, nil)
		if err != nil {
			t.Fatalf("RecordRun %d failed: %v", i, err)
		}
	}

	runs, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].EntryCount != 2 || runs[1].EntryCount != 1 {
		t.Errorf("runs out of order: %+v", runs)
	}
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db", "history.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	db.Close()
}
