// Package storage persists completion run history in SQLite.
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kmatt/bibgroom/internal/complete"
	_ "modernc.org/sqlite"
)

// DB wraps the run history database connection.
type DB struct {
	db *sql.DB
}

// Run is one recorded completion run.
type Run struct {
	ID            int64     `json:"id"`
	BibFile       string    `json:"bib_file"`
	RunAt         time.Time `json:"run_at"`
	EntryCount    int       `json:"entries"`
	PatchedCount  int       `json:"patched"`
	ConflictCount int       `json:"conflicts"`
	MissingCount  int       `json:"missing"`
	DryRun        bool      `json:"dry_run"`
}

// Open opens or creates the history database at the given path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			bib_file TEXT NOT NULL,
			run_at TEXT NOT NULL,
			entry_count INTEGER NOT NULL,
			patched_count INTEGER NOT NULL,
			conflict_count INTEGER NOT NULL,
			missing_count INTEGER NOT NULL,
			dry_run INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS conflicts (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			citation_key TEXT NOT NULL,
			field TEXT NOT NULL,
			existing_value TEXT NOT NULL,
			template_value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS missing_templates (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			citation_key TEXT NOT NULL,
			venue TEXT NOT NULL,
			year TEXT NOT NULL,
			entry_type TEXT NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// RecordRun stores a run with its conflict and missing-template details and
// returns the new run ID.
func (d *DB) RecordRun(run Run, conflicts []complete.Conflict, missing []complete.MissingTemplate) (int64, error) {
	tx, err := d.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	dryRun := 0
	if run.DryRun {
		dryRun = 1
	}

	res, err := tx.Exec(`
		INSERT INTO runs (bib_file, run_at, entry_count, patched_count, conflict_count, missing_count, dry_run)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.BibFile, run.RunAt.UTC().Format(time.RFC3339), run.EntryCount,
		run.PatchedCount, len(conflicts), len(missing), dryRun)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}

	runID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}

	for _, c := range conflicts {
		if _, err := tx.Exec(`
			INSERT INTO conflicts (run_id, citation_key, field, existing_value, template_value)
			VALUES (?, ?, ?, ?, ?)`,
			runID, c.CitationKey, c.Field, c.Existing, c.Template); err != nil {
			return 0, fmt.Errorf("inserting conflict for %s: %w", c.CitationKey, err)
		}
	}

	for _, m := range missing {
		if _, err := tx.Exec(`
			INSERT INTO missing_templates (run_id, citation_key, venue, year, entry_type)
			VALUES (?, ?, ?, ?, ?)`,
			runID, m.CitationKey, m.Venue, m.Year, m.EntryType); err != nil {
			return 0, fmt.Errorf("inserting missing record for %s: %w", m.CitationKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}

	return runID, nil
}

// ListRuns returns the most recent runs, newest first.
func (d *DB) ListRuns(limit int) ([]Run, error) {
	rows, err := d.db.Query(`
		SELECT id, bib_file, run_at, entry_count, patched_count, conflict_count, missing_count, dry_run
		FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var runAt string
		var dryRun int
		if err := rows.Scan(&r.ID, &r.BibFile, &runAt, &r.EntryCount,
			&r.PatchedCount, &r.ConflictCount, &r.MissingCount, &dryRun); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.RunAt, err = time.Parse(time.RFC3339, runAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", runAt, err)
		}
		r.DryRun = dryRun != 0
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// RunConflicts returns the conflict records stored for a run.
func (d *DB) RunConflicts(runID int64) ([]complete.Conflict, error) {
	rows, err := d.db.Query(`
		SELECT citation_key, field, existing_value, template_value
		FROM conflicts WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying conflicts: %w", err)
	}
	defer rows.Close()

	var conflicts []complete.Conflict
	for rows.Next() {
		var c complete.Conflict
		if err := rows.Scan(&c.CitationKey, &c.Field, &c.Existing, &c.Template); err != nil {
			return nil, fmt.Errorf("scanning conflict: %w", err)
		}
		conflicts = append(conflicts, c)
	}

	return conflicts, rows.Err()
}

// RunMissing returns the missing-template records stored for a run.
func (d *DB) RunMissing(runID int64) ([]complete.MissingTemplate, error) {
	rows, err := d.db.Query(`
		SELECT citation_key, venue, year, entry_type
		FROM missing_templates WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying missing templates: %w", err)
	}
	defer rows.Close()

	var missing []complete.MissingTemplate
	for rows.Next() {
		var m complete.MissingTemplate
		if err := rows.Scan(&m.CitationKey, &m.Venue, &m.Year, &m.EntryType); err != nil {
			return nil, fmt.Errorf("scanning missing record: %w", err)
		}
		missing = append(missing, m)
	}

	return missing, rows.Err()
}
