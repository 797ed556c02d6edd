package complete

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Log rendering: one line per record, tab-separated, with a header line and
// "(none)" when a log is empty. The record shapes live above; this file is
// only their textual sink.

// ConflictLogPath returns the conflict log path for a bib file under logDir.
func ConflictLogPath(logDir, bibPath string) string {
	return filepath.Join(logDir, filepath.Base(bibPath)+".conflicts.txt")
}

// MissingLogPath returns the missing-template log path for a bib file.
func MissingLogPath(logDir, bibPath string) string {
	return filepath.Join(logDir, filepath.Base(bibPath)+".missing_templates.txt")
}

// WriteConflictLog writes the conflict log for a run.
func WriteConflictLog(path string, conflicts []Conflict) error {
	rows := make([]string, len(conflicts))
	for i, c := range conflicts {
		rows[i] = fmt.Sprintf("%s\t%s\tEXISTING=%s\tTEMPLATE=%s", c.CitationKey, c.Field, c.Existing, c.Template)
	}
	return writeLog(path, "conflicts: entry_id\tfield\texisting\ttemplate", rows)
}

// WriteMissingLog writes the missing-templates log for a run.
func WriteMissingLog(path string, missing []MissingTemplate) error {
	rows := make([]string, len(missing))
	for i, m := range missing {
		rows[i] = fmt.Sprintf("%s\t%s\t%s\t%s", m.CitationKey, m.Venue, m.Year, m.EntryType)
	}
	return writeLog(path, "missing templates: entry_id\tvenue\tyear\ttype", rows)
}

func writeLog(path, header string, rows []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating log directory: %w", err)
	}

	lines := append([]string{header}, rows...)
	if len(rows) == 0 {
		lines = append(lines, "(none)")
	}

	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing log %s: %w", path, err)
	}
	return nil
}
