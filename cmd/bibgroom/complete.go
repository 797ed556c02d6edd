package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/complete"
	"github.com/kmatt/bibgroom/internal/storage"
	"github.com/kmatt/bibgroom/internal/template"
	"github.com/spf13/cobra"
)

var (
	completeOutput    string
	completeLogDir    string
	completeTemplates string
)

func init() {
	completeCmd.Flags().StringVar(&completeOutput, "output", "", "Path for the completed bib file (omit for dry-run)")
	completeCmd.Flags().StringVar(&completeLogDir, "log-dir", "", "Directory for conflict and missing-template logs")
	completeCmd.Flags().StringVar(&completeTemplates, "templates", "", "Path to the templates file")
	rootCmd.AddCommand(completeCmd)
}

var completeCmd = &cobra.Command{
	Use:   "complete <file.bib>",
	Short: "Fill in missing fields from venue templates",
	Long: `Fill in missing metadata fields from the curated template set.

Each entry is matched to a template by normalized (venue, year) and entry
type. Missing fields are added from the template; fields whose existing
value differs from the template are kept as-is and reported as conflicts.
Entries with no matching template are reported, never dropped.

Without --output the pass is a dry-run: logs are written but the bib file
is untouched. With --output, new fields are inserted surgically so that
comments and the formatting of untouched lines are preserved.`,
	Args: cobra.ExactArgs(1),
	RunE: runComplete,
}

// CompleteResult is the response for the complete command.
type CompleteResult struct {
	Entries     int                        `json:"entries"`
	Patched     int                        `json:"patched"`
	FieldsAdded int                        `json:"fields_added"`
	Conflicts   []complete.Conflict        `json:"conflicts"`
	Missing     []complete.MissingTemplate `json:"missing_templates"`
	ConflictLog string                     `json:"conflict_log"`
	MissingLog  string                     `json:"missing_log"`
	Output      string                     `json:"output,omitempty"`
	DryRun      bool                       `json:"dry_run"`
}

func runComplete(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	templatesPath := completeTemplates
	if templatesPath == "" {
		templatesPath = cfg.TemplatesFile()
	}
	templates, err := template.LoadFile(templatesPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading templates: %v", err)
	}
	store, err := template.NewStore(templates)
	if err != nil {
		exitWithError(ExitConfigError, "loading templates: %v", err)
	}

	bibPath := args[0]
	src, err := os.ReadFile(bibPath)
	if err != nil {
		exitWithError(ExitError, "reading %s: %v", bibPath, err)
	}
	entries, err := bibtex.Parse(bytes.NewReader(src))
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", bibPath, err)
	}

	report := complete.Run(entries, store)
	patches := report.Patches(entries)

	logDir := completeLogDir
	if logDir == "" {
		logDir = cfg.LogDir
	}
	if logDir == "" {
		logDir = "."
	}
	conflictLog := complete.ConflictLogPath(logDir, bibPath)
	missingLog := complete.MissingLogPath(logDir, bibPath)
	if err := complete.WriteConflictLog(conflictLog, report.Conflicts); err != nil {
		exitWithError(ExitError, "writing conflict log: %v", err)
	}
	if err := complete.WriteMissingLog(missingLog, report.Missing); err != nil {
		exitWithError(ExitError, "writing missing-template log: %v", err)
	}

	dryRun := completeOutput == ""
	if !dryRun {
		patched := bibtex.Patch(src, patches)
		if err := os.WriteFile(completeOutput, patched, 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", completeOutput, err)
		}
	}

	recordHistory(cfg.HistoryPath(), storage.Run{
		BibFile:      bibPath,
		RunAt:        time.Now(),
		EntryCount:   len(report.Entries),
		PatchedCount: len(patches),
		DryRun:       dryRun,
	}, report)

	result := CompleteResult{
		Entries:     len(report.Entries),
		Patched:     len(patches),
		FieldsAdded: report.FieldsAdded(entries),
		Conflicts:   report.Conflicts,
		Missing:     report.Missing,
		ConflictLog: conflictLog,
		MissingLog:  missingLog,
		Output:      completeOutput,
		DryRun:      dryRun,
	}
	if result.Conflicts == nil {
		result.Conflicts = []complete.Conflict{}
	}
	if result.Missing == nil {
		result.Missing = []complete.MissingTemplate{}
	}

	if humanOutput {
		printCompleteHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

// recordHistory stores the run in the history database. Best-effort: a
// history failure must never fail a completion run.
func recordHistory(dbPath string, run storage.Run, report complete.Report) {
	db, err := storage.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: opening history database: %v\n", err)
		return
	}
	defer db.Close()

	if _, err := db.RecordRun(run, report.Conflicts, report.Missing); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording run history: %v\n", err)
	}
}

func printCompleteHuman(r CompleteResult) {
	mode := "completed"
	if r.DryRun {
		mode = "dry-run"
	}
	fmt.Printf("Completion %s: %d entries, %d patched, %d fields added\n\n",
		mode, r.Entries, r.Patched, r.FieldsAdded)

	if len(r.Conflicts) > 0 {
		fmt.Printf("Conflicts (existing value kept):\n")
		for _, c := range r.Conflicts {
			fmt.Printf("  %s: field %q existing=%q template=%q\n", c.CitationKey, c.Field, c.Existing, c.Template)
		}
		fmt.Println()
	}
	if len(r.Missing) > 0 {
		fmt.Printf("Entries with no matching template:\n")
		for _, m := range r.Missing {
			fmt.Printf("  %s: venue=%q year=%q type=%s\n", m.CitationKey, m.Venue, m.Year, m.EntryType)
		}
		fmt.Println()
	}

	fmt.Printf("Logs: %s, %s\n", r.ConflictLog, r.MissingLog)
	if !r.DryRun {
		fmt.Printf("Saved to %s\n", r.Output)
	}
}
