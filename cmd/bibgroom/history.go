package main

import (
	"fmt"

	"github.com/kmatt/bibgroom/internal/storage"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", DefaultHistoryRuns, "Maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past completion runs",
	Long:  `List past completion runs recorded in the history database, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

// HistoryResult is the response for the history command.
type HistoryResult struct {
	Runs []storage.Run `json:"runs"`
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	db, err := storage.Open(cfg.HistoryPath())
	if err != nil {
		exitWithError(ExitError, "opening history database: %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		exitWithError(ExitError, "listing runs: %v", err)
	}
	if runs == nil {
		runs = []storage.Run{}
	}

	if humanOutput {
		printHistoryHuman(runs)
	} else {
		outputJSON(HistoryResult{Runs: runs})
	}
	return nil
}

func printHistoryHuman(runs []storage.Run) {
	if len(runs) == 0 {
		fmt.Println("No completion runs recorded.")
		return
	}

	fmt.Printf("%-4s | %-16s | %-40s | %7s | %7s | %9s | %7s\n",
		"ID", "Run at", "File", "Entries", "Patched", "Conflicts", "Missing")
	for _, r := range runs {
		runAt := r.RunAt.Format("2006-01-02 15:04")
		file := truncateString(r.BibFile, HistoryFileMaxLen)
		if r.DryRun {
			file += " (dry-run)"
		}
		fmt.Printf("%-4d | %-16s | %-40s | %7d | %7d | %9d | %7d\n",
			r.ID, runAt, file, r.EntryCount, r.PatchedCount, r.ConflictCount, r.MissingCount)
	}
}
