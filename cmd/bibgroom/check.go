package main

import (
	"fmt"
	"strings"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/checkers"
	"github.com/spf13/cobra"
)

var checkTypes string

func init() {
	checkCmd.Flags().StringVar(&checkTypes, "types", "", "Comma-separated entry types that require a month (default from config)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <file.bib>",
	Short: "Check formatting conventions",
	Long: `Check formatting conventions in a bib file.

Reports entries of the target types that have no month field, and titles
that are not in Title Case (with a suggested rendering). Findings are
advisory; the exit code stays zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status        string                `json:"status"`
	Entries       int                   `json:"entries"`
	MissingMonths []checkers.MonthIssue `json:"missing_months"`
	TitleCase     []checkers.TitleIssue `json:"title_case"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	entries, err := bibtex.ParseFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", args[0], err)
	}

	targetTypes := cfg.MonthRequiredTypes
	if checkTypes != "" {
		targetTypes = strings.Split(checkTypes, ",")
	}

	result := CheckResult{
		Entries:       len(entries),
		MissingMonths: checkers.MissingMonths(entries, targetTypes),
		TitleCase:     checkers.TitleCaseIssues(entries),
	}
	result.Status = "ok"
	if len(result.MissingMonths) > 0 || len(result.TitleCase) > 0 {
		result.Status = "issues"
	}
	if result.MissingMonths == nil {
		result.MissingMonths = []checkers.MonthIssue{}
	}
	if result.TitleCase == nil {
		result.TitleCase = []checkers.TitleIssue{}
	}

	if humanOutput {
		printCheckHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

func printCheckHuman(r CheckResult) {
	if r.Status == "ok" {
		fmt.Printf("Check: OK\n\n%d entries checked\n", r.Entries)
		return
	}

	if len(r.MissingMonths) > 0 {
		fmt.Printf("Missing months:\n")
		fmt.Printf("  %-40s | %-15s | %s\n", "ID", "Type", "Year")
		for _, issue := range r.MissingMonths {
			fmt.Printf("  %-40s | %-15s | %s\n", issue.CitationKey, issue.EntryType, issue.Year)
		}
		fmt.Println()
	}

	if len(r.TitleCase) > 0 {
		fmt.Printf("Titles not in Title Case:\n")
		for _, issue := range r.TitleCase {
			fmt.Printf("  %s\n", issue.CitationKey)
			fmt.Printf("    have: %s\n", truncateString(issue.Title, CheckTitleMaxLen))
			fmt.Printf("    want: %s\n", truncateString(issue.Suggested, CheckTitleMaxLen))
		}
		fmt.Println()
	}

	fmt.Printf("%d entries checked, %d issues\n", r.Entries, len(r.MissingMonths)+len(r.TitleCase))
}
