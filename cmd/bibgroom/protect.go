package main

import (
	"fmt"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/protect"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(protectCmd)
}

var protectCmd = &cobra.Command{
	Use:   "protect <file.bib>",
	Short: "Flag title terms that need brace protection",
	Long: `Scan entry titles for terms that need brace protection.

Detects acronyms (BERT), mixed-case terms (LoRA, iPhone), and terms
containing digits (GPT-4), plus any terms from the configured vocabulary
list. Already-protected spans and mostly-uppercase titles are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runProtect,
}

// ProtectResult is the response for the protect command.
type ProtectResult struct {
	Status   string            `json:"status"`
	Entries  int               `json:"entries"`
	Findings []protect.Finding `json:"findings"`
}

func runProtect(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	entries, err := bibtex.ParseFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", args[0], err)
	}

	findings := protect.Scan(entries, protect.DefaultVocabularies(cfg.ProtectedTerms))

	result := ProtectResult{Entries: len(entries), Findings: findings}
	result.Status = "ok"
	if len(findings) > 0 {
		result.Status = "issues"
	}
	if result.Findings == nil {
		result.Findings = []protect.Finding{}
	}

	if humanOutput {
		printProtectHuman(result)
	} else {
		outputJSON(result)
	}
	return nil
}

func printProtectHuman(r ProtectResult) {
	if len(r.Findings) == 0 {
		fmt.Printf("Protection scan: OK\n\n%d entries scanned\n", r.Entries)
		return
	}

	fmt.Printf("  %-30s | %-20s | %s\n", "ID", "Term", "Reason")
	for _, f := range r.Findings {
		fmt.Printf("  %-30s | %-20s | %s\n", f.CitationKey, truncateString(f.Term, ProtectTermMaxLen), f.Reason)
	}
	fmt.Printf("\n%d terms to protect in %d entries scanned\n", len(r.Findings), r.Entries)
}
