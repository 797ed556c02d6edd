// Package main provides the bibgroom CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	_ = godotenv.Load() // optional .env with BIBGROOM_* overrides

	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bibgroom",
	Short: "Groom BibTeX bibliographies",
	Long: `bibgroom keeps BibTeX files tidy.

It completes missing metadata fields from a curated template set, checks
formatting conventions (required months, Title Case titles), flags terms
that need brace protection, and derives new templates from existing
entries. All commands output JSON by default for easy scripting.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
