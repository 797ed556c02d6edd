package main

import (
	"fmt"
	"os"

	"github.com/kmatt/bibgroom/internal/bibtex"
	"github.com/kmatt/bibgroom/internal/template"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	deriveUpdate    bool
	deriveTemplates string
)

func init() {
	templatesDeriveCmd.Flags().BoolVar(&deriveUpdate, "update", false, "Write the merged set back to the templates file (with a .bak backup)")
	templatesDeriveCmd.Flags().StringVar(&deriveTemplates, "templates", "", "Path to the templates file")
	templatesCmd.AddCommand(templatesDeriveCmd)
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Manage the venue template set",
}

var templatesDeriveCmd = &cobra.Command{
	Use:   "derive <file.bib>",
	Short: "Derive templates from bibliography entries",
	Long: `Derive venue templates from bibliography entries.

Entry-specific fields (title, author, pages, ...) are excluded; what
remains becomes the template's default fields. Keys already in the set are
merged, with entry values winning over stale template values. Without
--update the new and updated templates are printed; with --update the
templates file is rewritten in place, sorted newest-first, after saving a
.bak backup.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplatesDerive,
}

// DeriveResponse is the response for the templates derive command.
type DeriveResponse struct {
	New             []template.Template       `json:"new"`
	Updated         []template.TemplateUpdate `json:"updated"`
	SkippedMissing  []string                  `json:"skipped_missing"`
	SkippedExisting int                       `json:"skipped_existing"`
	Written         string                    `json:"written,omitempty"`
}

func runTemplatesDerive(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	templatesPath := deriveTemplates
	if templatesPath == "" {
		templatesPath = cfg.TemplatesFile()
	}
	existing, err := template.LoadFile(templatesPath)
	if err != nil {
		exitWithError(ExitConfigError, "loading templates: %v", err)
	}

	entries, err := bibtex.ParseFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "parsing %s: %v", args[0], err)
	}

	result := template.Derive(entries, existing)

	response := DeriveResponse{
		New:             result.New,
		Updated:         result.Updated,
		SkippedMissing:  result.SkippedMissing,
		SkippedExisting: result.SkippedExisting,
	}
	if response.New == nil {
		response.New = []template.Template{}
	}
	if response.Updated == nil {
		response.Updated = []template.TemplateUpdate{}
	}
	if response.SkippedMissing == nil {
		response.SkippedMissing = []string{}
	}

	if deriveUpdate {
		if err := template.SaveFile(templatesPath, result.Merged); err != nil {
			exitWithError(ExitError, "writing templates: %v", err)
		}
		response.Written = templatesPath
	}

	if humanOutput {
		printDeriveHuman(response)
	} else {
		outputJSON(response)
	}
	return nil
}

func printDeriveHuman(r DeriveResponse) {
	if len(r.New) > 0 {
		fmt.Printf("New templates:\n\n")
		printTemplatesYAML(r.New)
	}
	if len(r.Updated) > 0 {
		fmt.Printf("Updated templates:\n\n")
		updated := make([]template.Template, len(r.Updated))
		for i, u := range r.Updated {
			updated[i] = u.Template
		}
		printTemplatesYAML(updated)
	}
	for _, key := range r.SkippedMissing {
		fmt.Printf("Skipped %q: missing year or venue.\n", key)
	}

	fmt.Printf("\nSummary: new=%d, updated=%d, skipped_missing=%d, skipped_existing=%d\n",
		len(r.New), len(r.Updated), len(r.SkippedMissing), r.SkippedExisting)
	if r.Written != "" {
		fmt.Printf("Templates written to %s (backup: %s.bak)\n", r.Written, r.Written)
	}
}

func printTemplatesYAML(templates []template.Template) {
	data, err := yaml.Marshal(templates)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: rendering templates: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
