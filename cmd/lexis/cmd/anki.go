package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/f3rmion/lexis/internal/anki"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

var ankiCmd = &cobra.Command{
	Use:   "anki",
	Short: "Work with Anki decks",
	Long:  `Commands for reading Anki .apkg files before importing their words.`,
}

var ankiInspectCmd = &cobra.Command{
	Use:   "inspect <file.apkg>",
	Short: "Inspect an Anki deck",
	Long: `Inspect an Anki .apkg file to see its structure:
  - Note types (models) and their fields
  - The field 'lexis words import' reads by default
  - Sample notes

Example:
  lexis anki inspect spanish.apkg`,
	Args: cobra.ExactArgs(1),
	RunE: runAnkiInspect,
}

var ankiInspectLimit int

func init() {
	rootCmd.AddCommand(ankiCmd)
	ankiCmd.AddCommand(ankiInspectCmd)

	ankiInspectCmd.Flags().IntVarP(&ankiInspectLimit, "limit", "n", 5, "Number of sample notes to show")
}

func runAnkiInspect(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	path := args[0]

	fmt.Fprintf(out, "Opening: %s\n\n", path)

	pkg, err := anki.OpenPackage(path)
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	fmt.Fprintln(out, pkg.Summary())
	if fields := pkg.FieldNames(); len(fields) > 0 {
		fmt.Fprintf(out, "Import field: %s\n", fields[anki.DefaultField(fields)])
	}
	fmt.Fprintln(out)

	// Models in id order so the output is stable
	ids := make([]int64, 0, len(pkg.Models))
	for id := range pkg.Models {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fmt.Fprintln(out, "Field Details:")
	for _, id := range ids {
		model := pkg.Models[id]
		fmt.Fprintf(out, "  %s:\n", model.Name)
		for _, field := range model.Fields {
			fmt.Fprintf(out, "    [%d] %s\n", field.Ord, field.Name)
		}
	}
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Sample Notes (first %d):\n", ankiInspectLimit)
	for i, note := range pkg.Notes {
		if i >= ankiInspectLimit {
			break
		}

		model := pkg.Models[note.ModelID]
		modelName := "unknown"
		if model != nil {
			modelName = model.Name
		}
		fmt.Fprintf(out, "\n  Note %d (Model: %s):\n", note.ID, modelName)

		if model == nil {
			continue
		}
		for _, field := range model.Fields {
			value := strings.Join(strings.Fields(anki.StripHTML(pkg.FieldValue(note, field.Name))), " ")
			fmt.Fprintf(out, "    %s: %s\n", field.Name, runewidth.Truncate(value, 100, "..."))
		}
	}

	return nil
}
