package cmd

import "github.com/spf13/cobra"

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i", "ui"},
	Short:   "Launch interactive TUI",
	Long: `Launch the interactive terminal UI.

Views:
  1 Search    Read lyrics and look up their words
  2 Library   Your saved songs and words
  3 Account   Sign in, sign up or sign out
  4 Import    Save words from an Anki deck
  5 Settings  The effective configuration

Press ? inside the UI for all key bindings.`,
	RunE: runUnifiedTUI,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}
