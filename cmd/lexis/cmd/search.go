package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:     "search <query...>",
	Aliases: []string{"lyrics"},
	Short:   "Print the lyrics of a song with your saved words highlighted",
	Long: `Fetch the lyrics of a song and print them. When you are signed in,
your saved words are highlighted and learned words are dimmed, and the
saved words found in the song are listed after the lyrics.

Examples:
  lexis search bohemian rhapsody queen
  lexis search "the sound of silence" --plain`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

var defineCmd = &cobra.Command{
	Use:   "define <word>",
	Short: "Look up a word in the dictionary",
	Long: `Look up a word and print its pronunciation, meanings and synonyms.
When you are signed in, the word's saved state and your note are shown too.

Example:
  lexis define wander`,
	Args: cobra.ExactArgs(1),
	RunE: runDefine,
}

var searchPlain bool

func init() {
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(defineCmd)
	searchCmd.Flags().BoolVar(&searchPlain, "plain", false, "print without colors")
	defineCmd.Flags().BoolVar(&searchPlain, "plain", false, "print without colors")
}

// restoreOptional restores the session for commands that also work signed out.
func restoreOptional(cmd *cobra.Command, env *environment) {
	err := env.restore(cmd.Context())
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Note: continuing signed out (%v)\n\n", err)
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()
	restoreOptional(cmd, env)

	query := strings.Join(args, " ")
	page, err := env.service().Open(cmd.Context(), query)
	if errors.Is(err, lyrics.ErrNotFound) {
		return fmt.Errorf("no lyrics found for %q", query)
	}
	if err != nil {
		return err
	}

	printer{w: cmd.OutOrStdout(), plain: searchPlain}.page(page)
	return nil
}

func runDefine(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()
	restoreOptional(cmd, env)

	view, err := env.service().Lookup(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printer{w: cmd.OutOrStdout(), plain: searchPlain}.wordView(view)
	return nil
}
