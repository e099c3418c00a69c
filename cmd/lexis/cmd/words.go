package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/f3rmion/lexis/internal/anki"
	"github.com/f3rmion/lexis/internal/library"
	"github.com/spf13/cobra"
)

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Manage your saved words",
	Long:  `List, save, remove and annotate the words in your library.`,
}

var wordsListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your saved words",
	Long: `List your saved words.

Examples:
  lexis words list
  lexis words list --sort learned --order asc`,
	Args: cobra.NoArgs,
	RunE: runWordsList,
}

var wordsAddCmd = &cobra.Command{
	Use:   "add <word...>",
	Short: "Save words",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runWordsAdd,
}

var wordsRmCmd = &cobra.Command{
	Use:     "rm <word>",
	Aliases: []string{"remove"},
	Short:   "Remove a saved word",
	Args:    cobra.ExactArgs(1),
	RunE:    runWordsRm,
}

var wordsLearnCmd = &cobra.Command{
	Use:   "learn <word>",
	Short: "Mark a saved word as learned",
	Args:  cobra.ExactArgs(1),
	RunE:  runWordsLearn,
}

var wordsNoteCmd = &cobra.Command{
	Use:   "note <word> [text...]",
	Short: "Set the note of a saved word",
	Long: `Set the note of a saved word. Without text the note is cleared.

Examples:
  lexis words note wander "to walk without a goal"
  lexis words note wander`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWordsNote,
}

var wordsImportCmd = &cobra.Command{
	Use:   "import <deck.apkg>",
	Short: "Save the words of an Anki deck",
	Long: `Read an Anki .apkg file and save every word found in one of its
fields. Words you already saved are skipped.

Examples:
  lexis words import spanish.apkg
  lexis words import vocab.apkg --field Back --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runWordsImport,
}

var (
	wordsSort   string
	wordsOrder  string
	wordsUnset  bool
	wordsField  string
	wordsDryRun bool
	wordsPlain  bool
)

func init() {
	rootCmd.AddCommand(wordsCmd)
	wordsCmd.AddCommand(wordsListCmd, wordsAddCmd, wordsRmCmd, wordsLearnCmd, wordsNoteCmd, wordsImportCmd)

	wordsListCmd.Flags().StringVar(&wordsSort, "sort", "", "sort by word, learned or createdAt (default from config)")
	wordsListCmd.Flags().StringVar(&wordsOrder, "order", "", "asc or desc (default from config)")
	wordsListCmd.Flags().BoolVar(&wordsPlain, "plain", false, "print without colors")
	wordsLearnCmd.Flags().BoolVar(&wordsUnset, "unset", false, "mark the word as not learned")
	wordsImportCmd.Flags().StringVarP(&wordsField, "field", "f", "", "field holding the words (default: Front, Word, Expression or the first field)")
	wordsImportCmd.Flags().BoolVar(&wordsDryRun, "dry-run", false, "list the words without saving them")
}

// sortFlags resolves --sort and --order against the configured defaults and
// the fields the collection offers.
func sortFlags(field, order, defField, defOrder string, allowed []library.Field) (library.Field, library.Order, error) {
	if field == "" {
		field = defField
	}
	if order == "" {
		order = defOrder
	}
	f, err := library.ParseField(field)
	if err != nil {
		return "", "", err
	}
	if f == library.FieldAuthor {
		f = library.FieldArtist
	}
	if !slices.Contains(allowed, f) {
		return "", "", fmt.Errorf("%w: %q", library.ErrUnknownField, field)
	}
	o, err := library.ParseOrder(order)
	if err != nil {
		return "", "", err
	}
	return f, o, nil
}

// signedIn loads the environment with a verified session.
func signedIn(cmd *cobra.Command) (*environment, error) {
	env, err := loadEnvironment()
	if err != nil {
		return nil, err
	}
	if err := env.requireSession(cmd.Context()); err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func runWordsList(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	lib := env.cfg.Library
	field, order, err := sortFlags(wordsSort, wordsOrder, lib.WordSort, lib.WordOrder, library.WordFields)
	if err != nil {
		return err
	}

	words, err := env.service().Words(cmd.Context())
	if err != nil {
		return err
	}
	printer{w: cmd.OutOrStdout(), plain: wordsPlain}.words(library.Sort(words, field, order))
	return nil
}

func runWordsAdd(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	added, err := env.service().SaveWords(cmd.Context(), args)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d new word(s), %d already saved\n", added, len(args)-added)
	return nil
}

func runWordsRm(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if _, _, err := env.service().ToggleWord(cmd.Context(), args[0], true); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %q\n", strings.ToLower(args[0]))
	return nil
}

func runWordsLearn(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	if err := env.service().SetLearned(cmd.Context(), args[0], !wordsUnset); err != nil {
		return err
	}
	state := "learned"
	if wordsUnset {
		state = "not learned"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %q as %s\n", args[0], state)
	return nil
}

func runWordsNote(cmd *cobra.Command, args []string) error {
	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	note := strings.Join(args[1:], " ")
	if err := env.service().SetNote(cmd.Context(), args[0], note); err != nil {
		return err
	}
	if note == "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Cleared the note of %q\n", args[0])
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Updated the note of %q\n", args[0])
	}
	return nil
}

// pickField returns the deck field to import from.
func pickField(pkg *anki.Package, want string) (string, error) {
	fields := pkg.FieldNames()
	if len(fields) == 0 {
		return "", fmt.Errorf("deck has no fields")
	}
	if want == "" {
		return fields[anki.DefaultField(fields)], nil
	}
	for _, f := range fields {
		if strings.EqualFold(f, want) {
			return f, nil
		}
	}
	return "", fmt.Errorf("deck has no field %q (fields: %s)", want, strings.Join(fields, ", "))
}

func runWordsImport(cmd *cobra.Command, args []string) error {
	pkg, err := anki.OpenPackage(args[0])
	if err != nil {
		return fmt.Errorf("opening package: %w", err)
	}
	defer pkg.Close()

	field, err := pickField(pkg, wordsField)
	if err != nil {
		return err
	}
	words := pkg.Words(field)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Found %d word(s) in field %q\n", len(words), field)
	if wordsDryRun {
		for _, w := range words {
			fmt.Fprintln(out, "  "+w)
		}
		return nil
	}

	env, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	added, err := env.service().SaveWords(cmd.Context(), words)
	if err != nil {
		return fmt.Errorf("saved %d word(s) before failing: %w", added, err)
	}
	fmt.Fprintf(out, "Imported %d new word(s), %d already saved\n", added, len(words)-added)
	return nil
}
