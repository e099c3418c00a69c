package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/f3rmion/lexis/internal/llm"
	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/f3rmion/lexis/internal/prompt"
	"github.com/spf13/cobra"
)

var explainCmd = &cobra.Command{
	Use:   "explain <query...>",
	Short: "Explain a line of a song",
	Long: `Ask a language model to explain one line of a song's lyrics, and
optionally a word in it. Lines are numbered from 1, skipping blank lines.

Set ANTHROPIC_API_KEY to enable explanations. With --prompt-only the
prompt is printed instead of sent, so it can be pasted elsewhere.

Examples:
  lexis explain bohemian rhapsody --line 3
  lexis explain hallelujah --line 2 --word chord
  lexis explain hallelujah --line 2 --prompt-only
  lexis explain hallelujah --line 2 --word chord --brief --language Spanish`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExplain,
}

var (
	explainLine       int
	explainWord       string
	explainPromptOnly bool
	explainBrief      bool
	explainEtymology  bool
	explainLanguage   string
)

func init() {
	rootCmd.AddCommand(explainCmd)
	explainCmd.Flags().IntVarP(&explainLine, "line", "l", 1, "line to explain")
	explainCmd.Flags().StringVarP(&explainWord, "word", "w", "", "word to focus on")
	explainCmd.Flags().BoolVar(&explainPromptOnly, "prompt-only", false, "print the prompt instead of asking the model")
	explainCmd.Flags().BoolVar(&explainBrief, "brief", false, "only a one sentence gloss of --word")
	explainCmd.Flags().BoolVar(&explainEtymology, "etymology", false, "ask where the word comes from")
	explainCmd.Flags().StringVarP(&explainLanguage, "language", "L", "", "language of the answer (default English)")
}

// newExplainGenerator builds the prompt generator for the explain flags.
func newExplainGenerator(word string, brief, etymology bool, language string) (*prompt.Generator, error) {
	gen := prompt.NewGenerator()
	style := prompt.DefaultStyle()
	style.Etymology = etymology
	if language != "" {
		style.Language = language
	}
	gen.SetStyle(style)

	if brief {
		if word == "" {
			return nil, errors.New("--brief needs --word")
		}
		if err := gen.SetTemplate(prompt.BriefTemplate); err != nil {
			return nil, err
		}
	}
	return gen, nil
}

// findLine returns the n-th non-blank line of doc, counting from 1.
func findLine(doc annotate.Document, n int) (annotate.Position, bool) {
	for si, stanza := range doc.Stanzas {
		for li, line := range stanza.Lines {
			if strings.TrimSpace(line.Text()) == "" {
				continue
			}
			n--
			if n == 0 {
				return annotate.Position{Stanza: si, Line: li}, true
			}
		}
	}
	return annotate.Position{}, false
}

func runExplain(cmd *cobra.Command, args []string) error {
	env, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()
	restoreOptional(cmd, env)

	gen, err := newExplainGenerator(explainWord, explainBrief, explainEtymology, explainLanguage)
	if err != nil {
		return err
	}

	var client *llm.Client
	if !explainPromptOnly {
		client, err = llm.NewClient(env.cfg.AnthropicModel)
		if errors.Is(err, llm.ErrNoAPIKey) {
			return errors.New("set ANTHROPIC_API_KEY to get explanations, or use --prompt-only")
		}
		if err != nil {
			return err
		}
	}

	query := strings.Join(args, " ")
	page, err := env.service().Open(cmd.Context(), query)
	if errors.Is(err, lyrics.ErrNotFound) {
		return fmt.Errorf("no lyrics found for %q", query)
	}
	if err != nil {
		return err
	}

	doc := page.Result.Document
	pos, ok := findLine(doc, explainLine)
	if !ok {
		return fmt.Errorf("%q has no line %d", page.Song.Title, explainLine)
	}

	data := prompt.LineData{
		Title:   page.Song.Title,
		Artist:  page.Song.Artist,
		Line:    doc.LineText(pos),
		Word:    explainWord,
		Context: doc.Context(pos, 2),
	}
	if saved, ok := annotate.NewIndex(page.Words).Lookup(explainWord); ok {
		data.Note = saved.Note
	}

	text, err := gen.Generate(data)
	if err != nil {
		return fmt.Errorf("building prompt: %w", err)
	}

	out := cmd.OutOrStdout()
	if explainPromptOnly {
		fmt.Fprintln(out, text)
		return nil
	}

	fmt.Fprintln(out, titleStyle.Render(strings.TrimSpace(data.Line)))
	fmt.Fprintln(out)

	answer, err := client.Complete(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("explaining line: %w", err)
	}
	fmt.Fprintln(out, answer)
	return nil
}
