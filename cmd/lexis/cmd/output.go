package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/f3rmion/lexis/internal/dictionary"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/library"
	"github.com/f3rmion/lexis/internal/study"
)

// Output styles
var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF6B6B"))
	artistStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#a8dadc"))
	savedStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#ffe66d"))
	learnedStyle = lipgloss.NewStyle().Faint(true).Italic(true).Foreground(lipgloss.Color("#a8e6cf"))
	posStyle     = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#4ecdc4"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

// printer writes command output, optionally without styling.
type printer struct {
	w     io.Writer
	plain bool
}

func (p printer) style(s lipgloss.Style, text string) string {
	if p.plain {
		return text
	}
	return s.Render(text)
}

func (p printer) println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

func (p printer) printf(format string, a ...any) {
	fmt.Fprintf(p.w, format, a...)
}

// document renders annotated lyrics. Saved words are highlighted and learned
// words dimmed.
func (p printer) document(doc annotate.Document) string {
	if p.plain {
		return doc.String()
	}

	var b strings.Builder
	for si, stanza := range doc.Stanzas {
		if si > 0 {
			b.WriteString("\n\n")
		}
		for li, line := range stanza.Lines {
			if li > 0 {
				b.WriteString("\n")
			}
			for _, tok := range line.Tokens {
				switch {
				case tok.Learned:
					b.WriteString(learnedStyle.Render(tok.Text))
				case tok.Saved:
					b.WriteString(savedStyle.Render(tok.Text))
				default:
					b.WriteString(tok.Text)
				}
			}
		}
	}
	return b.String()
}

func (p printer) page(page study.Page) {
	song := page.Song
	header := p.style(titleStyle, song.Title)
	if song.Artist != "" {
		header += " " + p.style(artistStyle, "· "+song.Artist)
	}
	if page.SongSaved {
		header += " " + p.style(mutedStyle, "(in your library)")
	}
	p.println(header)
	p.println()

	if page.Result.Document.Empty() {
		p.println(p.style(mutedStyle, "(this song has no lyrics)"))
	} else {
		p.println(p.document(page.Result.Document))
	}

	words := page.Result.SongSavedWords
	if len(words) == 0 {
		return
	}
	p.println()
	p.printf("Saved words in this song (%d):\n", len(words))
	for _, w := range words {
		p.println("  " + p.savedWord(w))
	}
}

func (p printer) savedWord(w lexis.SavedWord) string {
	line := w.Word
	if w.Learned {
		line = p.style(learnedStyle, w.Word+" ✓")
	}
	if w.Note != "" {
		line += p.style(mutedStyle, " - "+strings.Join(strings.Fields(w.Note), " "))
	}
	return line
}

func (p printer) wordView(view study.WordView) {
	header := p.style(titleStyle, view.Word)
	for _, e := range view.Entries {
		if pron := e.Pronunciation(); pron != "" {
			header += " " + p.style(artistStyle, pron)
			break
		}
	}
	switch {
	case view.Learned:
		header += " " + p.style(learnedStyle, "[learned]")
	case view.Saved:
		header += " " + p.style(savedStyle, "[saved]")
	}
	p.println(header)

	senses := dictionary.Summary(view.Entries, 0)
	if len(senses) == 0 {
		p.println(p.style(mutedStyle, "No definitions found."))
	}
	last := ""
	n := 0
	for _, s := range senses {
		if s.PartOfSpeech != last {
			p.println()
			p.println(p.style(posStyle, s.PartOfSpeech))
			last, n = s.PartOfSpeech, 0
		}
		n++
		p.printf("  %d. %s\n", n, s.Definition)
		if s.Example != "" {
			p.println("     " + p.style(mutedStyle, fmt.Sprintf("%q", s.Example)))
		}
	}

	if syn := dictionary.Synonyms(view.Entries); len(syn) > 0 {
		p.println()
		p.println("Synonyms: " + strings.Join(syn, ", "))
	}
	if view.Note != "" {
		p.println()
		p.println("Note: " + view.Note)
	}
}

func (p printer) words(words []lexis.SavedWord) {
	if len(words) == 0 {
		p.println(p.style(mutedStyle, "No saved words yet."))
		return
	}
	for _, w := range words {
		mark := "  "
		if w.Learned {
			mark = p.style(learnedStyle, "✓ ")
		}
		note := strings.Join(strings.Fields(w.Note), " ")
		p.printf("%s%-20s %-18s %s\n", mark, w.Word, library.FormatDate(w.CreatedAt), p.style(mutedStyle, note))
	}
}

func (p printer) songs(songs []lexis.SavedSong) {
	if len(songs) == 0 {
		p.println(p.style(mutedStyle, "No saved songs yet."))
		return
	}
	for _, s := range songs {
		p.printf("%s %s  %s\n", p.style(titleStyle, s.Title), p.style(artistStyle, "· "+s.Artist), p.style(mutedStyle, library.FormatDate(s.CreatedAt)))
	}
}
