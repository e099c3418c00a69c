package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/mattn/go-runewidth"
)

var (
	lyricStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	savedWordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Underline(true)

	learnedWordStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8e6cf")).
				Italic(true)

	cursorWordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1a2e")).
			Background(lipgloss.Color("#4ecdc4")).
			Bold(true)
)

// wordCursor walks the word tokens of a document.
type wordCursor struct {
	positions []annotate.Position
	index     int
}

func newWordCursor(doc annotate.Document) wordCursor {
	return wordCursor{positions: doc.WordPositions()}
}

func (c wordCursor) current() (annotate.Position, bool) {
	if len(c.positions) == 0 {
		return annotate.Position{}, false
	}
	return c.positions[c.index], true
}

func (c *wordCursor) next() {
	if c.index < len(c.positions)-1 {
		c.index++
	}
}

func (c *wordCursor) prev() {
	if c.index > 0 {
		c.index--
	}
}

func sameLine(a, b annotate.Position) bool {
	return a.Stanza == b.Stanza && a.Line == b.Line
}

// nextLine moves to the first word of the following line that has words.
func (c *wordCursor) nextLine() {
	cur, ok := c.current()
	if !ok {
		return
	}
	for i := c.index + 1; i < len(c.positions); i++ {
		if !sameLine(c.positions[i], cur) {
			c.index = i
			return
		}
	}
}

// prevLine moves to the first word of the preceding line that has words.
func (c *wordCursor) prevLine() {
	cur, ok := c.current()
	if !ok {
		return
	}
	i := c.index
	for i > 0 && sameLine(c.positions[i-1], cur) {
		i--
	}
	if i == 0 {
		c.index = 0
		return
	}
	target := c.positions[i-1]
	i--
	for i > 0 && sameLine(c.positions[i-1], target) {
		i--
	}
	c.index = i
}

// renderLyrics styles the document and reports the rendered row holding
// the cursor, or -1 when there is none.
func renderLyrics(doc annotate.Document, cursor *annotate.Position) (string, int) {
	var b strings.Builder
	row, cursorRow := 0, -1

	for si, stanza := range doc.Stanzas {
		if si > 0 {
			b.WriteString("\n\n")
			row += 2
		}
		for li, line := range stanza.Lines {
			if li > 0 {
				b.WriteString("\n")
				row++
			}
			for ti, tok := range line.Tokens {
				at := annotate.Position{Stanza: si, Line: li, Token: ti}
				switch {
				case cursor != nil && *cursor == at:
					cursorRow = row
					b.WriteString(cursorWordStyle.Render(tok.Text))
				case tok.Learned:
					b.WriteString(learnedWordStyle.Render(tok.Text))
				case tok.Saved:
					b.WriteString(savedWordStyle.Render(tok.Text))
				default:
					b.WriteString(lyricStyle.Render(tok.Text))
				}
			}
		}
	}
	return b.String(), cursorRow
}

// wordWrap wraps s on spaces to fit width cells.
func wordWrap(s string, width int) string {
	if width <= 0 {
		width = 60
	}
	var lines []string
	var currentLine strings.Builder
	currentWidth := 0

	for _, word := range strings.Fields(s) {
		wordWidth := runewidth.StringWidth(word)
		if currentWidth+wordWidth+1 > width && currentWidth > 0 {
			lines = append(lines, currentLine.String())
			currentLine.Reset()
			currentWidth = 0
		}
		if currentWidth > 0 {
			currentLine.WriteString(" ")
			currentWidth++
		}
		currentLine.WriteString(word)
		currentWidth += wordWidth
	}
	if currentLine.Len() > 0 {
		lines = append(lines, currentLine.String())
	}
	return strings.Join(lines, "\n")
}

// wrapParagraphs wraps every paragraph of s separately.
func wrapParagraphs(s string, width int) string {
	paragraphs := strings.Split(s, "\n")
	for i, p := range paragraphs {
		paragraphs[i] = wordWrap(p, width)
	}
	return strings.Join(paragraphs, "\n")
}

// truncate shortens s to width cells.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
