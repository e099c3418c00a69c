package annotate

import "strings"

const (
	stanzaBreak = "\n\n"
	lineBreak   = "\n"
)

// Kind classifies a token.
type Kind int

const (
	KindSeparator Kind = iota // Whitespace and punctuation, never clickable
	KindWord                  // Letters, digits, apostrophes and hyphens
)

func (k Kind) String() string {
	if k == KindWord {
		return "word"
	}
	return "separator"
}

// Token is the smallest unit of a line of lyrics.
type Token struct {
	Kind    Kind
	Text    string
	Saved   bool // Word is in the user's saved words
	Learned bool // Matched saved word is marked learned
}

// IsWord reports whether the token is a clickable word.
func (t Token) IsWord() bool {
	return t.Kind == KindWord
}

// Line is a single line of lyrics.
type Line struct {
	Tokens []Token
}

// Text reconstructs the line from its tokens.
func (l Line) Text() string {
	var b strings.Builder
	for _, t := range l.Tokens {
		b.WriteString(t.Text)
	}
	return b.String()
}

// Stanza is a block of lines separated from its neighbours by a blank line.
type Stanza struct {
	Lines []Line
}

// Document is lyrics split into stanzas, lines and tokens.
type Document struct {
	Stanzas []Stanza
}

// String reconstructs the source text exactly.
func (d Document) String() string {
	stanzas := make([]string, len(d.Stanzas))
	for i, s := range d.Stanzas {
		lines := make([]string, len(s.Lines))
		for j, l := range s.Lines {
			lines[j] = l.Text()
		}
		stanzas[i] = strings.Join(lines, lineBreak)
	}
	return strings.Join(stanzas, stanzaBreak)
}

// Empty reports whether the document holds no stanzas.
func (d Document) Empty() bool {
	return len(d.Stanzas) == 0
}

// Position addresses a token inside a document.
type Position struct {
	Stanza int
	Line   int
	Token  int
}

// Token returns the token at p. Callers must pass a position obtained from
// the same document.
func (d Document) Token(p Position) Token {
	return d.Stanzas[p.Stanza].Lines[p.Line].Tokens[p.Token]
}

// WordPositions lists every word token in reading order.
func (d Document) WordPositions() []Position {
	var out []Position
	for si, s := range d.Stanzas {
		for li, l := range s.Lines {
			for ti, t := range l.Tokens {
				if t.IsWord() {
					out = append(out, Position{Stanza: si, Line: li, Token: ti})
				}
			}
		}
	}
	return out
}

// LineText returns the text of the line at p, or "" when p is outside the
// document.
func (d Document) LineText(p Position) string {
	if !d.hasLine(p) {
		return ""
	}
	return d.Stanzas[p.Stanza].Lines[p.Line].Text()
}

// Context returns the non-blank lines within radius of the line at p, in
// order, trimmed and excluding the line itself. It never crosses a stanza
// break.
func (d Document) Context(p Position, radius int) []string {
	if !d.hasLine(p) {
		return nil
	}
	lines := d.Stanzas[p.Stanza].Lines
	var out []string
	for i := max(0, p.Line-radius); i <= min(len(lines)-1, p.Line+radius); i++ {
		if text := strings.TrimSpace(lines[i].Text()); i != p.Line && text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (d Document) hasLine(p Position) bool {
	return p.Stanza >= 0 && p.Stanza < len(d.Stanzas) &&
		p.Line >= 0 && p.Line < len(d.Stanzas[p.Stanza].Lines)
}
