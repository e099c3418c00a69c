package views

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/stretchr/testify/require"
)

const song = "Hello darkness, my old friend\nI've come to talk\n\n...\nWith you again"

func TestWordCursor(t *testing.T) {
	doc := annotate.Annotate(song, nil).Document
	c := newWordCursor(doc)
	word := func() string {
		p, ok := c.current()
		require.True(t, ok)
		return doc.Token(p).Text
	}

	require.Equal(t, "Hello", word())
	c.prev()
	require.Equal(t, "Hello", word())
	c.next()
	require.Equal(t, "darkness", word())

	c.nextLine()
	require.Equal(t, "I've", word())
	c.nextLine()
	require.Equal(t, "With", word(), "lines without words are skipped")
	c.nextLine()
	require.Equal(t, "With", word())

	c.next()
	c.next()
	require.Equal(t, "again", word())
	c.prevLine()
	require.Equal(t, "I've", word())
	c.next()
	c.prevLine()
	require.Equal(t, "Hello", word())
	c.prevLine()
	require.Equal(t, "Hello", word())
}

func TestWordCursorEmpty(t *testing.T) {
	c := newWordCursor(annotate.Annotate("", nil).Document)
	_, ok := c.current()
	require.False(t, ok)
	c.next()
	c.nextLine()
	c.prevLine()
	_, ok = c.current()
	require.False(t, ok)
}

func TestRenderLyrics(t *testing.T) {
	doc := annotate.Annotate(song, []lexis.SavedWord{{Word: "friend"}}).Document

	out, row := renderLyrics(doc, nil)
	require.Equal(t, song, ansi.Strip(out))
	require.Equal(t, -1, row)

	cursor := annotate.Position{Stanza: 1, Line: 1, Token: 0}
	out, row = renderLyrics(doc, &cursor)
	require.Equal(t, song, ansi.Strip(out))
	require.Equal(t, 4, row)
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "short line", 20, "short line"},
		{"wraps", "the quick brown fox", 10, "the quick\nbrown fox"},
		{"long word", "incomprehensibilities ok", 8, "incomprehensibilities\nok"},
		{"empty", "", 10, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, wordWrap(tt.in, tt.width))
		})
	}
}

func TestWrapParagraphs(t *testing.T) {
	got := wrapParagraphs("a b c\n\nd e", 3)
	require.Equal(t, "a b\nc\n\nd e", got)
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "hello", truncate("hello", 10))
	require.Equal(t, "hel…", truncate("hello", 4))
	require.Empty(t, truncate("hello", 0))
	require.True(t, strings.HasSuffix(truncate("日本語のテキスト", 7), "…"))
}
