package annotate

import (
	"testing"
	"time"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/stretchr/testify/require"
)

func texts(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = t.Text
	}
	return out
}

func lineTexts(s Stanza) []string {
	out := make([]string, len(s.Lines))
	for i, l := range s.Lines {
		out[i] = l.Text()
	}
	return out
}

func TestAnnotateRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		" ",
		"\n",
		"\n\n",
		"\n\n\n",
		"line1\nline2\n\nline3",
		"verse\n\n",
		"Hello, world!  -- it's  'quoted' -\n\n\nrockin' & rollin'",
		"naïve café 123 under_score\r\nnext",
		"ＦＵＬＬ　ｗｉｄｔｈ 日本語の歌詞",
		"caf\xe9 au lait\n\nna\xffve",
		"\xff\xfe-'\xc3",
		"real \uFFFD replacement",
	}
	for _, in := range inputs {
		res := Annotate(in, []lexis.SavedWord{{Word: "it's"}})
		require.Equal(t, in, res.Document.String(), "input %q", in)
	}
}

func TestAnnotateStanzas(t *testing.T) {
	res := Annotate("line1\nline2\n\nline3", nil)
	require.Len(t, res.Document.Stanzas, 2)
	require.Equal(t, []string{"line1", "line2"}, lineTexts(res.Document.Stanzas[0]))
	require.Equal(t, []string{"line3"}, lineTexts(res.Document.Stanzas[1]))
}

func TestAnnotateTrailingStanzaBreak(t *testing.T) {
	res := Annotate("verse\n\n", nil)
	require.Len(t, res.Document.Stanzas, 2)
	require.Equal(t, []string{""}, lineTexts(res.Document.Stanzas[1]))
}

func TestAnnotateEmpty(t *testing.T) {
	res := Annotate("", nil)
	require.True(t, res.Document.Empty())
	require.Empty(t, res.SongSavedWords)

	res = Annotate("", []lexis.SavedWord{{Word: "love"}})
	require.True(t, res.Document.Empty())
	require.Empty(t, res.SongSavedWords)
}

func TestAnnotateWhitespaceOnly(t *testing.T) {
	res := Annotate("   ", nil)
	require.Len(t, res.Document.Stanzas, 1)
	tokens := res.Document.Stanzas[0].Lines[0].Tokens
	require.Len(t, tokens, 1)
	require.Equal(t, KindSeparator, tokens[0].Kind)
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		line  string
		want  []string
		words []string
	}{
		{
			name:  "joined words",
			line:  "well-known don't stop",
			want:  []string{"well-known", " ", "don't", " ", "stop"},
			words: []string{"well-known", "don't", "stop"},
		},
		{
			name:  "trailing apostrophe stays attached",
			line:  "rockin' all night",
			want:  []string{"rockin'", " ", "all", " ", "night"},
			words: []string{"rockin'", "all", "night"},
		},
		{
			name:  "lone hyphen is a separator",
			line:  "yeah - yeah",
			want:  []string{"yeah", " - ", "yeah"},
			words: []string{"yeah", "yeah"},
		},
		{
			name:  "leading apostrophe splits off",
			line:  "'cause I said",
			want:  []string{"'", "cause", " ", "I", " ", "said"},
			words: []string{"cause", "I", "said"},
		},
		{
			name:  "trailing hyphen splits off",
			line:  "stop- go",
			want:  []string{"stop", "- ", "go"},
			words: []string{"stop", "go"},
		},
		{
			name:  "punctuation merges",
			line:  "Oh, oh!!",
			want:  []string{"Oh", ", ", "oh", "!!"},
			words: []string{"Oh", "oh"},
		},
		{
			name:  "unicode letters",
			line:  "déjà vu",
			want:  []string{"déjà", " ", "vu"},
			words: []string{"déjà", "vu"},
		},
		{
			name:  "invalid utf-8 splits words",
			line:  "na\xffve caf\xe9",
			want:  []string{"na", "\xff", "ve", " ", "caf", "\xe9"},
			words: []string{"na", "ve", "caf"},
		},
		{
			name: "empty",
			line: "",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Tokenize(tt.line)
			require.Equal(t, tt.want, texts(tokens))

			var words []string
			for _, tok := range tokens {
				if tok.IsWord() {
					words = append(words, tok.Text)
				}
			}
			require.Equal(t, tt.words, words)
		})
	}
}

func TestTokenizeAlternates(t *testing.T) {
	tokens := Tokenize("a, b -- c's  d- 'e'")
	for i := 1; i < len(tokens); i++ {
		require.NotEqual(t, tokens[i-1].Kind, tokens[i].Kind, "tokens %d and %d", i-1, i)
	}
}

func TestAnnotateCaseInsensitive(t *testing.T) {
	res := Annotate("Love LOVE love lover", []lexis.SavedWord{{Word: "love", Learned: true}})

	var saved []string
	for _, tok := range res.Document.Stanzas[0].Lines[0].Tokens {
		if tok.Saved {
			require.True(t, tok.Learned)
			saved = append(saved, tok.Text)
		}
	}
	require.Equal(t, []string{"Love", "LOVE", "love"}, saved)
}

func TestAnnotateSavedIndexIgnoresRecordCase(t *testing.T) {
	res := Annotate("hello there", []lexis.SavedWord{{Word: "Hello"}})
	tok := res.Document.Stanzas[0].Lines[0].Tokens[0]
	require.True(t, tok.Saved)
	require.False(t, tok.Learned)
}

func TestAnnotateSongSavedWords(t *testing.T) {
	run := lexis.SavedWord{Word: "run", CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	away := lexis.SavedWord{Word: "away", Learned: true}
	unused := lexis.SavedWord{Word: "never"}

	res := Annotate("run run away", []lexis.SavedWord{away, unused, run})
	require.Equal(t, []lexis.SavedWord{run, away}, res.SongSavedWords)
}

func TestAnnotateSeparatorsNeverSaved(t *testing.T) {
	res := Annotate("- ' -", []lexis.SavedWord{{Word: "-"}, {Word: "'"}})
	for _, tok := range res.Document.Stanzas[0].Lines[0].Tokens {
		require.Equal(t, KindSeparator, tok.Kind)
		require.False(t, tok.Saved)
		require.False(t, tok.Learned)
	}
	require.Empty(t, res.SongSavedWords)
}

func TestAnnotateDeterministic(t *testing.T) {
	saved := []lexis.SavedWord{{Word: "Stop", Learned: true}, {Word: "go"}}
	before := append([]lexis.SavedWord(nil), saved...)

	a := Annotate("Stop and go\n\ngo STOP", saved)
	b := Annotate("Stop and go\n\ngo STOP", saved)
	require.Equal(t, a, b)
	require.Equal(t, before, saved)
}

func TestIndexFirstRecordWins(t *testing.T) {
	idx := NewIndex([]lexis.SavedWord{{Word: "Rain", Note: "first"}, {Word: "rain", Note: "second"}})
	w, ok := idx.Lookup("RAIN")
	require.True(t, ok)
	require.Equal(t, "first", w.Note)

	_, ok = idx.Lookup("snow")
	require.False(t, ok)
}

func TestWordPositions(t *testing.T) {
	doc := Annotate("one, two\n\nthree", nil).Document
	pos := doc.WordPositions()
	require.Len(t, pos, 3)
	require.Equal(t, "two", doc.Token(pos[1]).Text)
	require.Equal(t, Position{Stanza: 1, Line: 0, Token: 0}, pos[2])
}

func TestContext(t *testing.T) {
	doc := Annotate("one\ntwo\n \nthree\n\nfour", nil).Document

	require.Equal(t, "two", doc.LineText(Position{Stanza: 0, Line: 1}))
	require.Equal(t, []string{"one", "three"}, doc.Context(Position{Stanza: 0, Line: 1}, 2))
	require.Equal(t, []string{"one"}, doc.Context(Position{Stanza: 0, Line: 1}, 1))

	require.Equal(t, "four", doc.LineText(Position{Stanza: 1, Line: 0}))
	require.Empty(t, doc.Context(Position{Stanza: 1, Line: 0}, 2), "context stays inside the stanza")

	require.Empty(t, doc.LineText(Position{Stanza: 5}))
	require.Nil(t, doc.Context(Position{Stanza: 0, Line: -1}, 1))
}

func TestWords(t *testing.T) {
	require.Equal(t, []string{"don't", "look", "back"}, Words("don't\nlook back!"))
	require.Nil(t, Words(" -- "))
}
