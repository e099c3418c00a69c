// Package annotate turns raw lyrics into a render-ready token stream marked
// against the user's saved words.
package annotate

import (
	"strings"

	"github.com/f3rmion/lexis/internal/lexis"
)

// Index is a case-insensitive lookup of saved words.
type Index struct {
	words map[string]lexis.SavedWord
}

// NewIndex builds an index over saved. When two records share a word the
// first one wins.
func NewIndex(saved []lexis.SavedWord) Index {
	idx := Index{words: make(map[string]lexis.SavedWord, len(saved))}
	for _, w := range saved {
		key := w.Key()
		if _, ok := idx.words[key]; ok {
			continue
		}
		idx.words[key] = w
	}
	return idx
}

// Lookup returns the saved record for word, ignoring case.
func (idx Index) Lookup(word string) (lexis.SavedWord, bool) {
	w, ok := idx.words[strings.ToLower(word)]
	return w, ok
}

// Result is the output of Annotate.
type Result struct {
	Document Document
	// SongSavedWords holds the saved words occurring in the lyrics, once
	// each, in order of first appearance.
	SongSavedWords []lexis.SavedWord
}

// Annotate splits rawLyrics into stanzas, lines and tokens and marks each
// word token found in saved. Empty lyrics yield an empty document. saved is
// not modified.
func Annotate(rawLyrics string, saved []lexis.SavedWord) Result {
	return NewIndex(saved).Annotate(rawLyrics)
}

// Annotate is Annotate against a prebuilt index.
func (idx Index) Annotate(rawLyrics string) Result {
	var res Result
	if rawLyrics == "" {
		return res
	}

	seen := make(map[string]bool)
	for _, block := range strings.Split(rawLyrics, stanzaBreak) {
		var stanza Stanza
		for _, text := range strings.Split(block, lineBreak) {
			tokens := Tokenize(text)
			for i := range tokens {
				if !tokens[i].IsWord() {
					continue
				}
				w, ok := idx.Lookup(tokens[i].Text)
				if !ok {
					continue
				}
				tokens[i].Saved = true
				tokens[i].Learned = w.Learned
				if key := w.Key(); !seen[key] {
					seen[key] = true
					res.SongSavedWords = append(res.SongSavedWords, w)
				}
			}
			stanza.Lines = append(stanza.Lines, Line{Tokens: tokens})
		}
		res.Document.Stanzas = append(res.Document.Stanzas, stanza)
	}
	return res
}
