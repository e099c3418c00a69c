// Package lexis provides the core types shared across LyricsLexis.
package lexis

import (
	"strings"
	"time"
)

// SavedWord is a vocabulary entry persisted for a signed-in user.
type SavedWord struct {
	Word      string    `json:"word" yaml:"word"`
	Learned   bool      `json:"learned" yaml:"learned"`
	Note      string    `json:"note,omitempty" yaml:"note,omitempty"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// Key returns the case-insensitive identity of the word.
func (w SavedWord) Key() string {
	return strings.ToLower(w.Word)
}

// SortValue exposes the sortable fields of a saved word.
func (w SavedWord) SortValue(field string) (any, bool) {
	switch field {
	case "word":
		return w.Word, true
	case "learned":
		return w.Learned, true
	case "createdAt":
		return w.CreatedAt, true
	}
	return nil, false
}

// SavedSong is a song the user added to their library.
type SavedSong struct {
	Title     string    `json:"title" yaml:"title"`
	Artist    string    `json:"artist" yaml:"artist"`
	CreatedAt time.Time `json:"createdAt" yaml:"created_at"`
}

// SortValue exposes the sortable fields of a saved song. "author" is accepted
// as an alias of "artist".
func (s SavedSong) SortValue(field string) (any, bool) {
	switch field {
	case "title":
		return s.Title, true
	case "artist", "author":
		return s.Artist, true
	case "createdAt":
		return s.CreatedAt, true
	}
	return nil, false
}

// Song is a lyrics lookup result.
type Song struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	Lyrics    string `json:"lyrics"`
	Thumbnail string `json:"thumbnail,omitempty"` // Cover art URL
	URL       string `json:"url,omitempty"`       // Source page of the lyrics
}

// Saved returns the library form of the song.
func (s Song) Saved() SavedSong {
	return SavedSong{Title: s.Title, Artist: s.Artist}
}

// Session identifies a signed-in user.
type Session struct {
	UserID string `json:"userId" yaml:"user_id"`
	Token  string `json:"token" yaml:"token"`
	Email  string `json:"email,omitempty" yaml:"email,omitempty"`
}

// SignedIn reports whether the session carries credentials.
func (s Session) SignedIn() bool {
	return s.UserID != "" && s.Token != ""
}

// License describes the license of a dictionary source.
type License struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Phonetic is one pronunciation of a dictionary entry.
type Phonetic struct {
	Text      string   `json:"text,omitempty"`
	Audio     string   `json:"audio,omitempty"`
	SourceURL string   `json:"sourceUrl,omitempty"`
	License   *License `json:"license,omitempty"`
}

// Definition is a single sense of a word.
type Definition struct {
	Definition string   `json:"definition"`
	Synonyms   []string `json:"synonyms"`
	Antonyms   []string `json:"antonyms"`
	Example    string   `json:"example,omitempty"`
}

// Meaning groups definitions by part of speech.
type Meaning struct {
	PartOfSpeech string       `json:"partOfSpeech"`
	Definitions  []Definition `json:"definitions"`
	Synonyms     []string     `json:"synonyms"`
	Antonyms     []string     `json:"antonyms"`
}

// Entry is a dictionary entry for a word.
type Entry struct {
	Word       string     `json:"word"`
	Phonetic   string     `json:"phonetic,omitempty"`
	Phonetics  []Phonetic `json:"phonetics"`
	Meanings   []Meaning  `json:"meanings"`
	License    *License   `json:"license,omitempty"`
	SourceURLs []string   `json:"sourceUrls,omitempty"`
}

// Pronunciation returns the first phonetic spelling available for the entry.
func (e Entry) Pronunciation() string {
	if e.Phonetic != "" {
		return e.Phonetic
	}
	for _, p := range e.Phonetics {
		if p.Text != "" {
			return p.Text
		}
	}
	return ""
}
