package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/f3rmion/lexis/internal/dictionary"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	mu    sync.Mutex
	words []lexis.SavedWord
	songs map[string]lexis.Song
	notes map[string]string
	fail  error
}

func newFakeBackend(words ...string) *fakeBackend {
	b := &fakeBackend{songs: map[string]lexis.Song{}, notes: map[string]string{}}
	for _, w := range words {
		b.words = append(b.words, lexis.SavedWord{Word: w})
	}
	return b
}

func songKey(artist, title string) string { return artist + "/" + title }

func (b *fakeBackend) ListWords(context.Context) ([]lexis.SavedWord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.fail != nil {
		return nil, b.fail
	}
	return append([]lexis.SavedWord(nil), b.words...), nil
}

func (b *fakeBackend) GetWord(_ context.Context, word string) (lexis.SavedWord, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, w := range b.words {
		if strings.EqualFold(w.Word, word) {
			return w, true, nil
		}
	}
	return lexis.SavedWord{}, false, nil
}

func (b *fakeBackend) SaveWord(_ context.Context, word string) ([]lexis.SavedWord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.words = append(b.words, lexis.SavedWord{Word: word})
	return append([]lexis.SavedWord(nil), b.words...), nil
}

func (b *fakeBackend) DeleteWord(_ context.Context, word string) ([]lexis.SavedWord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var kept []lexis.SavedWord
	for _, w := range b.words {
		if w.Word != word {
			kept = append(kept, w)
		}
	}
	b.words = kept
	return append([]lexis.SavedWord(nil), b.words...), nil
}

func (b *fakeBackend) SetLearned(_ context.Context, word string, learned bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.words {
		if b.words[i].Word == word {
			b.words[i].Learned = learned
		}
	}
	return nil
}

func (b *fakeBackend) SetNote(_ context.Context, word, note string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notes[word] = note
	return nil
}

func (b *fakeBackend) ListSongs(context.Context) ([]lexis.SavedSong, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []lexis.SavedSong
	for _, s := range b.songs {
		out = append(out, s.Saved())
	}
	return out, nil
}

func (b *fakeBackend) HasSong(_ context.Context, artist, title string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.songs[songKey(artist, title)]
	return ok, nil
}

func (b *fakeBackend) SaveSong(_ context.Context, song lexis.Song) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.songs[songKey(song.Artist, song.Title)] = song
	return nil
}

func (b *fakeBackend) DeleteSong(_ context.Context, artist, title string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.songs, songKey(artist, title))
	return nil
}

type fakeLyrics map[string]lexis.Song

var errNoLyrics = errors.New("no lyrics")

func (f fakeLyrics) Search(_ context.Context, query string) (lexis.Song, error) {
	s, ok := f[query]
	if !ok {
		return lexis.Song{}, errNoLyrics
	}
	return s, nil
}

type fakeDictionary struct{}

func (fakeDictionary) Define(_ context.Context, word string) ([]lexis.Entry, error) {
	if word == "zzz" {
		return nil, fmt.Errorf("define %q: %w", word, dictionary.ErrNotFound)
	}
	return []lexis.Entry{{Word: word}}, nil
}

var (
	hurt   = lexis.Song{Title: "Hurt", Artist: "Johnny Cash", Lyrics: "I hurt myself today\n\nTo see if I still feel"}
	lyrics = fakeLyrics{"hurt": hurt}
	signed = lexis.Session{UserID: "u1", Token: "t"}
	bg     = context.Background()
)

func TestOpenSignedIn(t *testing.T) {
	b := newFakeBackend("FEEL", "hurt", "never")
	b.songs[songKey(hurt.Artist, hurt.Title)] = hurt
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	page, err := svc.Open(bg, "hurt")
	require.NoError(t, err)
	require.True(t, page.SongSaved)
	require.Len(t, page.Words, 3)
	require.Len(t, page.Result.Document.Stanzas, 2)

	var found []string
	for _, w := range page.Result.SongSavedWords {
		found = append(found, w.Word)
	}
	require.Equal(t, []string{"hurt", "FEEL"}, found)
}

func TestOpenSignedOut(t *testing.T) {
	svc := NewService(nil, lyrics, fakeDictionary{}, lexis.Session{}, nil)

	page, err := svc.Open(bg, "hurt")
	require.NoError(t, err)
	require.False(t, page.SongSaved)
	require.Empty(t, page.Result.SongSavedWords)
	require.Equal(t, hurt.Lyrics, page.Result.Document.String())

	_, err = svc.Open(bg, "missing")
	require.ErrorIs(t, err, errNoLyrics)
}

func TestOpenBackendFailure(t *testing.T) {
	b := newFakeBackend()
	b.fail = errors.New("down")
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	_, err := svc.Open(bg, "hurt")
	require.ErrorContains(t, err, "loading saved words")
}

func TestReannotate(t *testing.T) {
	svc := NewService(newFakeBackend(), lyrics, fakeDictionary{}, signed, nil)
	page, err := svc.Open(bg, "hurt")
	require.NoError(t, err)
	require.Empty(t, page.Result.SongSavedWords)

	page = Reannotate(page, []lexis.SavedWord{{Word: "today", Learned: true}})
	require.Len(t, page.Result.SongSavedWords, 1)
}

func TestWordMutations(t *testing.T) {
	b := newFakeBackend("stop")
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	view, err := svc.Lookup(bg, "Stop")
	require.NoError(t, err)
	require.True(t, view.Saved)
	require.Equal(t, "stop", view.Word)
	require.Len(t, view.Entries, 1)

	words, saved, err := svc.ToggleWord(bg, "Go", false)
	require.NoError(t, err)
	require.True(t, saved)
	require.Len(t, words, 2)

	require.NoError(t, svc.SetLearned(bg, "go", true))
	view, err = svc.Lookup(bg, "go")
	require.NoError(t, err)
	require.True(t, view.Learned)

	require.NoError(t, svc.SetNote(bg, "go", "movement"))
	require.Equal(t, "movement", b.notes["go"])

	words, saved, err = svc.ToggleWord(bg, "go", true)
	require.NoError(t, err)
	require.False(t, saved)
	require.Len(t, words, 1)
}

func TestSaveWordsSkipsExisting(t *testing.T) {
	b := newFakeBackend("Love")
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	added, err := svc.SaveWords(bg, []string{"love", "rain", "RAIN", "sun"})
	require.NoError(t, err)
	require.Equal(t, 2, added)
	require.Len(t, b.words, 3)
}

func TestToggleSong(t *testing.T) {
	b := newFakeBackend()
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	saved, err := svc.ToggleSong(bg, hurt, false)
	require.NoError(t, err)
	require.True(t, saved)

	songs, err := svc.Songs(bg)
	require.NoError(t, err)
	require.Len(t, songs, 1)

	saved, err = svc.ToggleSong(bg, hurt, true)
	require.NoError(t, err)
	require.False(t, saved)
}

func TestSignedOutMutations(t *testing.T) {
	svc := NewService(nil, lyrics, fakeDictionary{}, lexis.Session{}, nil)

	_, _, err := svc.ToggleWord(bg, "x", false)
	require.ErrorIs(t, err, session.ErrNoSession)
	require.True(t, IsSignedOut(err))

	_, err = svc.ToggleSong(bg, hurt, false)
	require.ErrorIs(t, err, session.ErrNoSession)

	_, err = svc.Words(bg)
	require.True(t, IsSignedOut(err))

	view, err := svc.Lookup(bg, "x")
	require.NoError(t, err)
	require.False(t, view.Saved)
}

func TestLookupUnknownWord(t *testing.T) {
	b := newFakeBackend("zzz")
	svc := NewService(b, lyrics, fakeDictionary{}, signed, nil)

	view, err := svc.Lookup(bg, "zzz")
	require.NoError(t, err)
	require.Empty(t, view.Entries)
	require.True(t, view.Saved)
}
