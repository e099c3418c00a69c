package views

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/llm"
	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/f3rmion/lexis/internal/prompt"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/stretchr/testify/require"
)

type fakeLyrics map[string]lexis.Song

func (f fakeLyrics) Search(_ context.Context, query string) (lexis.Song, error) {
	song, ok := f[query]
	if !ok {
		return lexis.Song{}, fmt.Errorf("search %q: %w", query, lyrics.ErrNotFound)
	}
	return song, nil
}

type fakeDictionary struct{}

func (fakeDictionary) Define(_ context.Context, word string) ([]lexis.Entry, error) {
	return []lexis.Entry{{Word: word}}, nil
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newSignedOutService() *study.Service {
	songs := fakeLyrics{
		"Sound of Silence Simon & Garfunkel": {
			Title:  "Sound of Silence",
			Artist: "Simon & Garfunkel",
			Lyrics: song,
		},
	}
	return study.NewService(nil, songs, fakeDictionary{}, lexis.Session{}, nil)
}

func loadedSearch(t *testing.T) SearchModel {
	t.Helper()
	svc := newSignedOutService()
	m := NewSearchModel(svc, prompt.NewGenerator(), nil)
	m.SetSize(80, 30)

	page, err := svc.Open(context.Background(), "Sound of Silence Simon & Garfunkel")
	require.NoError(t, err)
	m, _ = m.Update(songLoadedMsg{page: page})
	return m
}

func TestSearchEmptyQuery(t *testing.T) {
	m := NewSearchModel(newSignedOutService(), prompt.NewGenerator(), nil)
	require.True(t, m.Capturing())

	cmd := m.Open("  ", "")
	require.Nil(t, cmd)
	require.ErrorIs(t, m.err, lyrics.ErrEmptyQuery)
}

func TestSearchNotFound(t *testing.T) {
	m := NewSearchModel(newSignedOutService(), prompt.NewGenerator(), nil)
	m.inputs[inputSong].SetValue("Nope")

	m, _ = m.Update(songLoadedMsg{err: fmt.Errorf("search: %w", lyrics.ErrNotFound)})
	require.EqualError(t, m.err, `no lyrics found for "Nope"`)
	require.False(t, m.loaded)
}

func TestSearchReader(t *testing.T) {
	m := loadedSearch(t)
	require.False(t, m.Capturing())
	require.Contains(t, m.View(), "Sound of Silence")

	word, ok := m.currentWord()
	require.True(t, ok)
	require.Equal(t, "Hello", word)

	m, _ = m.Update(key("l"))
	m, _ = m.Update(key("j"))
	word, _ = m.currentWord()
	require.Equal(t, "I've", word)

	_, cmd := m.Update(key("enter"))
	require.NotNil(t, cmd)
	require.Equal(t, OpenWordMsg{Word: "I've"}, cmd())

	m, _ = m.Update(key("/"))
	require.True(t, m.Capturing())
	m, _ = m.Update(key("esc"))
	require.False(t, m.Capturing())
}

func TestSearchReannotate(t *testing.T) {
	m := loadedSearch(t)
	require.Empty(t, m.page.Result.SongSavedWords)

	m, _ = m.Update(WordsChangedMsg{Words: []lexis.SavedWord{{Word: "friend"}, {Word: "absent"}}})
	require.Len(t, m.page.Result.SongSavedWords, 1)
	require.Equal(t, "friend", m.page.Result.SongSavedWords[0].Word)
	require.Contains(t, m.renderHeader(), "friend")
}

func TestSearchSignedOutActions(t *testing.T) {
	m := loadedSearch(t)

	_, cmd := m.Update(key("S"))
	require.NotNil(t, cmd)
	m, _ = m.Update(cmd())
	require.EqualError(t, m.err, "sign in (view 3) to save songs")

	m, cmd = m.Update(key("e"))
	require.Nil(t, cmd)
	require.ErrorIs(t, m.err, llm.ErrNoAPIKey)
	require.False(t, m.explaining)
}
