// Package study coordinates lyrics, dictionary and backend calls for the
// views. It holds the signed-in session explicitly instead of sharing it
// through globals.
package study

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/f3rmion/lexis/internal/dictionary"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Backend is the part of the backend client the service needs.
type Backend interface {
	ListWords(ctx context.Context) ([]lexis.SavedWord, error)
	GetWord(ctx context.Context, word string) (lexis.SavedWord, bool, error)
	SaveWord(ctx context.Context, word string) ([]lexis.SavedWord, error)
	DeleteWord(ctx context.Context, word string) ([]lexis.SavedWord, error)
	SetLearned(ctx context.Context, word string, learned bool) error
	SetNote(ctx context.Context, word, note string) error
	ListSongs(ctx context.Context) ([]lexis.SavedSong, error)
	HasSong(ctx context.Context, artist, title string) (bool, error)
	SaveSong(ctx context.Context, song lexis.Song) error
	DeleteSong(ctx context.Context, artist, title string) error
}

// LyricsSource finds lyrics for a query.
type LyricsSource interface {
	Search(ctx context.Context, query string) (lexis.Song, error)
}

// Dictionary finds definitions for a word.
type Dictionary interface {
	Define(ctx context.Context, word string) ([]lexis.Entry, error)
}

// Service is the entry point for the views and commands.
type Service struct {
	backend    Backend
	lyrics     LyricsSource
	dictionary Dictionary
	session    lexis.Session
	log        *logrus.Entry
}

// NewService wires a service. backend is only used while sess is signed in.
func NewService(backend Backend, lyrics LyricsSource, dictionary Dictionary, sess lexis.Session, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{
		backend:    backend,
		lyrics:     lyrics,
		dictionary: dictionary,
		session:    sess,
		log:        log.WithField("component", "study"),
	}
}

// Session returns the session the service acts for.
func (s *Service) Session() lexis.Session {
	return s.session
}

// SignedIn reports whether user data is available.
func (s *Service) SignedIn() bool {
	return s.session.SignedIn() && s.backend != nil
}

// Page is a song opened for study.
type Page struct {
	Song      lexis.Song
	Result    annotate.Result
	SongSaved bool              // Song is in the user's library
	Words     []lexis.SavedWord // All saved words of the user
}

// Open looks up lyrics for query and annotates them against the user's
// saved words. Saved words and the song's library state load concurrently.
func (s *Service) Open(ctx context.Context, query string) (Page, error) {
	song, err := s.lyrics.Search(ctx, query)
	if err != nil {
		return Page{}, err
	}

	page := Page{Song: song}
	if s.SignedIn() {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			words, err := s.backend.ListWords(gctx)
			if err != nil {
				return fmt.Errorf("loading saved words: %w", err)
			}
			page.Words = words
			return nil
		})
		g.Go(func() error {
			saved, err := s.backend.HasSong(gctx, song.Artist, song.Title)
			if err != nil {
				return fmt.Errorf("checking library: %w", err)
			}
			page.SongSaved = saved
			return nil
		})
		if err := g.Wait(); err != nil {
			return Page{}, err
		}
	}

	page.Result = annotate.Annotate(song.Lyrics, page.Words)
	s.log.WithFields(logrus.Fields{
		"title":       song.Title,
		"saved_words": len(page.Result.SongSavedWords),
	}).Info("opened song")
	return page, nil
}

// Reannotate recomputes a page after the saved words changed.
func Reannotate(page Page, words []lexis.SavedWord) Page {
	page.Words = words
	page.Result = annotate.Annotate(page.Song.Lyrics, words)
	return page
}

// WordView is a word opened in the dictionary panel.
type WordView struct {
	Word    string
	Entries []lexis.Entry
	Saved   bool
	Learned bool
	Note    string
}

// Lookup fetches definitions for word and, when signed in, its saved state.
// A word the dictionary does not know yields a view without entries.
func (s *Service) Lookup(ctx context.Context, word string) (WordView, error) {
	view := WordView{Word: strings.ToLower(word)}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		entries, err := s.dictionary.Define(gctx, word)
		if err != nil && !errors.Is(err, dictionary.ErrNotFound) {
			return err
		}
		view.Entries = entries
		return nil
	})
	if s.SignedIn() {
		g.Go(func() error {
			w, found, err := s.backend.GetWord(gctx, word)
			if err != nil {
				return fmt.Errorf("loading saved word: %w", err)
			}
			view.Saved = found
			view.Learned = w.Learned
			view.Note = w.Note
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return WordView{}, err
	}
	return view, nil
}

func (s *Service) requireSession() error {
	if !s.SignedIn() {
		return session.ErrNoSession
	}
	return nil
}

// Words returns the user's saved words.
func (s *Service) Words(ctx context.Context) ([]lexis.SavedWord, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	return s.backend.ListWords(ctx)
}

// Songs returns the user's saved songs.
func (s *Service) Songs(ctx context.Context) ([]lexis.SavedSong, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	return s.backend.ListSongs(ctx)
}

// ToggleWord saves word when it is not saved and removes it otherwise. It
// returns the updated collection and the new saved state.
func (s *Service) ToggleWord(ctx context.Context, word string, saved bool) ([]lexis.SavedWord, bool, error) {
	if err := s.requireSession(); err != nil {
		return nil, saved, err
	}
	if saved {
		words, err := s.backend.DeleteWord(ctx, strings.ToLower(word))
		return words, err != nil, err
	}
	words, err := s.backend.SaveWord(ctx, strings.ToLower(word))
	return words, err == nil, err
}

// SaveWords saves every word not already saved and reports how many were
// added. Words are compared ignoring case.
func (s *Service) SaveWords(ctx context.Context, words []string) (int, error) {
	if err := s.requireSession(); err != nil {
		return 0, err
	}
	existing, err := s.backend.ListWords(ctx)
	if err != nil {
		return 0, err
	}
	idx := annotate.NewIndex(existing)

	added := 0
	for _, w := range words {
		if _, ok := idx.Lookup(w); ok {
			continue
		}
		existing, err = s.backend.SaveWord(ctx, strings.ToLower(w))
		if err != nil {
			return added, err
		}
		idx = annotate.NewIndex(existing)
		added++
	}
	return added, nil
}

// SetLearned updates the learned flag of a saved word.
func (s *Service) SetLearned(ctx context.Context, word string, learned bool) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.backend.SetLearned(ctx, word, learned)
}

// SetNote replaces the note of a saved word. An empty note clears it.
func (s *Service) SetNote(ctx context.Context, word, note string) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.backend.SetNote(ctx, word, note)
}

// ToggleSong adds the song to the library or removes it, returning the new
// saved state.
func (s *Service) ToggleSong(ctx context.Context, song lexis.Song, saved bool) (bool, error) {
	if err := s.requireSession(); err != nil {
		return saved, err
	}
	if saved {
		if err := s.backend.DeleteSong(ctx, song.Artist, song.Title); err != nil {
			return true, err
		}
		return false, nil
	}
	if err := s.backend.SaveSong(ctx, song); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveSong deletes a song from the library by artist and title.
func (s *Service) RemoveSong(ctx context.Context, artist, title string) error {
	if err := s.requireSession(); err != nil {
		return err
	}
	return s.backend.DeleteSong(ctx, artist, title)
}

// IsSignedOut reports whether err means the user must sign in first.
func IsSignedOut(err error) bool {
	return errors.Is(err, session.ErrNoSession)
}
