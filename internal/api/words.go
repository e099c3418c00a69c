package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/f3rmion/lexis/internal/lexis"
)

func wordPath(word string) string {
	return url.PathEscape(strings.ToLower(word))
}

// ListWords returns every saved word of the user.
func (c *Client) ListWords(ctx context.Context) ([]lexis.SavedWord, error) {
	path, err := c.userPath("words/")
	if err != nil {
		return nil, err
	}
	var words []lexis.SavedWord
	if err := c.do(ctx, http.MethodGet, path, nil, &words); err != nil {
		return nil, fmt.Errorf("listing words: %w", err)
	}
	return words, nil
}

// GetWord returns the saved record for word. found is false when the word
// is not saved.
func (c *Client) GetWord(ctx context.Context, word string) (w lexis.SavedWord, found bool, err error) {
	path, err := c.userPath("words", wordPath(word))
	if err != nil {
		return lexis.SavedWord{}, false, err
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &w); err != nil {
		if errors.Is(err, ErrNotFound) {
			return lexis.SavedWord{}, false, nil
		}
		return lexis.SavedWord{}, false, fmt.Errorf("getting word: %w", err)
	}
	if w.Word == "" {
		w.Word = strings.ToLower(word)
	}
	return w, true, nil
}

// SaveWord adds word and returns the updated collection.
func (c *Client) SaveWord(ctx context.Context, word string) ([]lexis.SavedWord, error) {
	path, err := c.userPath("words")
	if err != nil {
		return nil, err
	}
	body := struct {
		Word string `json:"word"`
	}{Word: word}

	var words []lexis.SavedWord
	if err := c.do(ctx, http.MethodPost, path, body, &words); err != nil {
		return nil, fmt.Errorf("saving word: %w", err)
	}
	return words, nil
}

// DeleteWord removes word and returns the updated collection.
func (c *Client) DeleteWord(ctx context.Context, word string) ([]lexis.SavedWord, error) {
	path, err := c.userPath("words", wordPath(word))
	if err != nil {
		return nil, err
	}
	var words []lexis.SavedWord
	if err := c.do(ctx, http.MethodDelete, path, nil, &words); err != nil {
		return nil, fmt.Errorf("deleting word: %w", err)
	}
	return words, nil
}

// SetLearned updates the learned flag of word.
func (c *Client) SetLearned(ctx context.Context, word string, learned bool) error {
	path, err := c.userPath("words", wordPath(word))
	if err != nil {
		return err
	}
	body := struct {
		Learned bool `json:"learned"`
	}{Learned: learned}

	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("updating learned status: %w", err)
	}
	return nil
}

// SetNote replaces the note of word. An empty note clears it.
func (c *Client) SetNote(ctx context.Context, word, note string) error {
	path, err := c.userPath("words", wordPath(word))
	if err != nil {
		return err
	}
	body := struct {
		Note string `json:"note"`
	}{Note: strings.TrimSpace(note)}

	if err := c.do(ctx, http.MethodPatch, path, body, nil); err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	return nil
}
