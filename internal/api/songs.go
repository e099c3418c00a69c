package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/f3rmion/lexis/internal/lexis"
)

func songPath(artist, title string) []string {
	return []string{"songs", url.PathEscape(artist), url.PathEscape(title)}
}

// ListSongs returns every song in the user's library.
func (c *Client) ListSongs(ctx context.Context) ([]lexis.SavedSong, error) {
	path, err := c.userPath("songs/")
	if err != nil {
		return nil, err
	}
	var songs []lexis.SavedSong
	if err := c.do(ctx, http.MethodGet, path, nil, &songs); err != nil {
		return nil, fmt.Errorf("listing songs: %w", err)
	}
	return songs, nil
}

// HasSong reports whether the song is in the user's library.
func (c *Client) HasSong(ctx context.Context, artist, title string) (bool, error) {
	path, err := c.userPath(songPath(artist, title)...)
	if err != nil {
		return false, err
	}
	if err := c.do(ctx, http.MethodGet, path, nil, nil); err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("checking song: %w", err)
	}
	return true, nil
}

// SaveSong adds song to the library.
func (c *Client) SaveSong(ctx context.Context, song lexis.Song) error {
	path, err := c.userPath("songs")
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, path, song, nil); err != nil {
		return fmt.Errorf("saving song: %w", err)
	}
	return nil
}

// DeleteSong removes a song from the library.
func (c *Client) DeleteSong(ctx context.Context, artist, title string) error {
	path, err := c.userPath(songPath(artist, title)...)
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("deleting song: %w", err)
	}
	return nil
}
