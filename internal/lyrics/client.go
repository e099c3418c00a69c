// Package lyrics looks up song lyrics by title and artist.
package lyrics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when the service has no lyrics for a query.
var ErrNotFound = errors.New("lyrics not found")

// ErrEmptyQuery is returned when neither title nor artist is given.
var ErrEmptyQuery = errors.New("empty lyrics query")

// Cache stores raw lookup responses. *cache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Client is an HTTP client for the lyrics service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	cache      Cache
	log        *logrus.Entry
}

// NewClient constructs a lyrics client. token is sent as-is in the
// Authorization header. cache may be nil.
func NewClient(httpClient *http.Client, baseURL, token string, cache Cache, log *logrus.Entry) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		cache:      cache,
		log:        log.WithField("component", "lyrics"),
	}
}

// Query joins a song title and artist into a search query.
func Query(title, artist string) string {
	return strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(artist))
}

// Search returns the best match for query.
func (c *Client) Search(ctx context.Context, query string) (lexis.Song, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return lexis.Song{}, ErrEmptyQuery
	}

	key := "lyrics:" + strings.ToLower(query)
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var song lexis.Song
			if json.Unmarshal(data, &song) == nil {
				c.log.WithField("query", query).Debug("cache hit")
				return song, nil
			}
		}
	}

	song, raw, err := c.fetch(ctx, query)
	if err != nil {
		return lexis.Song{}, err
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, raw); err != nil {
			c.log.WithError(err).Warn("caching lyrics")
		}
	}
	return song, nil
}

func (c *Client) fetch(ctx context.Context, query string) (lexis.Song, []byte, error) {
	u := c.baseURL + "/lyrics?" + url.Values{"title": {query}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return lexis.Song{}, nil, fmt.Errorf("lyrics: %w", err)
	}
	if c.token != "" {
		req.Header.Set("Authorization", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return lexis.Song{}, nil, fmt.Errorf("lyrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return lexis.Song{}, nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return lexis.Song{}, nil, fmt.Errorf("lyrics: status %d", resp.StatusCode)
	}

	var song lexis.Song
	if err := json.NewDecoder(resp.Body).Decode(&song); err != nil {
		return lexis.Song{}, nil, fmt.Errorf("lyrics: decoding response: %w", err)
	}
	if strings.TrimSpace(song.Lyrics) == "" {
		return lexis.Song{}, nil, ErrNotFound
	}

	raw, err := json.Marshal(song)
	if err != nil {
		return lexis.Song{}, nil, fmt.Errorf("lyrics: %w", err)
	}
	c.log.WithFields(logrus.Fields{"title": song.Title, "artist": song.Artist}).Info("fetched lyrics")
	return song, raw, nil
}
