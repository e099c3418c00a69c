// Package dictionary looks up word definitions from a dictionaryapi.dev
// compatible service.
package dictionary

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

// ErrNotFound is returned when the dictionary has no entry for a word.
var ErrNotFound = errors.New("no definitions found")

// Cache stores raw lookup responses. *cache.Store satisfies it.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Client is an HTTP client for the dictionary service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      Cache
	log        *logrus.Entry
}

// NewClient constructs a dictionary client. cache may be nil.
func NewClient(httpClient *http.Client, baseURL string, cache Cache, log *logrus.Entry) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cache:      cache,
		log:        log.WithField("component", "dictionary"),
	}
}

// Define returns the dictionary entries for word.
func (c *Client) Define(ctx context.Context, word string) ([]lexis.Entry, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return nil, ErrNotFound
	}

	key := "define:" + word
	if c.cache != nil {
		if data, err := c.cache.Get(ctx, key); err == nil {
			var entries []lexis.Entry
			if json.Unmarshal(data, &entries) == nil {
				return entries, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+url.PathEscape(word), nil)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dictionary: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dictionary: status %d", resp.StatusCode)
	}

	var entries []lexis.Entry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("dictionary: decoding response: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrNotFound
	}

	if c.cache != nil {
		if raw, err := json.Marshal(entries); err == nil {
			if err := c.cache.Put(ctx, key, raw); err != nil {
				c.log.WithError(err).Warn("caching definitions")
			}
		}
	}
	return entries, nil
}

// Sense is a flattened definition ready for display.
type Sense struct {
	PartOfSpeech string
	Definition   string
	Example      string
}

// Summary flattens entries into senses grouped by part of speech, in the
// order the parts of speech first appear. At most limit senses are kept per
// part of speech; limit <= 0 keeps all.
func Summary(entries []lexis.Entry, limit int) []Sense {
	var order []string
	groups := make(map[string][]Sense)
	for _, e := range entries {
		for _, m := range e.Meanings {
			if _, ok := groups[m.PartOfSpeech]; !ok {
				order = append(order, m.PartOfSpeech)
				groups[m.PartOfSpeech] = nil
			}
			for _, d := range m.Definitions {
				if limit > 0 && len(groups[m.PartOfSpeech]) >= limit {
					break
				}
				groups[m.PartOfSpeech] = append(groups[m.PartOfSpeech], Sense{
					PartOfSpeech: m.PartOfSpeech,
					Definition:   d.Definition,
					Example:      d.Example,
				})
			}
		}
	}

	var out []Sense
	for _, pos := range order {
		out = append(out, groups[pos]...)
	}
	return out
}

// Synonyms collects the distinct synonyms of entries in order.
func Synonyms(entries []lexis.Entry) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(words []string) {
		for _, w := range words {
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	for _, e := range entries {
		for _, m := range e.Meanings {
			add(m.Synonyms)
			for _, d := range m.Definitions {
				add(d.Synonyms)
			}
		}
	}
	return out
}
