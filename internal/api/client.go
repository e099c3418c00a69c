// Package api is a client for the LyricsLexis backend, which owns accounts
// and the user's saved songs and words.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnauthorized is returned for a 401 response or when a user
	// endpoint is called without a session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound is returned for a 404 response.
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from the backend.
type StatusError struct {
	Status  int
	Message string // "message" field of the response body, if any
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend: status %d", e.Status)
	}
	return fmt.Sprintf("backend: status %d: %s", e.Status, e.Message)
}

// Is maps 401 and 404 onto the package sentinels.
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	}
	return false
}

// Client talks to the backend on behalf of one session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	session    lexis.Session
	log        *logrus.Entry
}

// NewClient constructs a backend client. A nil httpClient uses http.DefaultClient.
func NewClient(httpClient *http.Client, baseURL string, log *logrus.Entry) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        log.WithField("component", "api"),
	}
}

// WithSession returns a copy of c that authenticates as s.
func (c *Client) WithSession(s lexis.Session) *Client {
	cp := *c
	cp.session = s
	return &cp
}

// Session returns the session the client authenticates as.
func (c *Client) Session() lexis.Session {
	return c.session
}

// userPath builds a path under /users/{id}. It fails without a session.
func (c *Client) userPath(parts ...string) (string, error) {
	if !c.session.SignedIn() {
		return "", ErrUnauthorized
	}
	return "/users/" + url.PathEscape(c.session.UserID) + "/" + strings.Join(parts, "/"), nil
}

// do sends a JSON request and decodes a JSON response into out when out is
// non-nil.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.session.Token)
	}

	log := c.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     method,
		"path":       path,
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	log.WithField("status", resp.StatusCode).Debug("response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	se := &StatusError{Status: resp.StatusCode}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &payload) == nil {
		se.Message = payload.Message
		if se.Message == "" {
			se.Message = payload.Error
		}
	}
	return se
}
