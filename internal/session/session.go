// Package session persists the signed-in user's token between runs.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/golang-jwt/jwt/v5"
	"gopkg.in/yaml.v3"
)

// FileName is the session file inside the config directory.
const FileName = "session.yaml"

var (
	// ErrNoSession is returned when nobody is signed in.
	ErrNoSession = errors.New("not signed in")
	// ErrExpired is returned when the stored token has expired.
	ErrExpired = errors.New("session expired")
)

// Store keeps the session in a YAML file readable only by the user.
type Store struct {
	path string
	now  func() time.Time
}

// NewStore returns a store rooted in the config directory dir.
func NewStore(dir string) *Store {
	return &Store{path: filepath.Join(dir, FileName), now: time.Now}
}

// Path returns the session file location.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored session.
func (s *Store) Load() (lexis.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return lexis.Session{}, ErrNoSession
	}
	if err != nil {
		return lexis.Session{}, fmt.Errorf("reading session file: %w", err)
	}

	var sess lexis.Session
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return lexis.Session{}, fmt.Errorf("parsing session file: %w", err)
	}
	if !sess.SignedIn() {
		return lexis.Session{}, ErrNoSession
	}
	return sess, nil
}

// Save stores sess, replacing any previous session.
func (s *Store) Save(sess lexis.Session) error {
	out, err := yaml.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	if err := os.WriteFile(s.path, out, 0600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. Clearing an absent session is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing session file: %w", err)
	}
	return nil
}

// Verifier asks the backend whether a session is still valid.
type Verifier func(ctx context.Context, sess lexis.Session) (lexis.Session, error)

// Restore loads the stored session and checks it. An expired or rejected
// token is removed from disk, as is any session that fails verification.
func (s *Store) Restore(ctx context.Context, verify Verifier) (lexis.Session, error) {
	sess, err := s.Load()
	if err != nil {
		return lexis.Session{}, err
	}

	if Expired(sess.Token, s.now()) {
		if err := s.Clear(); err != nil {
			return lexis.Session{}, err
		}
		return lexis.Session{}, ErrExpired
	}

	if verify == nil {
		return sess, nil
	}
	verified, err := verify(ctx, sess)
	if err != nil {
		if cerr := s.Clear(); cerr != nil {
			return lexis.Session{}, cerr
		}
		return lexis.Session{}, fmt.Errorf("verifying session: %w", err)
	}
	if verified.UserID == "" {
		verified.UserID = sess.UserID
	}
	if verified.Token == "" {
		verified.Token = sess.Token
	}
	if verified.Email == "" {
		verified.Email = sess.Email
	}
	return verified, nil
}

// Expired reports whether token is a JWT whose exp claim is before now.
// The signature is not checked; the backend does that. Tokens that are not
// JWTs, or carry no exp claim, never expire locally.
func Expired(token string, now time.Time) bool {
	exp, ok := ExpiresAt(token)
	return ok && !now.Before(exp)
}

// ExpiresAt returns the exp claim of a JWT.
func ExpiresAt(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
