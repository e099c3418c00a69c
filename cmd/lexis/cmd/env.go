package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/f3rmion/lexis/internal/api"
	"github.com/f3rmion/lexis/internal/cache"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/dictionary"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/logging"
	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// cacheFile is the lookup cache inside the config directory.
const cacheFile = "cache.db"

// environment holds everything a command needs to talk to the outside world.
type environment struct {
	dir string
	cfg *config.Config
	log *logrus.Entry

	logs  io.Closer
	cache *cache.Store

	backend    *api.Client
	lyrics     *lyrics.Client
	dictionary *dictionary.Client

	sessions *session.Store
	session  lexis.Session
}

// loadEnvironment reads the configuration and builds the clients. The
// session is not restored; commands that need one call restore.
func loadEnvironment() (*environment, error) {
	dir := getConfigDir()
	if err := config.EnsureConfigDir(dir); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(viper.GetViper())

	logs, err := logging.Init(dir, cfg.LogLevel, viper.GetBool("verbose"))
	if err != nil {
		return nil, err
	}

	store, err := cache.Open(filepath.Join(dir, cacheFile), cfg.CacheTTL)
	if err != nil {
		logs.Close()
		return nil, err
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	log := logging.For("cli")

	return &environment{
		dir:        dir,
		cfg:        cfg,
		log:        log,
		logs:       logs,
		cache:      store,
		backend:    api.NewClient(httpClient, cfg.BackendURL, logging.For("api")),
		lyrics:     lyrics.NewClient(httpClient, cfg.LyricsURL, cfg.LyricsToken, store, logging.For("lyrics")),
		dictionary: dictionary.NewClient(httpClient, cfg.DictionaryURL, store, logging.For("dictionary")),
		sessions:   session.NewStore(dir),
	}, nil
}

// Close releases the cache and the log file.
func (e *environment) Close() {
	if err := e.cache.Close(); err != nil {
		e.log.WithError(err).Warn("closing cache")
	}
	e.logs.Close()
}

// restore loads the stored session and verifies it with the backend.
func (e *environment) restore(ctx context.Context) error {
	sess, err := e.sessions.Restore(ctx, func(ctx context.Context, s lexis.Session) (lexis.Session, error) {
		return e.backend.WithSession(s).VerifyToken(ctx)
	})
	if err != nil {
		return err
	}
	e.session = sess
	e.log.WithField("user_id", sess.UserID).Debug("session restored")
	return nil
}

// requireSession restores the session and fails with a hint when there is none.
func (e *environment) requireSession(ctx context.Context) error {
	err := e.restore(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNoSession):
		return errors.New("not signed in; run 'lexis signin' first")
	case errors.Is(err, session.ErrExpired), errors.Is(err, api.ErrUnauthorized):
		return errors.New("your session has expired; run 'lexis signin' again")
	}
	return err
}

// newService builds the study service acting for sess.
func (e *environment) newService(sess lexis.Session) *study.Service {
	var backend study.Backend
	if sess.SignedIn() {
		backend = e.backend.WithSession(sess)
	}
	return study.NewService(backend, e.lyrics, e.dictionary, sess, e.log)
}

// service builds the study service for the restored session.
func (e *environment) service() *study.Service {
	return e.newService(e.session)
}
