// Package config handles loading and saving user configuration for LyricsLexis.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration for LyricsLexis.
type Config struct {
	BackendURL     string        `yaml:"backend_url" mapstructure:"backend_url"`         // First-party API for accounts and saved items
	LyricsURL      string        `yaml:"lyrics_url" mapstructure:"lyrics_url"`           // Lyrics lookup service
	LyricsToken    string        `yaml:"lyrics_token" mapstructure:"lyrics_token"`       // Sent as-is in the Authorization header
	DictionaryURL  string        `yaml:"dictionary_url" mapstructure:"dictionary_url"`   // dictionaryapi.dev compatible endpoint
	AnthropicModel string        `yaml:"anthropic_model" mapstructure:"anthropic_model"` // Model used to explain lyric lines
	CacheTTL       time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`             // How long lookups stay cached
	Timeout        time.Duration `yaml:"timeout" mapstructure:"timeout"`                 // HTTP timeout for every client
	LogLevel       string        `yaml:"log_level" mapstructure:"log_level"`             // logrus level name
	Library        LibraryConfig `yaml:"library" mapstructure:"library"`
}

// LibraryConfig holds the initial sort selectors of the library view.
type LibraryConfig struct {
	SongSort  string `yaml:"song_sort" mapstructure:"song_sort"`
	SongOrder string `yaml:"song_order" mapstructure:"song_order"`
	WordSort  string `yaml:"word_sort" mapstructure:"word_sort"`
	WordOrder string `yaml:"word_order" mapstructure:"word_order"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		BackendURL:     "http://localhost:8080",
		LyricsURL:      "https://api.some-random-api.com",
		DictionaryURL:  "https://api.dictionaryapi.dev/api/v2/entries/en",
		AnthropicModel: "claude-sonnet-4-20250514",
		CacheTTL:       24 * time.Hour,
		Timeout:        15 * time.Second,
		LogLevel:       "info",
		Library: LibraryConfig{
			SongSort:  "createdAt",
			SongOrder: "desc",
			WordSort:  "createdAt",
			WordOrder: "desc",
		},
	}
}

// Load reads config.yaml from dir on top of the defaults. A missing file is
// not an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Save writes cfg to config.yaml in dir.
func Save(dir string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides cfg with values bound in v, such as LEXIS_BACKEND_URL
// or command line flags.
func (c *Config) ApplyEnv(v *viper.Viper) {
	setString := func(key string, dst *string) {
		if v.IsSet(key) && v.GetString(key) != "" {
			*dst = v.GetString(key)
		}
	}
	setString("backend_url", &c.BackendURL)
	setString("lyrics_url", &c.LyricsURL)
	setString("lyrics_token", &c.LyricsToken)
	setString("dictionary_url", &c.DictionaryURL)
	setString("anthropic_model", &c.AnthropicModel)
	setString("log_level", &c.LogLevel)

	if v.IsSet("cache_ttl") {
		if d := v.GetDuration("cache_ttl"); d > 0 {
			c.CacheTTL = d
		}
	}
	if v.IsSet("timeout") {
		if d := v.GetDuration("timeout"); d > 0 {
			c.Timeout = d
		}
	}
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lexis"), nil
}

// EnsureConfigDir creates dir if it doesn't exist.
func EnsureConfigDir(dir string) error {
	return os.MkdirAll(dir, 0755)
}
