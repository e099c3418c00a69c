package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lexis")

	cfg := Default()
	cfg.BackendURL = "https://lexis.example"
	cfg.CacheTTL = time.Hour
	cfg.Library.WordSort = "learned"
	require.NoError(t, Save(dir, cfg))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, cfg, got)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("lyrics_token: secret\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, "secret", cfg.LyricsToken)
	require.Equal(t, Default().DictionaryURL, cfg.DictionaryURL)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("backend_url: [unclosed"), 0644))

	_, err := Load(dir)
	require.ErrorContains(t, err, "parsing config file")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("LEXIS_BACKEND_URL", "https://env.example")
	t.Setenv("LEXIS_CACHE_TTL", "90m")

	v := viper.New()
	v.SetEnvPrefix("LEXIS")
	v.AutomaticEnv()
	require.NoError(t, v.BindEnv("backend_url"))
	require.NoError(t, v.BindEnv("cache_ttl"))
	require.NoError(t, v.BindEnv("lyrics_token"))

	cfg := Default()
	cfg.ApplyEnv(v)
	require.Equal(t, "https://env.example", cfg.BackendURL)
	require.Equal(t, 90*time.Minute, cfg.CacheTTL)
	require.Equal(t, "", cfg.LyricsToken)
}
