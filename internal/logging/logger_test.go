package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	require.Equal(t, logrus.WarnLevel, New(&bytes.Buffer{}, "warn", false).GetLevel())
	require.Equal(t, logrus.InfoLevel, New(&bytes.Buffer{}, "loud", false).GetLevel())
	require.Equal(t, logrus.DebugLevel, New(&bytes.Buffer{}, "error", true).GetLevel())
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", false)
	l.WithField("component", "test").Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	require.Equal(t, "hello", line["msg"])
	require.Equal(t, "test", line["component"])
}

func TestInit(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	dir := t.TempDir()
	closer, err := Init(dir, "info", false)
	require.NoError(t, err)

	For("search").Info("fetched")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	require.NoError(t, err)
	require.Contains(t, string(data), `"component":"search"`)
}
