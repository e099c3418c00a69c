package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "k", r.Header.Get("x-api-key"))
		require.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var req request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, defaultModel, req.Model)
		require.Equal(t, "explain", req.Messages[0].Content)

		w.Write([]byte(`{"content":[{"type":"text","text":" It means pain. "}]}`))
	}))
	defer srv.Close()

	c := newClient("k", "", srv.URL, srv.Client())
	out, err := c.Complete(context.Background(), "explain")
	require.NoError(t, err)
	require.Equal(t, "It means pain.", out)
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`))
	}))
	defer srv.Close()

	_, err := newClient("bad", "m", srv.URL, srv.Client()).Complete(context.Background(), "x")
	require.ErrorContains(t, err, "invalid x-api-key")
}

func TestNewClientNeedsKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewClient("")
	require.ErrorIs(t, err, ErrNoAPIKey)

	t.Setenv("ANTHROPIC_API_KEY", " key\n")
	c, err := NewClient("custom")
	require.NoError(t, err)
	require.Equal(t, "custom", c.Model())
	require.Equal(t, "key", c.apiKey)
}
