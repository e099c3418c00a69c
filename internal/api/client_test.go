package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/stretchr/testify/require"
)

var testSession = lexis.Session{UserID: "u1", Token: "tok"}

// newTestClient starts a server running handler and returns a client for it
// authenticated as testSession.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL+"/", nil).WithSession(testSession)
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestSignIn(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/signin", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]string{"email": "a@b.co", "password": "secret1"}, body)

		writeJSON(t, w, http.StatusOK, map[string]string{"userId": "42", "token": "jwt"})
	})

	s, err := c.SignIn(context.Background(), "a@b.co", "secret1")
	require.NoError(t, err)
	require.Equal(t, lexis.Session{UserID: "42", Token: "jwt", Email: "a@b.co"}, s)
}

func TestSignInRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})

	_, err := c.SignIn(context.Background(), "a@b.co", "wrong!")
	require.ErrorIs(t, err, ErrUnauthorized)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, "Invalid credentials", se.Message)
}

func TestSignUp(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Ada", body["first_name"])
		require.Equal(t, "secret1", body["confirm_password"])
		w.WriteHeader(http.StatusCreated)
	})

	err := c.SignUp(context.Background(), SignUpRequest{
		FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
}

func TestVerifyToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/verify-token", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		writeJSON(t, w, http.StatusOK, map[string]string{"userId": "u1"})
	})

	s, err := c.VerifyToken(context.Background())
	require.NoError(t, err)
	require.Equal(t, "u1", s.UserID)
	require.Equal(t, "tok", s.Token)

	_, err = c.WithSession(lexis.Session{}).VerifyToken(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestWords(t *testing.T) {
	created := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	saved := []lexis.SavedWord{{Word: "don't", Learned: true, Note: "contraction", CreatedAt: created}}

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		switch r.Method + " " + r.URL.EscapedPath() {
		case "GET /users/u1/words/":
			writeJSON(t, w, http.StatusOK, saved)
		case "GET /users/u1/words/don%27t", "GET /users/u1/words/don't":
			writeJSON(t, w, http.StatusOK, saved[0])
		case "GET /users/u1/words/missing":
			writeJSON(t, w, http.StatusNotFound, map[string]string{"message": "Word not found"})
		case "POST /users/u1/words":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "Love", body["word"])
			writeJSON(t, w, http.StatusCreated, append(saved, lexis.SavedWord{Word: "love"}))
		case "DELETE /users/u1/words/love":
			writeJSON(t, w, http.StatusOK, saved)
		case "PATCH /users/u1/words/love":
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if v, ok := body["note"]; ok {
				require.Equal(t, "a feeling", v)
			} else {
				require.Equal(t, true, body["learned"])
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.EscapedPath())
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	list, err := c.ListWords(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, list)

	got, found, err := c.GetWord(ctx, "Don't")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, saved[0], got)

	_, found, err = c.GetWord(ctx, "missing")
	require.NoError(t, err)
	require.False(t, found)

	list, err = c.SaveWord(ctx, "Love")
	require.NoError(t, err)
	require.Len(t, list, 2)

	list, err = c.DeleteWord(ctx, "Love")
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.SetLearned(ctx, "LOVE", true))
	require.NoError(t, c.SetNote(ctx, "love", "  a feeling \n"))
}

func TestSongs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.EscapedPath() {
		case "GET /users/u1/songs/":
			writeJSON(t, w, http.StatusOK, []lexis.SavedSong{{Title: "Hurt", Artist: "Johnny Cash"}})
		case "GET /users/u1/songs/Johnny%20Cash/Hurt":
			w.WriteHeader(http.StatusOK)
		case "GET /users/u1/songs/AC%2FDC/Thunderstruck":
			w.WriteHeader(http.StatusNotFound)
		case "POST /users/u1/songs":
			var song lexis.Song
			require.NoError(t, json.NewDecoder(r.Body).Decode(&song))
			require.Equal(t, "Hurt", song.Title)
			w.WriteHeader(http.StatusCreated)
		case "DELETE /users/u1/songs/Johnny%20Cash/Hurt":
			w.WriteHeader(http.StatusNoContent)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.EscapedPath())
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()

	songs, err := c.ListSongs(ctx)
	require.NoError(t, err)
	require.Equal(t, "Johnny Cash", songs[0].Artist)

	ok, err := c.HasSong(ctx, "Johnny Cash", "Hurt")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = c.HasSong(ctx, "AC/DC", "Thunderstruck")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, c.SaveSong(ctx, lexis.Song{Title: "Hurt", Artist: "Johnny Cash", Lyrics: "..."}))
	require.NoError(t, c.DeleteSong(ctx, "Johnny Cash", "Hurt"))
}

func TestUserPathEscapesID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/a%2Fb%20c/words/", r.URL.EscapedPath())
		writeJSON(t, w, http.StatusOK, []lexis.SavedWord{})
	}))
	t.Cleanup(srv.Close)

	c := NewClient(srv.Client(), srv.URL+"/", nil).WithSession(lexis.Session{UserID: "a/b c", Token: "tok"})
	_, err := c.ListWords(context.Background())
	require.NoError(t, err)
}

func TestUserEndpointsNeedSession(t *testing.T) {
	c := NewClient(nil, "http://127.0.0.1:0", nil)

	_, err := c.ListWords(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	_, err = c.HasSong(context.Background(), "a", "b")
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ListSongs(context.Background())
	var se *StatusError
	require.ErrorAs(t, err, &se)
	require.Equal(t, http.StatusInternalServerError, se.Status)
	require.NotErrorIs(t, err, ErrNotFound)
}
