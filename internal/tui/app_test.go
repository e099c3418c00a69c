package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/f3rmion/lexis/internal/tui/views"
	"github.com/stretchr/testify/require"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestApp(t *testing.T) (AppModel, *session.Store, *[]lexis.Session) {
	t.Helper()
	dir := t.TempDir()
	store := session.NewStore(dir)

	var built []lexis.Session
	app := NewApp(Options{
		Config:    config.Default(),
		ConfigDir: dir,
		Sessions:  store,
		NewService: func(s lexis.Session) *study.Service {
			built = append(built, s)
			return study.NewService(nil, nil, nil, s, nil)
		},
	})
	return app, store, &built
}

func update(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func TestAppNavigation(t *testing.T) {
	m, _, _ := newTestApp(t)
	require.Equal(t, "Loading...", m.View())

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	require.Contains(t, m.View(), "Lexis")
	require.Equal(t, ViewSearch, m.currentView)

	// The song input has focus; digits are typed, not view switches.
	m, _ = update(t, m, keyMsg("2"))
	require.Equal(t, ViewSearch, m.currentView)

	m, _ = update(t, m, keyMsg("esc"))
	m, cmd := update(t, m, keyMsg("2"))
	require.Equal(t, ViewLibrary, m.currentView)
	require.Nil(t, cmd, "signed out library does not load")
	require.Contains(t, m.View(), "Sign in")

	m, _ = update(t, m, keyMsg("tab"))
	require.True(t, m.sidebarActive)
	m, _ = update(t, m, keyMsg("j"))
	m, _ = update(t, m, keyMsg("j"))
	m, _ = update(t, m, keyMsg("enter"))
	require.Equal(t, ViewImport, m.currentView)
	require.False(t, m.sidebarActive)
}

func TestAppHelpAndQuit(t *testing.T) {
	m, _, _ := newTestApp(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = update(t, m, keyMsg("esc"))

	m, _ = update(t, m, keyMsg("?"))
	require.True(t, m.showHelp)
	require.Contains(t, m.View(), "Press any key to close")

	m, cmd := update(t, m, keyMsg("q"))
	require.False(t, m.showHelp)
	require.Nil(t, cmd)

	_, cmd = update(t, m, keyMsg("q"))
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
}

func TestAppSession(t *testing.T) {
	m, store, built := newTestApp(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	sess := lexis.Session{UserID: "u1", Token: "tok", Email: "ada@example.com"}
	m, _ = update(t, m, views.SignedInMsg{Session: sess})

	saved, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, sess, saved)
	require.Equal(t, sess, (*built)[len(*built)-1])
	require.Contains(t, m.renderSidebar(), "ada@example.com")

	m, _ = update(t, m, views.SignOutMsg{})
	_, err = store.Load()
	require.ErrorIs(t, err, session.ErrNoSession)
	require.False(t, m.session.SignedIn())
	require.Contains(t, m.renderSidebar(), "signed out")
}

func TestAppDictionaryPanel(t *testing.T) {
	m, _, _ := newTestApp(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	full := m.contentWidth()

	m, cmd := update(t, m, views.OpenWordMsg{Word: "ache"})
	require.NotNil(t, cmd)
	require.True(t, m.dictOpen)
	require.Equal(t, "ache", m.dictView.Word())
	require.Equal(t, min(48, full/2), m.panelWidth())

	m, _ = update(t, m, views.CloseDictionaryMsg{})
	require.False(t, m.dictOpen)
	require.Zero(t, m.panelWidth())
}

func TestTruncateCells(t *testing.T) {
	require.Equal(t, "short", truncateCells("short", 10))
	require.Equal(t, "someone@exa…", truncateCells("someone@example.com", 12))
}
