// Package views provides the individual views for the unified TUI.
package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lexis/internal/lexis"
)

const requestTimeout = 30 * time.Second

// SignedInMsg is sent by the account view after a successful sign in.
type SignedInMsg struct {
	Session lexis.Session
}

// SignOutMsg asks the app to forget the current session.
type SignOutMsg struct{}

// SessionChangedMsg is broadcast after the session was replaced.
type SessionChangedMsg struct {
	Session lexis.Session
}

// WordsChangedMsg carries the user's saved words after a change.
type WordsChangedMsg struct {
	Words []lexis.SavedWord
}

// OpenWordMsg asks the app to open a word in the dictionary panel.
type OpenWordMsg struct {
	Word string
}

// OpenSongMsg asks the app to show a song in the search view.
type OpenSongMsg struct {
	Title  string
	Artist string
}

// CloseDictionaryMsg is sent when the dictionary panel is dismissed.
type CloseDictionaryMsg struct{}

type clearStatusMsg struct{}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}
