package views

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/clipboard"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/session"
)

// Settings view styles
var (
	settingsTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FF6B6B")).
				MarginBottom(1)

	settingsPathStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#666666")).
				Italic(true).
				MarginBottom(1)

	settingsKeyStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#a8dadc")).
				Bold(true).
				Width(18)

	settingsRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#f1faee"))
)

var settingsTabs = []string{"General", "Library", "Session"}

// SettingsModel shows the effective configuration. It is read-only; edit
// config.yaml to change values.
type SettingsModel struct {
	config    *config.Config
	configDir string
	session   lexis.Session
	llmModel  string // empty when no API key is set

	tab int

	width  int
	height int
}

// NewSettingsModel creates a new settings model.
func NewSettingsModel(cfg *config.Config, configDir string, sess lexis.Session, llmModel string) SettingsModel {
	return SettingsModel{
		config:    cfg,
		configDir: configDir,
		session:   sess,
		llmModel:  llmModel,
	}
}

// SetSession updates the session shown.
func (m *SettingsModel) SetSession(sess lexis.Session) {
	m.session = sess
}

// SetSize updates the view dimensions.
func (m *SettingsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages.
func (m SettingsModel) Update(msg tea.Msg) (SettingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "right", "l":
			m.tab = (m.tab + 1) % len(settingsTabs)
		case "left", "h":
			m.tab = (m.tab + len(settingsTabs) - 1) % len(settingsTabs)
		}
	}
	return m, nil
}

// View renders the settings view.
func (m SettingsModel) View() string {
	var b strings.Builder

	b.WriteString(settingsTitleStyle.Render("Lexis Configuration"))
	b.WriteString("\n")
	b.WriteString(settingsPathStyle.Render("Config: " + m.configDir))
	b.WriteString("\n\n")

	var tabViews []string
	for i, t := range settingsTabs {
		style := tabStyle
		if i == m.tab {
			style = tabActiveStyle
		}
		tabViews = append(tabViews, style.Render(t))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabViews...))
	b.WriteString("\n")
	b.WriteString(dividerStyle.Render(strings.Repeat("─", min(max(m.width-4, 10), 60))))
	b.WriteString("\n\n")

	var rows [][2]string
	switch m.tab {
	case 0:
		rows = m.generalRows()
	case 1:
		rows = m.libraryRows()
	case 2:
		rows = m.sessionRows()
	}
	for _, r := range rows {
		b.WriteString(settingsKeyStyle.Render(r[0]) + settingsRowStyle.Render(r[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→: switch tabs • edit config.yaml or set LEXIS_* to change"))
	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}

func (m SettingsModel) generalRows() [][2]string {
	if m.config == nil {
		return [][2]string{{"config", "(not loaded)"}}
	}
	c := m.config

	token := "(none)"
	if c.LyricsToken != "" {
		token = "set"
	}
	llmModel := "disabled (ANTHROPIC_API_KEY not set)"
	if m.llmModel != "" {
		llmModel = m.llmModel
	}
	clip := "available"
	if !clipboard.Available() {
		clip = "unavailable"
	}

	return [][2]string{
		{"Backend", c.BackendURL},
		{"Lyrics API", c.LyricsURL},
		{"Lyrics token", token},
		{"Dictionary API", c.DictionaryURL},
		{"Explanations", llmModel},
		{"Cache TTL", c.CacheTTL.String()},
		{"Request timeout", c.Timeout.String()},
		{"Log level", c.LogLevel},
		{"Clipboard", clip},
	}
}

func (m SettingsModel) libraryRows() [][2]string {
	if m.config == nil {
		return nil
	}
	l := m.config.Library
	return [][2]string{
		{"Songs sorted by", l.SongSort + " " + l.SongOrder},
		{"Words sorted by", l.WordSort + " " + l.WordOrder},
	}
}

func (m SettingsModel) sessionRows() [][2]string {
	if !m.session.SignedIn() {
		return [][2]string{{"Status", "signed out"}}
	}
	rows := [][2]string{
		{"Status", "signed in"},
		{"Email", orNone(m.session.Email)},
		{"User ID", m.session.UserID},
	}
	if exp, ok := session.ExpiresAt(m.session.Token); ok {
		rows = append(rows, [2]string{"Token expires", exp.Local().Format(time.RFC1123)})
	}
	return rows
}
