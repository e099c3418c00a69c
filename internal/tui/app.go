package tui

import (
	"path/filepath"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/llm"
	"github.com/f3rmion/lexis/internal/logging"
	"github.com/f3rmion/lexis/internal/prompt"
	"github.com/f3rmion/lexis/internal/session"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/f3rmion/lexis/internal/tui/views"
	"github.com/mattn/go-runewidth"
)

// ViewType represents the current active view
type ViewType int

const (
	ViewSearch ViewType = iota
	ViewLibrary
	ViewAccount
	ViewImport
	ViewSettings
)

// MenuItem represents a sidebar menu entry
type MenuItem struct {
	Label    string
	View     ViewType
	Shortcut string
}

// Options are the dependencies of the app.
type Options struct {
	Config    *config.Config
	ConfigDir string

	Sessions *session.Store
	Session  lexis.Session

	Auth       views.Authenticator
	NewService func(lexis.Session) *study.Service

	LLM       *llm.Client // nil disables explanations
	Generator *prompt.Generator
}

// AppModel is the main unified TUI model
type AppModel struct {
	opts    Options
	session lexis.Session

	// Layout state
	width        int
	height       int
	sidebarWidth int
	ready        bool

	// Navigation
	currentView   ViewType
	menuItems     []MenuItem
	selectedMenu  int
	sidebarActive bool

	// Sub-models (views)
	searchView   views.SearchModel
	libraryView  views.LibraryModel
	accountView  views.AccountModel
	importView   views.ImportModel
	settingsView views.SettingsModel

	// Dictionary panel, shown next to the current view
	dictView views.DictionaryModel
	dictOpen bool

	// Help overlay
	showHelp bool
}

// dictKeys go to the dictionary panel while it is open; everything else
// keeps driving the current view.
var dictKeys = map[string]bool{"s": true, "L": true, "n": true, "x": true, "esc": true}

// NewApp creates a new unified TUI application
func NewApp(opts Options) AppModel {
	if opts.Generator == nil {
		opts.Generator = prompt.NewGenerator()
	}
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	svc := opts.NewService(opts.Session)
	llmModel := ""
	if opts.LLM != nil {
		llmModel = opts.LLM.Model()
	}

	menuItems := []MenuItem{
		{Label: "Search", View: ViewSearch, Shortcut: "1"},
		{Label: "Library", View: ViewLibrary, Shortcut: "2"},
		{Label: "Account", View: ViewAccount, Shortcut: "3"},
		{Label: "Import", View: ViewImport, Shortcut: "4"},
		{Label: "Settings", View: ViewSettings, Shortcut: "5"},
	}

	return AppModel{
		opts:         opts,
		session:      opts.Session,
		sidebarWidth: 18,
		currentView:  ViewSearch,
		menuItems:    menuItems,

		searchView:   views.NewSearchModel(svc, opts.Generator, opts.LLM),
		libraryView:  views.NewLibraryModel(svc, opts.Config.Library),
		accountView:  views.NewAccountModel(opts.Auth, opts.Session),
		importView:   views.NewImportModel(svc, filepath.Join(opts.ConfigDir, "anki")),
		settingsView: views.NewSettingsModel(opts.Config, opts.ConfigDir, opts.Session, llmModel),
		dictView:     views.NewDictionaryModel(svc),
	}
}

// Init initializes the model
func (m AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Close releases resources held by the views.
func (m AppModel) Close() error {
	return m.importView.Close()
}

func (m AppModel) capturing() bool {
	if m.dictOpen && m.dictView.Capturing() {
		return true
	}
	switch m.currentView {
	case ViewSearch:
		return m.searchView.Capturing()
	case ViewAccount:
		return m.accountView.Capturing()
	}
	return false
}

// Update handles messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case views.SignedInMsg:
		if err := m.opts.Sessions.Save(msg.Session); err != nil {
			logging.For("tui").WithError(err).Warn("could not persist session")
		}
		cmd := m.applySession(msg.Session)
		return m, cmd

	case views.SignOutMsg:
		if err := m.opts.Sessions.Clear(); err != nil {
			logging.For("tui").WithError(err).Warn("could not clear session")
		}
		cmd := m.applySession(lexis.Session{})
		return m, cmd

	case views.OpenWordMsg:
		m.dictOpen = true
		m.layout()
		cmd := m.dictView.Open(msg.Word)
		return m, cmd

	case views.CloseDictionaryMsg:
		m.dictOpen = false
		m.layout()
		return m, nil

	case views.OpenSongMsg:
		m.switchView(ViewSearch)
		cmd := m.searchView.Open(msg.Title, msg.Artist)
		return m, cmd
	}

	// Async results are delivered to every view; each ignores what it
	// did not ask for.
	cmd := m.broadcast(msg)
	return m, cmd
}

func (m *AppModel) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 6)
	m.searchView, cmds[0] = m.searchView.Update(msg)
	m.libraryView, cmds[1] = m.libraryView.Update(msg)
	m.accountView, cmds[2] = m.accountView.Update(msg)
	m.importView, cmds[3] = m.importView.Update(msg)
	m.settingsView, cmds[4] = m.settingsView.Update(msg)
	m.dictView, cmds[5] = m.dictView.Update(msg)
	return tea.Batch(cmds...)
}

func (m AppModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Help overlay - any key closes it
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	var cmd tea.Cmd
	if m.capturing() {
		if m.dictOpen && m.dictView.Capturing() {
			m.dictView, cmd = m.dictView.Update(msg)
		} else {
			cmd = m.updateCurrent(msg)
		}
		return m, cmd
	}

	if m.dictOpen && dictKeys[msg.String()] {
		m.dictView, cmd = m.dictView.Update(msg)
		return m, cmd
	}

	// Global keys
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		return m, nil
	case "esc", "tab":
		m.sidebarActive = !m.sidebarActive
		return m, nil
	case "1", "2", "3", "4", "5":
		cmd = m.switchView(ViewType(msg.String()[0] - '1'))
		return m, cmd
	}

	// Sidebar navigation when active
	if m.sidebarActive {
		switch msg.String() {
		case "j", "down":
			if m.selectedMenu < len(m.menuItems)-1 {
				m.selectedMenu++
			}
		case "k", "up":
			if m.selectedMenu > 0 {
				m.selectedMenu--
			}
		case "enter", "l", "right":
			cmd = m.switchView(m.menuItems[m.selectedMenu].View)
			return m, cmd
		}
		return m, nil
	}

	cmd = m.updateCurrent(msg)
	return m, cmd
}

// updateCurrent delegates a key to the active view.
func (m *AppModel) updateCurrent(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	switch m.currentView {
	case ViewSearch:
		m.searchView, cmd = m.searchView.Update(msg)
	case ViewLibrary:
		m.libraryView, cmd = m.libraryView.Update(msg)
	case ViewAccount:
		m.accountView, cmd = m.accountView.Update(msg)
	case ViewImport:
		m.importView, cmd = m.importView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	}
	return cmd
}

func (m *AppModel) switchView(v ViewType) tea.Cmd {
	m.currentView = v
	m.sidebarActive = false
	for i, item := range m.menuItems {
		if item.View == v {
			m.selectedMenu = i
			break
		}
	}
	if v == ViewLibrary {
		return m.libraryView.Refresh()
	}
	return nil
}

// applySession rebuilds the service for sess and hands it to every view.
func (m *AppModel) applySession(sess lexis.Session) tea.Cmd {
	m.session = sess
	svc := m.opts.NewService(sess)

	m.searchView.SetService(svc)
	m.libraryView.SetService(svc)
	m.importView.SetService(svc)
	m.dictView.SetService(svc)
	m.accountView.SetSession(sess)
	m.settingsView.SetSession(sess)

	cmds := []tea.Cmd{m.searchView.Reload()}
	if m.currentView == ViewLibrary {
		cmds = append(cmds, m.libraryView.Refresh())
	}
	if m.dictOpen {
		cmds = append(cmds, m.dictView.Open(m.dictView.Word()))
	}
	return tea.Batch(cmds...)
}

func (m AppModel) contentWidth() int {
	return m.width - m.sidebarWidth - 4
}

// panelWidth is the width of the dictionary panel, 0 when closed.
func (m AppModel) panelWidth() int {
	if !m.dictOpen {
		return 0
	}
	return min(48, m.contentWidth()/2)
}

// layout sizes every view for the window and the panel state.
func (m *AppModel) layout() {
	contentHeight := m.height - 2
	viewWidth := m.contentWidth() - m.panelWidth()

	m.searchView.SetSize(viewWidth, contentHeight)
	m.libraryView.SetSize(viewWidth, contentHeight)
	m.accountView.SetSize(viewWidth, contentHeight)
	m.importView.SetSize(viewWidth, contentHeight)
	m.settingsView.SetSize(viewWidth, contentHeight)
	m.dictView.SetSize(m.panelWidth(), contentHeight)
}

// View renders the UI
func (m AppModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	sidebar := m.renderSidebar()

	var content string
	switch m.currentView {
	case ViewSearch:
		content = m.searchView.View()
	case ViewLibrary:
		content = m.libraryView.View()
	case ViewAccount:
		content = m.accountView.View()
	case ViewImport:
		content = m.importView.View()
	case ViewSettings:
		content = m.settingsView.View()
	}

	if m.dictOpen {
		viewWidth := m.contentWidth() - m.panelWidth()
		content = lipgloss.JoinHorizontal(lipgloss.Top,
			lipgloss.NewStyle().Width(viewWidth).Render(content),
			m.dictView.View(),
		)
	}

	mainContent := contentStyle.
		Width(m.contentWidth()).
		Height(m.height - 2).
		Render(content)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, mainContent)
}

// renderSidebar renders the sidebar navigation
func (m AppModel) renderSidebar() string {
	var items []string

	items = append(items, brandStyle.Render("  ♪ Lexis  "))
	items = append(items, "")

	for i, item := range m.menuItems {
		label := item.Shortcut + ". " + item.Label

		var style lipgloss.Style
		switch {
		case i == m.selectedMenu && m.sidebarActive:
			style = menuFocusStyle
		case i == m.selectedMenu:
			// Indicate current view but not focused
			style = menuCurrentStyle
		default:
			style = menuStyle
		}

		items = append(items, style.Render(label))
	}

	// Spacer
	usedHeight := len(items) + 6
	for i := 0; i < m.height-usedHeight-2; i++ {
		items = append(items, "")
	}

	user := "signed out"
	if m.session.SignedIn() {
		user = m.session.Email
		if user == "" {
			user = "signed in"
		}
	}
	items = append(items, accountStyle.Render(truncateCells(user, m.sidebarWidth-2)))
	items = append(items, hintStyle.Render("? Help  q Quit"))

	content := lipgloss.JoinVertical(lipgloss.Left, items...)

	return sidebarStyle.
		Width(m.sidebarWidth).
		Height(m.height - 2).
		Render(content)
}

func truncateCells(s string, width int) string {
	if width < 2 {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// renderHelp renders the help overlay
func (m AppModel) renderHelp() string {
	row := func(key, desc string) string {
		return helpKeyStyle.Render(key) + helpDescStyle.Render(desc) + "\n"
	}

	helpText := helpTitleStyle.Render("Lexis - learn words from lyrics") + "\n\n"

	helpText += helpSectionStyle.Render("Global Keys") + "\n"
	helpText += row("1-5", "Switch views")
	helpText += row("tab/esc", "Toggle sidebar focus")
	helpText += row("?", "Show this help")
	helpText += row("q", "Quit")

	helpText += helpSectionStyle.Render("Search View") + "\n"
	helpText += row("/", "Edit song and artist")
	helpText += row("←/→ h/l", "Previous/next word")
	helpText += row("↑/↓ k/j", "Previous/next line")
	helpText += row("enter", "Define word")
	helpText += row("S", "Save/remove song")
	helpText += row("e", "Explain line")
	helpText += row("y", "Copy word")

	helpText += helpSectionStyle.Render("Dictionary Panel") + "\n"
	helpText += row("s", "Save/unsave word")
	helpText += row("L", "Toggle learned")
	helpText += row("n / x", "Edit/clear note")
	helpText += row("esc", "Close panel")

	helpText += helpSectionStyle.Render("Library View") + "\n"
	helpText += row("←/→", "Songs/words")
	helpText += row("t a w L d", "Sort by title, artist, word, learned, date")
	helpText += row("enter", "Open song or word")
	helpText += row("x", "Remove")

	helpText += "\n" + helpFooterStyle.Render("Press any key to close")

	helpBox := helpBoxStyle.Render(helpText)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, helpBox)
}
