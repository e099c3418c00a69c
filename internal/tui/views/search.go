package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/annotate"
	"github.com/f3rmion/lexis/internal/clipboard"
	"github.com/f3rmion/lexis/internal/llm"
	"github.com/f3rmion/lexis/internal/lyrics"
	"github.com/f3rmion/lexis/internal/prompt"
	"github.com/f3rmion/lexis/internal/study"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			Background(lipgloss.Color("#1a1a2e")).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true).
			Width(8)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1a1a2e")).
			Background(lipgloss.Color("#ffe66d")).
			Bold(true).
			Padding(0, 1)

	explainBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)

	dividerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3d5a80"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ff6b6b")).
			Bold(true)

	loadingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true).
			Italic(true)

	copiedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8e6cf")).
			Bold(true)
)

const (
	inputSong = iota
	inputArtist
)

// Message types
type songLoadedMsg struct {
	page study.Page
	err  error
}

type songToggledMsg struct {
	saved bool
	err   error
}

type explainedMsg struct {
	text string
	err  error
}

// SearchModel is the lyrics search and reading view.
type SearchModel struct {
	service   *study.Service
	generator *prompt.Generator
	llmClient *llm.Client

	inputs  []textinput.Model
	focus   int
	editing bool

	spinner spinner.Model
	loading bool

	page     study.Page
	loaded   bool
	cursor   wordCursor
	viewport viewport.Model

	explaining  bool
	explanation string

	status string
	err    error

	width  int
	height int
}

// NewSearchModel creates a new search view model. llmClient may be nil.
func NewSearchModel(svc *study.Service, gen *prompt.Generator, llmClient *llm.Client) SearchModel {
	newInput := func(placeholder string) textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		ti.Width = 40
		ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ecdc4"))
		ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffe66d"))
		return ti
	}

	inputs := []textinput.Model{
		newInput("Song title..."),
		newInput("Artist (optional)..."),
	}
	inputs[inputSong].Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return SearchModel{
		service:   svc,
		generator: gen,
		llmClient: llmClient,
		inputs:    inputs,
		editing:   true,
		spinner:   sp,
		viewport:  viewport.New(40, 10),
	}
}

// SetService replaces the service after the session changed.
func (m *SearchModel) SetService(svc *study.Service) {
	m.service = svc
}

// SetSize updates the view dimensions.
func (m *SearchModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	for i := range m.inputs {
		m.inputs[i].Width = min(40, max(10, width-12))
	}
	m.refresh()
}

// Capturing reports whether keys should go to a text input.
func (m SearchModel) Capturing() bool {
	return m.editing
}

// Open fills the inputs and fetches the song.
func (m *SearchModel) Open(title, artist string) tea.Cmd {
	m.inputs[inputSong].SetValue(title)
	m.inputs[inputArtist].SetValue(artist)
	return m.search()
}

// Reload fetches the open song again, picking up the current session.
func (m *SearchModel) Reload() tea.Cmd {
	if !m.loaded {
		return nil
	}
	return m.Open(m.inputs[inputSong].Value(), m.inputs[inputArtist].Value())
}

func (m *SearchModel) search() tea.Cmd {
	query := lyrics.Query(m.inputs[inputSong].Value(), m.inputs[inputArtist].Value())
	if query == "" {
		m.err = lyrics.ErrEmptyQuery
		return nil
	}

	m.loading = true
	m.err = nil
	m.explanation = ""
	svc := m.service
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		page, err := svc.Open(ctx, query)
		return songLoadedMsg{page: page, err: err}
	})
}

func (m *SearchModel) setEditing(editing bool) {
	m.editing = editing
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	if editing {
		m.inputs[m.focus].Focus()
	}
}

// Update handles messages.
func (m SearchModel) Update(msg tea.Msg) (SearchModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading && !m.explaining {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case songLoadedMsg:
		m.loading = false
		if msg.err != nil {
			if errors.Is(msg.err, lyrics.ErrNotFound) {
				m.err = fmt.Errorf("no lyrics found for %q", lyrics.Query(m.inputs[inputSong].Value(), m.inputs[inputArtist].Value()))
			} else {
				m.err = msg.err
			}
			return m, nil
		}
		keep := m.loaded && m.page.Song.Title == msg.page.Song.Title && m.page.Song.Artist == msg.page.Song.Artist
		index := m.cursor.index
		m.page = msg.page
		m.loaded = true
		m.cursor = newWordCursor(m.page.Result.Document)
		if keep && index < len(m.cursor.positions) {
			m.cursor.index = index
		} else {
			m.viewport.GotoTop()
		}
		m.setEditing(false)
		m.refresh()
		return m, nil

	case WordsChangedMsg:
		if m.loaded {
			m.page = study.Reannotate(m.page, msg.Words)
			m.refresh()
		}
		return m, nil

	case songToggledMsg:
		if msg.err != nil {
			m.err = signInHint(msg.err, "save songs")
			return m, nil
		}
		m.page.SongSaved = msg.saved
		if msg.saved {
			m.status = "Song saved to your library"
		} else {
			m.status = "Song removed from your library"
		}
		return m, clearStatusAfter(2 * time.Second)

	case explainedMsg:
		m.explaining = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.explanation = msg.text
		}
		m.refresh()
		return m, nil

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateInputs(msg)
		}
		return m.updateReader(msg)
	}

	return m, nil
}

func (m SearchModel) updateInputs(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.setEditing(false)
		return m, nil
	case "tab", "shift+tab", "up", "down":
		m.focus = (m.focus + 1) % len(m.inputs)
		m.setEditing(true)
		return m, nil
	case "enter":
		cmd := m.search()
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m SearchModel) updateReader(msg tea.KeyMsg) (SearchModel, tea.Cmd) {
	switch msg.String() {
	case "/", "i":
		m.setEditing(true)
		return m, textinput.Blink
	}
	if !m.loaded {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		m.cursor.prev()
	case "right", "l":
		m.cursor.next()
	case "up", "k":
		m.cursor.prevLine()
	case "down", "j":
		m.cursor.nextLine()
	case "pgdown", "ctrl+d":
		m.viewport.SetYOffset(m.viewport.YOffset + m.viewport.Height/2)
		return m, nil
	case "pgup", "ctrl+u":
		m.viewport.SetYOffset(m.viewport.YOffset - m.viewport.Height/2)
		return m, nil
	case "enter":
		if word, ok := m.currentWord(); ok {
			return m, emit(OpenWordMsg{Word: word})
		}
		return m, nil
	case "S":
		return m, m.toggleSong()
	case "e":
		if m.explaining {
			return m, nil
		}
		cmd, err := m.explain()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.explaining = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, cmd)
	case "E":
		m.explanation = ""
	case "y":
		if word, ok := m.currentWord(); ok {
			if err := clipboard.Write(word); err != nil {
				m.err = err
				return m, nil
			}
			m.status = fmt.Sprintf("Copied %q", word)
			return m, clearStatusAfter(2 * time.Second)
		}
		return m, nil
	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m SearchModel) currentWord() (string, bool) {
	pos, ok := m.cursor.current()
	if !ok {
		return "", false
	}
	return m.page.Result.Document.Token(pos).Text, true
}

func (m SearchModel) toggleSong() tea.Cmd {
	svc := m.service
	song := m.page.Song
	saved := m.page.SongSaved
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		saved, err := svc.ToggleSong(ctx, song, saved)
		return songToggledMsg{saved: saved, err: err}
	}
}

func (m SearchModel) explain() (tea.Cmd, error) {
	if m.llmClient == nil {
		return nil, llm.ErrNoAPIKey
	}
	pos, ok := m.cursor.current()
	if !ok {
		return nil, errors.New("nothing to explain")
	}

	doc := m.page.Result.Document
	word := doc.Token(pos).Text

	data := prompt.LineData{
		Title:   m.page.Song.Title,
		Artist:  m.page.Song.Artist,
		Line:    doc.LineText(pos),
		Word:    word,
		Context: doc.Context(pos, 2),
	}
	if saved, ok := annotate.NewIndex(m.page.Words).Lookup(word); ok {
		data.Note = saved.Note
	}

	text, err := m.generator.Generate(data)
	if err != nil {
		return nil, err
	}

	client := m.llmClient
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		out, err := client.Complete(ctx, text)
		return explainedMsg{text: out, err: err}
	}, nil
}

// refresh re-renders the lyrics into the viewport and keeps the cursor visible.
func (m *SearchModel) refresh() {
	m.viewport.Width = max(10, m.width)
	m.viewport.Height = m.lyricsHeight()
	if !m.loaded {
		m.viewport.SetContent("")
		return
	}

	var cursor *annotate.Position
	if pos, ok := m.cursor.current(); ok {
		cursor = &pos
	}
	content, row := renderLyrics(m.page.Result.Document, cursor)
	if m.page.Result.Document.Empty() {
		content = mutedStyle.Render("(this song has no lyrics)")
	}
	m.viewport.SetContent(content)

	if row >= 0 {
		if row < m.viewport.YOffset {
			m.viewport.SetYOffset(row)
		} else if row >= m.viewport.YOffset+m.viewport.Height {
			m.viewport.SetYOffset(row - m.viewport.Height + 1)
		}
	}
}

func (m SearchModel) explanationView() string {
	if m.explanation == "" {
		return ""
	}
	return explainBoxStyle.Width(max(20, m.width-4)).Render(wrapParagraphs(m.explanation, max(16, m.width-8)))
}

func (m SearchModel) lyricsHeight() int {
	// title, two inputs, song header, saved words, divider, status, help
	h := m.height - 10
	if ex := m.explanationView(); ex != "" {
		h -= lipgloss.Height(ex)
	}
	return max(3, h)
}

// View renders the search view.
func (m SearchModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Lyrics"))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Song") + m.inputs[inputSong].View())
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Artist") + m.inputs[inputArtist].View())
	b.WriteString("\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Fetching lyrics..."))
		b.WriteString("\n")
	case m.loaded:
		b.WriteString(m.renderHeader())
		b.WriteString(dividerStyle.Render(strings.Repeat("─", min(max(m.width-4, 10), 60))))
		b.WriteString("\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
	}

	if m.explaining {
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Explaining line..."))
		b.WriteString("\n")
	} else if ex := m.explanationView(); ex != "" {
		b.WriteString(ex)
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(errorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(copiedStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpText()))
	return b.String()
}

func (m SearchModel) renderHeader() string {
	song := m.page.Song
	header := subtitleStyle.Bold(true).Render(song.Title)
	if song.Artist != "" {
		header += valueStyle.Render(" · " + song.Artist)
	}
	if m.page.SongSaved {
		header += " " + badgeStyle.Render("♥ library")
	}

	words := m.page.Result.SongSavedWords
	saved := mutedStyle.Render("No saved words in this song")
	if len(words) > 0 {
		list := make([]string, len(words))
		for i, w := range words {
			list[i] = w.Word
		}
		saved = savedWordStyle.UnsetUnderline().Render(fmt.Sprintf("%d saved: ", len(words))) +
			valueStyle.Render(truncate(strings.Join(list, ", "), max(10, m.width-14)))
	}
	return header + "\n" + saved + "\n"
}

func (m SearchModel) helpText() string {
	if m.editing {
		return "enter: search • tab: next field • esc: read lyrics"
	}
	if !m.loaded {
		return "/: search"
	}
	parts := []string{"←/→: word", "↑/↓: line", "enter: define", "S: save song", "e: explain"}
	if m.explanation != "" {
		parts = append(parts, "E: hide")
	}
	parts = append(parts, "y: copy", "/: search")
	return strings.Join(parts, " • ")
}

// signInHint rewrites signed-out errors into a hint for the user.
func signInHint(err error, action string) error {
	if study.IsSignedOut(err) {
		return fmt.Errorf("sign in (view 3) to %s", action)
	}
	return err
}
