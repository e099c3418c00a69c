package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/config"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/library"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/mattn/go-runewidth"
)

var (
	tabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 2)

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#a8dadc"))

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f1faee"))

	rowSelectedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#ffe66d")).
				Background(lipgloss.Color("#2d3436"))

	sortActiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Bold(true)
)

const (
	tabSongs = iota
	tabWords
)

type libraryLoadedMsg struct {
	songs []lexis.SavedSong
	words []lexis.SavedWord
	err   error
}

type songRemovedMsg struct {
	title string
	err   error
}

// sortState is the active selector of one collection.
type sortState struct {
	field library.Field
	order library.Order
}

func newSortState(field, order string) sortState {
	s := sortState{field: library.FieldCreatedAt, order: library.Desc}
	if f, err := library.ParseField(field); err == nil {
		s.field = f
	}
	if o, err := library.ParseOrder(order); err == nil {
		s.order = o
	}
	return s
}

func (s sortState) pick(f library.Field) sortState {
	s.field, s.order = library.Toggle(s.field, s.order, f)
	return s
}

// LibraryModel lists the user's saved songs and words.
type LibraryModel struct {
	service *study.Service

	tab      int
	songs    []lexis.SavedSong
	words    []lexis.SavedWord
	sorts    [2]sortState
	selected [2]int
	offset   [2]int

	loading bool
	spinner spinner.Model

	status string
	err    error

	width  int
	height int
}

// NewLibraryModel creates a new library view model.
func NewLibraryModel(svc *study.Service, cfg config.LibraryConfig) LibraryModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return LibraryModel{
		service: svc,
		spinner: sp,
		sorts: [2]sortState{
			tabSongs: newSortState(cfg.SongSort, cfg.SongOrder),
			tabWords: newSortState(cfg.WordSort, cfg.WordOrder),
		},
	}
}

// SetService replaces the service after the session changed.
func (m *LibraryModel) SetService(svc *study.Service) {
	m.service = svc
	m.songs, m.words = nil, nil
	m.selected, m.offset = [2]int{}, [2]int{}
}

// SetSize updates the view dimensions.
func (m *LibraryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Refresh reloads both collections.
func (m *LibraryModel) Refresh() tea.Cmd {
	if m.service == nil || !m.service.SignedIn() {
		return nil
	}
	m.loading = true
	m.err = nil
	svc := m.service
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		songs, err := svc.Songs(ctx)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		words, err := svc.Words(ctx)
		return libraryLoadedMsg{songs: songs, words: words, err: err}
	})
}

func (m LibraryModel) sortedSongs() []lexis.SavedSong {
	s := m.sorts[tabSongs]
	return library.Sort(m.songs, s.field, s.order)
}

func (m LibraryModel) sortedWords() []lexis.SavedWord {
	s := m.sorts[tabWords]
	return library.Sort(m.words, s.field, s.order)
}

func (m LibraryModel) count() int {
	if m.tab == tabSongs {
		return len(m.songs)
	}
	return len(m.words)
}

// Update handles messages.
func (m LibraryModel) Update(msg tea.Msg) (LibraryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case libraryLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.songs, m.words = msg.songs, msg.words
		m.clampSelection()
		return m, nil

	case WordsChangedMsg:
		m.words = msg.Words
		m.clampSelection()
		return m, nil

	case songRemovedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.status = fmt.Sprintf("Removed %q", msg.title)
		cmd := m.Refresh()
		return m, tea.Batch(cmd, clearStatusAfter(2*time.Second))

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m LibraryModel) handleKey(msg tea.KeyMsg) (LibraryModel, tea.Cmd) {
	key := msg.String()
	switch key {
	case "left", "h", "right", "l":
		m.tab = 1 - m.tab
		return m, nil
	case "j", "down":
		if m.selected[m.tab] < m.count()-1 {
			m.selected[m.tab]++
			m.adjustScroll()
		}
		return m, nil
	case "k", "up":
		if m.selected[m.tab] > 0 {
			m.selected[m.tab]--
			m.adjustScroll()
		}
		return m, nil
	case "g":
		m.selected[m.tab], m.offset[m.tab] = 0, 0
		return m, nil
	case "G":
		m.selected[m.tab] = max(0, m.count()-1)
		m.adjustScroll()
		return m, nil
	case "r":
		cmd := m.Refresh()
		return m, cmd
	}

	if f, ok := sortKeys[m.tab][key]; ok {
		m.sorts[m.tab] = m.sorts[m.tab].pick(f)
		return m, nil
	}

	if m.count() == 0 {
		return m, nil
	}
	switch key {
	case "enter":
		if m.tab == tabSongs {
			song := m.sortedSongs()[m.selected[tabSongs]]
			return m, emit(OpenSongMsg{Title: song.Title, Artist: song.Artist})
		}
		return m, emit(OpenWordMsg{Word: m.sortedWords()[m.selected[tabWords]].Word})
	case "x":
		return m, m.remove()
	}
	return m, nil
}

// sortKeys maps selector keys to fields per tab.
var sortKeys = [2]map[string]library.Field{
	tabSongs: {"t": library.FieldTitle, "a": library.FieldArtist, "d": library.FieldCreatedAt},
	tabWords: {"w": library.FieldWord, "L": library.FieldLearned, "d": library.FieldCreatedAt},
}

func (m LibraryModel) remove() tea.Cmd {
	svc := m.service
	if m.tab == tabSongs {
		song := m.sortedSongs()[m.selected[tabSongs]]
		return func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			err := svc.RemoveSong(ctx, song.Artist, song.Title)
			return songRemovedMsg{title: song.Title, err: err}
		}
	}
	word := m.sortedWords()[m.selected[tabWords]].Word
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		words, _, err := svc.ToggleWord(ctx, word, true)
		if err != nil {
			return libraryLoadedMsg{err: err}
		}
		return WordsChangedMsg{Words: words}
	}
}

func (m *LibraryModel) clampSelection() {
	for tab, n := range [2]int{len(m.songs), len(m.words)} {
		if m.selected[tab] >= n {
			m.selected[tab] = max(0, n-1)
		}
		if m.offset[tab] > m.selected[tab] {
			m.offset[tab] = m.selected[tab]
		}
	}
}

func (m *LibraryModel) visibleRows() int {
	return max(3, m.height-10)
}

func (m *LibraryModel) adjustScroll() {
	rows := m.visibleRows()
	sel := m.selected[m.tab]
	if sel < m.offset[m.tab] {
		m.offset[m.tab] = sel
	}
	if sel >= m.offset[m.tab]+rows {
		m.offset[m.tab] = sel - rows + 1
	}
}

// View renders the library view.
func (m LibraryModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Library"))
	b.WriteString("\n\n")

	if m.service == nil || !m.service.SignedIn() {
		b.WriteString(mutedStyle.Render("Sign in (view 3) to see your saved songs and words."))
		return b.String()
	}

	tabs := []string{
		fmt.Sprintf("Songs (%d)", len(m.songs)),
		fmt.Sprintf("Words (%d)", len(m.words)),
	}
	for i, t := range tabs {
		if i == m.tab {
			tabs[i] = tabActiveStyle.Render(t)
		} else {
			tabs[i] = tabStyle.Render(t)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n")
	b.WriteString(m.renderSortBar())
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Loading library..."))
		b.WriteString("\n")
	case m.tab == tabSongs:
		b.WriteString(m.renderSongs())
	default:
		b.WriteString(m.renderWords())
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(m.err.Error()))
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(copiedStyle.Render(m.status))
	}

	b.WriteString("\n")
	var help string
	if m.tab == tabSongs {
		help = "←/→: tab • t/a/d: sort • enter: open • x: remove • r: refresh"
	} else {
		help = "←/→: tab • w/L/d: sort • enter: define • x: unsave • r: refresh"
	}
	b.WriteString(helpStyle.Render(help))

	return b.String()
}

func (m LibraryModel) renderSortBar() string {
	labels := map[library.Field]string{
		library.FieldTitle:     "t title",
		library.FieldArtist:    "a artist",
		library.FieldWord:      "w word",
		library.FieldLearned:   "L learned",
		library.FieldCreatedAt: "d date",
	}
	fields := library.SongFields
	if m.tab == tabWords {
		fields = library.WordFields
	}

	s := m.sorts[m.tab]
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f != s.field {
			parts[i] = mutedStyle.Render(labels[f])
			continue
		}
		arrow := "↑"
		if s.order != library.Asc {
			arrow = "↓"
		}
		parts[i] = sortActiveStyle.Render(labels[f] + " " + arrow)
	}
	return mutedStyle.Render("sort: ") + strings.Join(parts, mutedStyle.Render(" · "))
}

// column pads or truncates s to exactly width cells.
func column(s string, width int) string {
	return runewidth.FillRight(truncate(s, width), width)
}

func (m LibraryModel) renderRows(header string, rows []string) string {
	if len(rows) == 0 {
		return mutedStyle.Render("  (nothing saved yet)") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("  " + header))
	b.WriteString("\n")

	sel, off := m.selected[m.tab], m.offset[m.tab]
	end := min(len(rows), off+m.visibleRows())
	for i := off; i < end; i++ {
		if i == sel {
			b.WriteString("> " + rowSelectedStyle.Render(rows[i]))
		} else {
			b.WriteString("  " + rowStyle.Render(rows[i]))
		}
		b.WriteString("\n")
	}
	if len(rows) > m.visibleRows() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d-%d of %d", off+1, end, len(rows))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m LibraryModel) renderSongs() string {
	dateW := len(library.DateLayout) + 2
	titleW := max(8, (m.width-dateW-4)/2)
	artistW := max(8, m.width-dateW-titleW-4)

	songs := m.sortedSongs()
	rows := make([]string, len(songs))
	for i, s := range songs {
		rows[i] = column(s.Title, titleW) + column(s.Artist, artistW) + library.FormatDate(s.CreatedAt)
	}
	return m.renderRows(column("Title", titleW)+column("Artist", artistW)+"Added", rows)
}

func (m LibraryModel) renderWords() string {
	dateW := len(library.DateLayout) + 2
	wordW := 18
	noteW := max(8, m.width-dateW-wordW-8)

	words := m.sortedWords()
	rows := make([]string, len(words))
	for i, w := range words {
		mark := "  "
		if w.Learned {
			mark = "✓ "
		}
		rows[i] = mark + column(w.Word, wordW) + column(strings.Join(strings.Fields(w.Note), " "), noteW) + library.FormatDate(w.CreatedAt)
	}
	return m.renderRows("  "+column("Word", wordW)+column("Note", noteW)+"Added", rows)
}
