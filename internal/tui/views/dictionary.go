package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/f3rmion/lexis/internal/dictionary"
	"github.com/f3rmion/lexis/internal/lexis"
	"github.com/f3rmion/lexis/internal/study"
	"github.com/f3rmion/lexis/internal/tui/banner"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#ffe66d")).
			Padding(0, 1)

	bannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#ffe66d")).
			Bold(true)

	wordTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffe66d")).
			Background(lipgloss.Color("#2d3436")).
			Padding(0, 2)

	phoneticStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ecdc4")).
			Italic(true)

	posStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a8dadc")).
			Bold(true)

	exampleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	learnedBadgeStyle = badgeStyle.
				Background(lipgloss.Color("#a8e6cf"))
)

// senses shown per part of speech
const maxSenses = 3

type wordLoadedMsg struct {
	view study.WordView
	err  error
}

type wordSavedMsg struct {
	words []lexis.SavedWord
	saved bool
	err   error
}

type wordUpdatedMsg struct {
	words   []lexis.SavedWord
	learned bool
	note    string
	err     error
}

// DictionaryModel is the panel showing a word's definitions and saved state.
type DictionaryModel struct {
	service *study.Service

	word    string
	view    study.WordView
	loading bool
	spinner spinner.Model

	note        textarea.Model
	editingNote bool

	status string
	err    error

	width  int
	height int
}

// NewDictionaryModel creates a new dictionary panel.
func NewDictionaryModel(svc *study.Service) DictionaryModel {
	ta := textarea.New()
	ta.Placeholder = "Your note on this word..."
	ta.CharLimit = 500
	ta.ShowLineNumbers = false
	ta.SetHeight(3)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return DictionaryModel{
		service: svc,
		note:    ta,
		spinner: sp,
	}
}

// SetService replaces the service after the session changed.
func (m *DictionaryModel) SetService(svc *study.Service) {
	m.service = svc
}

// SetSize updates the panel dimensions.
func (m *DictionaryModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.note.SetWidth(max(10, width-6))
}

// Capturing reports whether keys should go to the note editor.
func (m DictionaryModel) Capturing() bool {
	return m.editingNote
}

// Word returns the word on display.
func (m DictionaryModel) Word() string {
	return m.word
}

// Open starts loading word.
func (m *DictionaryModel) Open(word string) tea.Cmd {
	m.word = strings.ToLower(word)
	m.view = study.WordView{Word: m.word}
	m.loading = true
	m.editingNote = false
	m.note.Blur()
	m.status = ""
	m.err = nil
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m DictionaryModel) load() tea.Cmd {
	svc, word := m.service, m.word
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		view, err := svc.Lookup(ctx, word)
		return wordLoadedMsg{view: view, err: err}
	}
}

// Update handles messages.
func (m DictionaryModel) Update(msg tea.Msg) (DictionaryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case wordLoadedMsg:
		if msg.view.Word != "" && msg.view.Word != m.word {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.view = msg.view
		return m, nil

	case wordSavedMsg:
		if msg.err != nil {
			m.err = signInHint(msg.err, "save words")
			return m, nil
		}
		m.view.Saved = msg.saved
		if !msg.saved {
			m.view.Learned = false
			m.view.Note = ""
		}
		m.status = map[bool]string{true: "Saved", false: "Removed"}[msg.saved]
		return m, tea.Batch(emit(WordsChangedMsg{Words: msg.words}), clearStatusAfter(2*time.Second))

	case wordUpdatedMsg:
		if msg.err != nil {
			m.err = signInHint(msg.err, "update words")
			return m, nil
		}
		m.view.Learned = msg.learned
		m.view.Note = msg.note
		m.status = "Updated"
		return m, tea.Batch(emit(WordsChangedMsg{Words: msg.words}), clearStatusAfter(2*time.Second))

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.editingNote {
			return m.updateNote(msg)
		}
		if m.loading {
			if msg.String() == "esc" {
				return m, emit(CloseDictionaryMsg{})
			}
			return m, nil
		}

		switch msg.String() {
		case "esc":
			return m, emit(CloseDictionaryMsg{})
		case "s":
			m.err = nil
			return m, m.toggleSaved()
		case "L":
			if !m.view.Saved {
				m.err = fmt.Errorf("save %q before marking it learned", m.word)
				return m, nil
			}
			m.err = nil
			return m, m.update(!m.view.Learned, m.view.Note, true)
		case "n":
			if !m.view.Saved {
				m.err = fmt.Errorf("save %q before adding a note", m.word)
				return m, nil
			}
			m.err = nil
			m.editingNote = true
			m.note.SetValue(m.view.Note)
			cmd := m.note.Focus()
			return m, cmd
		case "x":
			if m.view.Saved && m.view.Note != "" {
				return m, m.update(m.view.Learned, "", false)
			}
			return m, nil
		}
	}

	return m, nil
}

func (m DictionaryModel) updateNote(msg tea.KeyMsg) (DictionaryModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editingNote = false
		m.note.Blur()
		return m, nil
	case "ctrl+s":
		m.editingNote = false
		m.note.Blur()
		return m, m.update(m.view.Learned, strings.TrimSpace(m.note.Value()), false)
	}

	var cmd tea.Cmd
	m.note, cmd = m.note.Update(msg)
	return m, cmd
}

func (m DictionaryModel) toggleSaved() tea.Cmd {
	svc, word, saved := m.service, m.word, m.view.Saved
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()
		words, saved, err := svc.ToggleWord(ctx, word, saved)
		return wordSavedMsg{words: words, saved: saved, err: err}
	}
}

// update writes the learned flag or the note and reloads the collection.
func (m DictionaryModel) update(learned bool, note string, learnedChanged bool) tea.Cmd {
	svc, word := m.service, m.word
	return func() tea.Msg {
		ctx, cancel := requestContext()
		defer cancel()

		var err error
		if learnedChanged {
			err = svc.SetLearned(ctx, word, learned)
		} else {
			err = svc.SetNote(ctx, word, note)
		}
		if err != nil {
			return wordUpdatedMsg{err: err}
		}
		words, err := svc.Words(ctx)
		return wordUpdatedMsg{words: words, learned: learned, note: note, err: err}
	}
}

// View renders the panel.
func (m DictionaryModel) View() string {
	inner := max(16, m.width-4)
	var b strings.Builder

	if art := banner.Cached(m.word, 4, inner); art != "" && m.height > 24 {
		b.WriteString(bannerStyle.Render(art))
		b.WriteString("\n")
	}
	b.WriteString(wordTitleStyle.Render(m.word))
	if p := pronunciation(m.view.Entries); p != "" {
		b.WriteString(" " + phoneticStyle.Render(p))
	}
	b.WriteString("\n")

	switch {
	case m.view.Learned:
		b.WriteString(learnedBadgeStyle.Render("✓ learned"))
	case m.view.Saved:
		b.WriteString(badgeStyle.Render("★ saved"))
	default:
		b.WriteString(mutedStyle.Render("not saved"))
	}
	b.WriteString("\n\n")

	if m.loading {
		b.WriteString(m.spinner.View() + loadingStyle.Render(" Looking up..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderSenses(inner))
	}

	if m.editingNote {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Note"))
		b.WriteString("\n")
		b.WriteString(m.note.View())
		b.WriteString("\n")
	} else if m.view.Note != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Note"))
		b.WriteString("\n")
		b.WriteString(valueStyle.Render(wrapParagraphs(m.view.Note, inner)))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordWrap(m.err.Error(), inner)))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(copiedStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editingNote {
		b.WriteString(helpStyle.Render("ctrl+s: save note • esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render(wordWrap("s: save/unsave • L: learned • n: note • x: clear note • esc: close", inner)))
	}

	return panelStyle.Width(max(20, m.width-2)).Render(b.String())
}

func (m DictionaryModel) renderSenses(width int) string {
	senses := dictionary.Summary(m.view.Entries, maxSenses)
	if len(senses) == 0 {
		return mutedStyle.Render("No definitions found.") + "\n"
	}

	var b strings.Builder
	last := ""
	for _, s := range senses {
		if s.PartOfSpeech != last {
			if last != "" {
				b.WriteString("\n")
			}
			b.WriteString(posStyle.Render(s.PartOfSpeech))
			b.WriteString("\n")
			last = s.PartOfSpeech
		}
		b.WriteString(valueStyle.Render(wordWrap("• "+s.Definition, width)))
		b.WriteString("\n")
		if s.Example != "" {
			b.WriteString(exampleStyle.Render(wordWrap("  “"+s.Example+"”", width)))
			b.WriteString("\n")
		}
	}

	if syn := dictionary.Synonyms(m.view.Entries); len(syn) > 0 {
		b.WriteString("\n")
		b.WriteString(posStyle.Render("synonyms "))
		b.WriteString(mutedStyle.Render(truncate(strings.Join(syn, ", "), max(8, width-9))))
		b.WriteString("\n")
	}
	return b.String()
}

func pronunciation(entries []lexis.Entry) string {
	for _, e := range entries {
		if p := e.Pronunciation(); p != "" {
			return p
		}
	}
	return ""
}
