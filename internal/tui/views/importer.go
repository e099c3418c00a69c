package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/f3rmion/lexis/internal/anki"
	"github.com/f3rmion/lexis/internal/study"
)

type packageLoadedMsg struct {
	pkg *anki.Package
	err error
}

type importedMsg struct {
	field string
	added int
	total int
	err   error
}

// ImportModel imports words from an Anki deck into the user's collection.
type ImportModel struct {
	service *study.Service
	picker  FilePickerModel

	pkg    *anki.Package
	fields []string
	field  int

	loading bool
	spinner spinner.Model

	status string
	err    error

	width  int
	height int
}

// NewImportModel creates a new import view starting in startDir.
func NewImportModel(svc *study.Service, startDir string) ImportModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = loadingStyle

	return ImportModel{
		service: svc,
		picker:  NewFilePickerModel("Import words from an Anki deck (.apkg)", startDir, ".apkg"),
		spinner: sp,
	}
}

// SetService replaces the service after the session changed.
func (m *ImportModel) SetService(svc *study.Service) {
	m.service = svc
}

// SetSize updates the view dimensions.
func (m *ImportModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.picker.SetSize(width, height-2)
}

// Close releases the open deck.
func (m *ImportModel) Close() error {
	if m.pkg == nil {
		return nil
	}
	err := m.pkg.Close()
	m.pkg = nil
	m.fields = nil
	return err
}

// Update handles messages.
func (m ImportModel) Update(msg tea.Msg) (ImportModel, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case FileSelectedMsg:
		m.loading = true
		m.err = nil
		m.status = ""
		path := msg.Path
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			pkg, err := anki.OpenPackage(path)
			return packageLoadedMsg{pkg: pkg, err: err}
		})

	case packageLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		_ = m.Close()
		m.pkg = msg.pkg
		m.fields = msg.pkg.FieldNames()
		m.field = anki.DefaultField(m.fields)
		return m, nil

	case importedMsg:
		m.loading = false
		if msg.err != nil {
			m.err = signInHint(msg.err, "import words")
			return m, nil
		}
		m.status = fmt.Sprintf("Imported %d new words from %d in field %q", msg.added, msg.total, msg.field)
		_ = m.Close()
		svc := m.service
		return m, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			words, err := svc.Words(ctx)
			if err != nil {
				return nil
			}
			return WordsChangedMsg{Words: words}
		}

	case tea.KeyMsg:
		if m.loading {
			return m, nil
		}
		if m.pkg == nil {
			var cmd tea.Cmd
			m.picker, cmd = m.picker.Update(msg)
			return m, cmd
		}
		return m.updateFields(msg)
	}

	return m, nil
}

func (m ImportModel) updateFields(msg tea.KeyMsg) (ImportModel, tea.Cmd) {
	switch msg.String() {
	case "esc", "backspace":
		_ = m.Close()
		return m, nil
	case "j", "down":
		if m.field < len(m.fields)-1 {
			m.field++
		}
	case "k", "up":
		if m.field > 0 {
			m.field--
		}
	case "enter":
		if len(m.fields) == 0 {
			return m, nil
		}
		field := m.fields[m.field]
		words := m.pkg.Words(field)
		svc := m.service
		m.loading = true
		m.err = nil
		return m, tea.Batch(m.spinner.Tick, func() tea.Msg {
			ctx, cancel := requestContext()
			defer cancel()
			added, err := svc.SaveWords(ctx, words)
			return importedMsg{field: field, added: added, total: len(words), err: err}
		})
	}
	return m, nil
}

// View renders the import view.
func (m ImportModel) View() string {
	var b strings.Builder

	switch {
	case m.pkg == nil && !m.loading:
		b.WriteString(m.picker.View())
	case m.pkg != nil:
		b.WriteString(titleStyle.Render("Import"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render(truncate(m.pkg.Summary(), max(20, m.width-4))))
		b.WriteString("\n")
		b.WriteString(subtitleStyle.Render("Which field holds the words?"))
		b.WriteString("\n\n")
		for i, f := range m.fields {
			preview := m.preview(f)
			if i == m.field {
				b.WriteString("> " + rowSelectedStyle.Render(f) + mutedStyle.Render("  "+preview))
			} else {
				b.WriteString("  " + rowStyle.Render(f) + mutedStyle.Render("  "+preview))
			}
			b.WriteString("\n")
		}
	}

	if m.loading {
		b.WriteString("\n" + m.spinner.View() + loadingStyle.Render(" Working..."))
		b.WriteString("\n")
	}
	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(wordWrap(m.err.Error(), max(20, m.width-4))))
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(copiedStyle.Render(m.status))
		b.WriteString("\n")
	}
	if m.pkg != nil {
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("j/k: choose field • enter: import • backspace: back"))
	}
	return b.String()
}

// preview shows the first words a field would import.
func (m ImportModel) preview(field string) string {
	words := m.pkg.Words(field)
	n := len(words)
	return truncate(fmt.Sprintf("%d words: %s", n, strings.Join(words[:min(4, n)], ", ")), max(10, m.width-24))
}
