package views

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
)

// FileSelectedMsg is sent when a file is picked.
type FileSelectedMsg struct {
	Path string
}

type deckEntry struct {
	Name string
	Path string
	Dir  bool
	Size int64
}

// FilePickerModel browses directories for files with the given extensions.
type FilePickerModel struct {
	title   string
	dir     string
	exts    []string
	entries []deckEntry
	cursor  int
	top     int
	err     error

	width  int
	height int
}

// NewFilePickerModel creates a file picker starting in startDir, or in the
// home directory when startDir does not exist.
func NewFilePickerModel(title, startDir string, extensions ...string) FilePickerModel {
	if info, err := os.Stat(startDir); startDir == "" || err != nil || !info.IsDir() {
		startDir = homeDir()
	}
	m := FilePickerModel{title: title, exts: extensions}
	m.open(startDir)
	return m
}

func homeDir() string {
	if home, _ := os.UserHomeDir(); home != "" {
		return home
	}
	return "/"
}

// SetSize updates the view dimensions.
func (m *FilePickerModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Dir returns the directory on display.
func (m FilePickerModel) Dir() string {
	return m.dir
}

func (m *FilePickerModel) open(dir string) {
	m.dir = dir
	m.cursor, m.top = 0, 0
	m.entries, m.err = listDir(dir, m.exts)
}

// listDir returns the parent entry, then visible subdirectories, then files
// matching exts, each group sorted by name.
func listDir(dir string, exts []string) ([]deckEntry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var dirs, files []deckEntry
	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		e := deckEntry{Name: name, Path: filepath.Join(dir, name), Dir: item.IsDir()}
		if e.Dir {
			dirs = append(dirs, e)
			continue
		}
		if !hasExt(name, exts) {
			continue
		}
		if info, err := item.Info(); err == nil {
			e.Size = info.Size()
		}
		files = append(files, e)
	}

	byName := func(a, b deckEntry) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	}
	slices.SortFunc(dirs, byName)
	slices.SortFunc(files, byName)

	var out []deckEntry
	if parent := filepath.Dir(dir); parent != dir {
		out = append(out, deckEntry{Name: "..", Path: parent, Dir: true})
	}
	return append(append(out, dirs...), files...), nil
}

func hasExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := filepath.Ext(name)
	return slices.ContainsFunc(exts, func(e string) bool { return strings.EqualFold(e, ext) })
}

func (m *FilePickerModel) rows() int {
	return max(m.height-8, 5)
}

// moveTo places the cursor at i, clamped, and scrolls it into view.
func (m *FilePickerModel) moveTo(i int) {
	m.cursor = max(0, min(i, len(m.entries)-1))
	if m.cursor < m.top {
		m.top = m.cursor
	}
	if rows := m.rows(); m.cursor >= m.top+rows {
		m.top = m.cursor - rows + 1
	}
}

// Update handles messages.
func (m FilePickerModel) Update(msg tea.Msg) (FilePickerModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "j", "down":
		m.moveTo(m.cursor + 1)
	case "k", "up":
		m.moveTo(m.cursor - 1)
	case "g":
		m.moveTo(0)
	case "G":
		m.moveTo(len(m.entries) - 1)
	case "ctrl+d":
		m.moveTo(m.cursor + m.rows()/2)
	case "ctrl+u":
		m.moveTo(m.cursor - m.rows()/2)
	case "enter", "l", "right":
		if m.cursor >= len(m.entries) {
			break
		}
		e := m.entries[m.cursor]
		if !e.Dir {
			return m, emit(FileSelectedMsg{Path: e.Path})
		}
		m.open(e.Path)
	case "backspace", "h", "left":
		if parent := filepath.Dir(m.dir); parent != m.dir {
			m.open(parent)
		}
	case "~":
		m.open(homeDir())
	}
	return m, nil
}

// View renders the file picker.
func (m FilePickerModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title) + "\n")
	b.WriteString(mutedStyle.Italic(true).Render(m.dir) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n\n")
	}

	width := min(max(m.width-4, 20), 60)
	rule := dividerStyle.Render(strings.Repeat("─", width))
	b.WriteString(rule + "\n")

	if len(m.entries) == 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  (no %s files here)", strings.Join(m.exts, ", "))) + "\n")
	}

	end := min(m.top+m.rows(), len(m.entries))
	for i := m.top; i < end; i++ {
		e := m.entries[i]
		name, size := e.Name, ""
		if e.Dir {
			name += string(filepath.Separator)
		} else {
			size = humanize.Bytes(uint64(e.Size))
		}
		line := fmt.Sprintf("%-*s %8s", max(width-12, 8), truncate(name, max(width-12, 8)), size)

		switch {
		case i == m.cursor:
			b.WriteString(rowSelectedStyle.Render("▸ "+line) + "\n")
		case e.Dir:
			b.WriteString(labelStyle.Render("  "+line) + "\n")
		default:
			b.WriteString(rowStyle.Render("  "+line) + "\n")
		}
	}
	if len(m.entries) > m.rows() {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d/%d", m.cursor+1, len(m.entries))) + "\n")
	}

	b.WriteString(rule + "\n")
	b.WriteString(helpStyle.Render("enter: open/select • backspace: parent • ~: home"))
	return b.String()
}
