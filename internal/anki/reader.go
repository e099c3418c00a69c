// Package anki imports vocabulary from Anki .apkg decks.
package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/f3rmion/lexis/internal/annotate"
	_ "modernc.org/sqlite"
)

// fieldSeparator splits the flds column of a note.
const fieldSeparator = "\x1f"

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Package is an opened .apkg file.
type Package struct {
	path    string
	tempDir string
	db      *sql.DB
	Models  map[int64]*Model
	Notes   []*Note
}

// Model is an Anki note type.
type Model struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Fields []Field `json:"flds"`
}

// Field is one field of a note type.
type Field struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
}

// Note is an Anki note with its fields split out.
type Note struct {
	ID      int64
	ModelID int64
	Tags    string
	Fields  []string
}

// OpenPackage extracts the deck at path and loads its notes.
func OpenPackage(path string) (*Package, error) {
	pkg := &Package{
		path:   path,
		Models: make(map[int64]*Model),
	}

	tempDir, err := os.MkdirTemp("", "lexis-anki-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp dir: %w", err)
	}
	pkg.tempDir = tempDir

	if err := pkg.extract(); err != nil {
		pkg.Close()
		return nil, err
	}

	dbPath, err := pkg.collectionPath()
	if err != nil {
		pkg.Close()
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		pkg.Close()
		return nil, fmt.Errorf("opening collection: %w", err)
	}
	pkg.db = db

	if err := pkg.loadModels(); err != nil {
		pkg.Close()
		return nil, err
	}
	if err := pkg.loadNotes(); err != nil {
		pkg.Close()
		return nil, err
	}

	return pkg, nil
}

// collectionPath prefers the newer anki21 collection when both exist.
func (p *Package) collectionPath() (string, error) {
	for _, name := range []string{"collection.anki21", "collection.anki2"} {
		path := filepath.Join(p.tempDir, name)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", errors.New("no collection in package")
}

// extract unzips the package into the temp dir.
func (p *Package) extract() error {
	r, err := zip.OpenReader(p.path)
	if err != nil {
		return fmt.Errorf("opening zip: %w", err)
	}
	defer r.Close()

	root := filepath.Clean(p.tempDir) + string(os.PathSeparator)
	for _, f := range r.File {
		fpath := filepath.Join(p.tempDir, f.Name)
		if !strings.HasPrefix(fpath, root) {
			return fmt.Errorf("illegal file path: %s", f.Name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if err := extractFile(f, fpath); err != nil {
			return fmt.Errorf("extracting %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractFile(f *zip.File, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer out.Close()

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	_, err = io.Copy(out, rc)
	return err
}

// loadModels reads note types from the col table.
func (p *Package) loadModels() error {
	var raw string
	if err := p.db.QueryRow("SELECT models FROM col").Scan(&raw); err != nil {
		return fmt.Errorf("reading collection: %w", err)
	}

	var models map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &models); err != nil {
		return fmt.Errorf("parsing models: %w", err)
	}
	for _, data := range models {
		var m Model
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		p.Models[m.ID] = &m
	}
	return nil
}

func (p *Package) loadNotes() error {
	rows, err := p.db.Query("SELECT id, mid, tags, flds FROM notes ORDER BY id")
	if err != nil {
		return fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n    Note
			flds string
		)
		if err := rows.Scan(&n.ID, &n.ModelID, &n.Tags, &flds); err != nil {
			return fmt.Errorf("scanning note: %w", err)
		}
		n.Fields = strings.Split(flds, fieldSeparator)
		p.Notes = append(p.Notes, &n)
	}
	return rows.Err()
}

// FieldValue returns the named field of note, ignoring case.
func (p *Package) FieldValue(note *Note, name string) string {
	model := p.Models[note.ModelID]
	if model == nil {
		return ""
	}
	for _, f := range model.Fields {
		if strings.EqualFold(f.Name, name) && f.Ord < len(note.Fields) {
			return note.Fields[f.Ord]
		}
	}
	return ""
}

// FieldNames lists the distinct field names across all note types.
func (p *Package) FieldNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range p.Models {
		for _, f := range m.Fields {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	sort.Strings(names)
	return names
}

// preferredFields are tried in order when no field is named.
var preferredFields = []string{"Front", "Word", "Expression", "Vocabulary"}

// DefaultField returns the index of the field words usually live in, or 0
// when none of the usual names is present.
func DefaultField(fields []string) int {
	for _, want := range preferredFields {
		for i, f := range fields {
			if strings.EqualFold(f, want) {
				return i
			}
		}
	}
	return 0
}

// Words returns the distinct lower-cased words found in the named field of
// every note, in note order. Markup is stripped first.
func (p *Package) Words(field string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range p.Notes {
		text := StripHTML(p.FieldValue(n, field))
		for _, w := range annotate.Words(text) {
			w = strings.ToLower(w)
			if !seen[w] {
				seen[w] = true
				out = append(out, w)
			}
		}
	}
	return out
}

// StripHTML removes tags and decodes entities.
func StripHTML(s string) string {
	s = strings.ReplaceAll(s, "<br>", "\n")
	s = strings.ReplaceAll(s, "<br/>", "\n")
	s = strings.ReplaceAll(s, "<br />", "\n")
	return html.UnescapeString(htmlTag.ReplaceAllString(s, ""))
}

// Close releases the database and removes extracted files.
func (p *Package) Close() error {
	var err error
	if p.db != nil {
		err = p.db.Close()
	}
	if p.tempDir != "" {
		if rerr := os.RemoveAll(p.tempDir); err == nil {
			err = rerr
		}
	}
	return err
}

// Summary describes the package in a line.
func (p *Package) Summary() string {
	return fmt.Sprintf("%s: %d notes, fields %s", filepath.Base(p.path), len(p.Notes), strings.Join(p.FieldNames(), ", "))
}
