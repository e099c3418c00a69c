// Package prompt builds the questions sent to the language model when the
// user asks for an explanation of a lyric.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// Generator renders explanation prompts from a template.
type Generator struct {
	template *template.Template
	style    Style
}

// Style tunes the explanation.
type Style struct {
	Audience  string // e.g., "an intermediate English learner"
	Language  string // Language the answer should be written in
	MaxWords  int    // Soft limit for the answer
	Synonyms  bool   // Ask for simpler synonyms of the word
	Etymology bool   // Ask for the word's origin
}

// DefaultStyle returns the style used by the TUI.
func DefaultStyle() Style {
	return Style{
		Audience: "an intermediate English learner",
		Language: "English",
		MaxWords: 120,
		Synonyms: true,
	}
}

// LineData is the lyric being explained.
type LineData struct {
	Title   string
	Artist  string
	Line    string   // The line under the cursor
	Word    string   // The selected word, may be empty
	Context []string // Neighbouring lines
	Note    string   // The user's own note on the word
	Style   Style
}

// NewGenerator creates a generator with the default template.
func NewGenerator() *Generator {
	return &Generator{
		template: template.Must(template.New("prompt").Parse(defaultTemplate)),
		style:    DefaultStyle(),
	}
}

// SetStyle updates the explanation style.
func (g *Generator) SetStyle(style Style) {
	g.style = style
}

// SetTemplate sets a custom prompt template.
func (g *Generator) SetTemplate(tmpl string) error {
	t, err := template.New("prompt").Parse(tmpl)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}
	g.template = t
	return nil
}

// Generate renders the prompt for data.
func (g *Generator) Generate(data LineData) (string, error) {
	data.Style = g.style
	data.Line = strings.TrimSpace(data.Line)

	var buf bytes.Buffer
	if err := g.template.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

const defaultTemplate = `You are helping {{ .Style.Audience }} understand song lyrics.
{{ if .Title }}
Song: "{{ .Title }}"{{ if .Artist }} by {{ .Artist }}{{ end }}
{{- end }}
{{- if .Context }}

Surrounding lines:
{{- range .Context }}
  {{ . }}
{{- end }}
{{- end }}

Line: "{{ .Line }}"
{{- if .Word }}
Word: "{{ .Word }}"
{{- if .Note }}
The learner's note on this word: {{ .Note }}
{{- end }}
{{- end }}

Explain what the line means in plain words
{{- if .Word }}, then what "{{ .Word }}" means in this line{{ end }}.
{{- if and .Word .Style.Synonyms }} Offer two simpler synonyms.{{ end }}
{{- if and .Word .Style.Etymology }} Mention where the word comes from.{{ end }}
Point out any slang or idiom. Answer in {{ .Style.Language }}
{{- if .Style.MaxWords }} in at most {{ .Style.MaxWords }} words{{ end }}.`

// BriefTemplate asks for a one sentence gloss of the word only.
const BriefTemplate = `In one sentence for {{ .Style.Audience }}, what does "{{ .Word }}" mean in the lyric "{{ .Line }}"? Answer in {{ .Style.Language }}.`
