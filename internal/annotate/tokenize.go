package annotate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWordRune reports whether r can anchor a word.
func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}

// isJoiner reports whether r may appear inside a word without anchoring it.
func isJoiner(r rune) bool {
	return r == '\'' || r == '’' || r == '-'
}

// Tokenize splits a single line into alternating word and separator tokens.
// Concatenating the token texts yields line byte for byte, including any
// invalid UTF-8, which is kept as separator text.
func Tokenize(line string) []Token {
	var tokens []Token
	emit := func(kind Kind, text string) {
		if text == "" {
			return
		}
		if n := len(tokens); n > 0 && kind == KindSeparator && tokens[n-1].Kind == KindSeparator {
			tokens[n-1].Text += text
			return
		}
		tokens = append(tokens, Token{Kind: kind, Text: text})
	}

	for i := 0; i < len(line); {
		inRun := inWordRun(line[i:])
		j := i
		for j < len(line) && inWordRun(line[j:]) == inRun {
			_, size := utf8.DecodeRuneInString(line[j:])
			j += size
		}
		if !inRun {
			emit(KindSeparator, line[i:j])
			i = j
			continue
		}

		lead, word, trail := splitRun(line[i:j])
		emit(KindSeparator, lead)
		emit(KindWord, word)
		emit(KindSeparator, trail)
		i = j
	}
	return tokens
}

// inWordRun reports whether the rune starting s belongs to a word run. A
// byte that is not valid UTF-8 never does.
func inWordRun(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError && size <= 1 {
		return false
	}
	return isWordRune(r) || isJoiner(r)
}

// splitRun trims a run of word and joiner runes to its word. Leading joiners
// and trailing hyphens are returned as separators; a trailing apostrophe
// stays attached, as in "rockin'". A run without any word rune is returned
// whole as lead.
func splitRun(run string) (lead, word, trail string) {
	rest := strings.TrimLeftFunc(run, isJoiner)
	if rest == "" {
		return run, "", ""
	}
	word = strings.TrimRight(rest, "-")
	return run[:len(run)-len(rest)], word, rest[len(word):]
}

// Words returns the word tokens of text in order, across any line breaks.
func Words(text string) []string {
	var out []string
	for _, line := range strings.Split(text, lineBreak) {
		for _, t := range Tokenize(line) {
			if t.IsWord() {
				out = append(out, t.Text)
			}
		}
	}
	return out
}
