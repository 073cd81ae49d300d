package textproc

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SplitSentences splits text at every whitespace run that directly follows a
// terminal mark. The whitespace is dropped; each sentence keeps its own
// punctuation. Empty pieces are skipped.
func SplitSentences(text string) []string {
	var (
		out   []string
		start int
		prev  rune
	)
	emit := func(s string) {
		if s != "" {
			out = append(out, s)
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if unicode.IsSpace(r) && strings.ContainsRune(terminalMarks, prev) {
			emit(text[start:i])
			j := i
			for j < len(text) {
				sr, ssize := utf8.DecodeRuneInString(text[j:])
				if !unicode.IsSpace(sr) {
					break
				}
				j += ssize
			}
			start, i, prev = j, j, 0
			continue
		}
		prev = r
		i += size
	}
	emit(text[start:])
	return out
}
