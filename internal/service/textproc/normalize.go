// Package textproc holds the pure text stages of the response pipeline:
// punctuation and spacing repair, sentence splitting and word-level diffs.
package textproc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	punctSpacing = regexp.MustCompile(`\s*([?,.!"])\s*`)
	multiSpace   = regexp.MustCompile(`\s{2,}`)
)

const (
	terminalMarks = ".!?"
	pauseMarks    = ",:;"
)

// Normalize repairs punctuation and spacing artifacts in generated text.
// The steps run in a fixed order:
//
//  1. remove double quotes
//  2. collapse ". . ." to "..."
//     (Unicode whitespace is then mapped to ASCII space for the regexps below)
//  3. put exactly one space after ? , . and !, dropping whitespace before them
//  4. trim surrounding whitespace
//  5. collapse whitespace runs to one space
//  6. insert missing sentence boundaries (see RepairBoundaries)
//  7. cut everything after the last terminal mark, if there is one
func Normalize(text string) string {
	text = strings.ReplaceAll(text, `"`, "")
	text = strings.ReplaceAll(text, ". . .", "...")
	text = strings.Map(plainSpace, text)
	text = punctSpacing.ReplaceAllString(text, "$1 ")
	text = strings.TrimSpace(text)
	text = multiSpace.ReplaceAllString(text, " ")
	text = RepairBoundaries(text)
	return TrimToTerminal(text)
}

// plainSpace maps whitespace that RE2's \s does not match to a space.
func plainSpace(r rune) rune {
	switch {
	case r == '\v', r >= 0x1c && r <= 0x1f:
		return ' '
	case r > unicode.MaxASCII && unicode.IsSpace(r):
		return ' '
	}
	return r
}

// RepairBoundaries appends a period to a token when the next token starts with
// an upper-case letter and the token does not already end a sentence.
// Tokens ending in , : or ; are left alone.
func RepairBoundaries(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	out := make([]string, 0, len(words))
	for i, w := range words {
		if i > 0 && startsUpper(w) {
			prev := lastRune(words[i-1])
			if !strings.ContainsRune(terminalMarks, prev) && !strings.ContainsRune(pauseMarks, prev) {
				out[len(out)-1] += "."
			}
		}
		out = append(out, w)
	}
	return strings.Join(out, " ")
}

// TrimToTerminal drops everything after the last '.', '!' or '?'.
// Text without a terminal mark is returned unchanged.
func TrimToTerminal(text string) string {
	i := strings.LastIndexAny(text, terminalMarks)
	if i < 0 {
		return text
	}
	return text[:i+1]
}

func startsUpper(w string) bool {
	r, _ := utf8.DecodeRuneInString(w)
	return unicode.IsUpper(r)
}

func lastRune(w string) rune {
	r, _ := utf8.DecodeLastRuneInString(w)
	return r
}
