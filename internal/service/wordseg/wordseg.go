// Package wordseg re-segments run-together words ("pleasehelp" -> "please help")
// using a Zipf-cost dynamic program over a frequency-ranked lexicon.
package wordseg

import (
	"math"
	"strings"
	"unicode"

	"medi-response-service/internal/service/lexicon"
)

// minSplitLen is the shortest letter run the segmenter will try to split.
const minSplitLen = 3

// Segmenter splits merged tokens. Safe for concurrent use.
type Segmenter struct {
	lex  *lexicon.Lexicon
	logN float64
}

// New returns a Segmenter over lex. A nil lex uses the embedded lexicon.
func New(lex *lexicon.Lexicon) *Segmenter {
	if lex == nil {
		lex = lexicon.Default()
	}
	logN := math.Log(float64(lex.Len()))
	if logN < 1 {
		logN = 1
	}
	return &Segmenter{lex: lex, logN: logN}
}

// Resplit returns text with every merged word run separated by single spaces.
// Punctuation stays where it was and whitespace runs collapse to one space.
func (s *Segmenter) Resplit(text string) string {
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text) + 8)

	pendingSpace := false
	flushSpace := func() {
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
	}

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			for i < len(runes) && unicode.IsSpace(runes[i]) {
				i++
			}
			if b.Len() > 0 {
				pendingSpace = true
			}
		case isWordRune(r):
			j := i
			for j < len(runes) && isWordRune(runes[j]) {
				j++
			}
			flushSpace()
			b.WriteString(strings.Join(s.Split(string(runes[i:j])), " "))
			i = j
		default:
			flushSpace()
			b.WriteRune(r)
			i++
		}
	}
	return b.String()
}

// Split segments a single run of word characters. Runs that are already known,
// very short, contain digits or apostrophes, or have no fully known split are
// returned unchanged.
func (s *Segmenter) Split(word string) []string {
	runes := []rune(word)
	if len(runes) < minSplitLen || s.lex.Known(word) || !allLetters(runes) {
		return []string{word}
	}

	lower := []rune(strings.ToLower(word))
	if len(lower) != len(runes) {
		return []string{word}
	}
	n := len(lower)
	maxLen := s.lex.MaxWordLen()

	cost := make([]float64, n+1)
	back := make([]int, n+1)
	for i := 1; i <= n; i++ {
		cost[i] = math.Inf(1)
		for k := 1; k <= maxLen && k <= i; k++ {
			c := cost[i-k] + s.wordCost(string(lower[i-k:i]))
			if c < cost[i] {
				cost[i] = c
				back[i] = k
			}
		}
	}
	if math.IsInf(cost[n], 1) {
		return []string{word}
	}

	var out []string
	for i := n; i > 0; i -= back[i] {
		out = append(out, string(runes[i-back[i]:i]))
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

func (s *Segmenter) wordCost(w string) float64 {
	rank, ok := s.lex.Rank(w)
	if !ok {
		return math.Inf(1)
	}
	return math.Log(float64(rank+1) * s.logN)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '’'
}

func allLetters(runes []rune) bool {
	for _, r := range runes {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
