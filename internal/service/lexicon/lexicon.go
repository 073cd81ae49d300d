// Package lexicon provides the frequency-ranked English word list shared by the
// word segmenter and the spell corrector.
package lexicon

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"strings"
	"sync"
	"unicode/utf8"
)

// BoostRank is the rank at which domain words are inserted into the general
// English list when building the default lexicon.
const BoostRank = 1000

var (
	//go:embed english.txt
	english string
	//go:embed domain.txt
	domain string
)

// Lexicon is an immutable word list ordered from most to least frequent.
// Safe for concurrent use.
type Lexicon struct {
	words  []string
	rank   map[string]int
	maxLen int
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the embedded lexicon: the general English list with the
// hospital dialogue vocabulary boosted to BoostRank.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex = Boost(strings.Split(english, "\n"), strings.Split(domain, "\n"), BoostRank)
	})
	return defaultLex
}

// Boost builds a lexicon from general with the words of boost ranked no lower
// than at. Boost words already ranked higher in general keep their rank.
func Boost(general, boost []string, at int) *Lexicon {
	if at > len(general) {
		at = len(general)
	}
	if at < 0 {
		at = 0
	}
	words := make([]string, 0, len(general)+len(boost))
	words = append(words, general[:at]...)
	words = append(words, boost...)
	words = append(words, general[at:]...)
	return New(words)
}

// New builds a lexicon from words in frequency order.
// Words are lower-cased; blanks and duplicates (after the first) are ignored.
func New(words []string) *Lexicon {
	l := &Lexicon{
		words: make([]string, 0, len(words)),
		rank:  make(map[string]int, len(words)),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if _, ok := l.rank[w]; ok {
			continue
		}
		l.rank[w] = len(l.words)
		l.words = append(l.words, w)
		if n := utf8.RuneCountInString(w); n > l.maxLen {
			l.maxLen = n
		}
	}
	return l
}

// Load reads one word per line.
func Load(r io.Reader) (*Lexicon, error) {
	var words []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		words = append(words, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return New(words), nil
}

// LoadFile reads a word list from path. An empty path yields the embedded list.
func LoadFile(path string) (*Lexicon, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Words returns the words in frequency order. The slice must not be modified.
func (l *Lexicon) Words() []string { return l.words }

// Len returns the number of distinct words.
func (l *Lexicon) Len() int { return len(l.words) }

// MaxWordLen returns the length in runes of the longest word.
func (l *Lexicon) MaxWordLen() int { return l.maxLen }

// Rank returns the zero-based frequency rank of w (case-insensitive).
func (l *Lexicon) Rank(w string) (int, bool) {
	r, ok := l.rank[strings.ToLower(w)]
	return r, ok
}

// Contains reports whether w is in the lexicon (case-insensitive).
func (l *Lexicon) Contains(w string) bool {
	_, ok := l.rank[strings.ToLower(w)]
	return ok
}

// inflections are suffix rewrites tried by Known, longest suffix first.
var inflections = []struct{ suffix, stem string }{
	{"ies", "y"},
	{"ied", "y"},
	{"ing", ""},
	{"ing", "e"},
	{"ers", ""},
	{"est", ""},
	{"es", ""},
	{"ed", ""},
	{"ed", "e"},
	{"er", ""},
	{"ly", ""},
	{"s", ""},
}

// minStemLen is the shortest stem Known will accept for an inflected word.
const minStemLen = 3

// Known reports whether w is in the lexicon or is a regular inflection of a
// word that is ("phoned", "worries", "stopping").
func (l *Lexicon) Known(w string) bool {
	w = strings.ToLower(w)
	if l.Contains(w) {
		return true
	}
	for _, in := range inflections {
		base, ok := strings.CutSuffix(w, in.suffix)
		if !ok || utf8.RuneCountInString(base) < minStemLen {
			continue
		}
		if l.Contains(base + in.stem) {
			return true
		}
		if in.stem == "" && doubled(base) && l.Contains(base[:len(base)-1]) {
			return true
		}
	}
	return false
}

// doubled reports whether s ends in a repeated consonant ("stopp").
func doubled(s string) bool {
	n := len(s)
	if n < 2 || s[n-1] != s[n-2] {
		return false
	}
	return !strings.ContainsRune("aeiou", rune(s[n-1]))
}
