// Package spelling corrects isolated misspelled words against the lexicon.
// Correction is context free: every token is looked at on its own.
package spelling

import (
	"regexp"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/sajari/fuzzy"

	"medi-response-service/internal/service/lexicon"
)

// DefaultDepth is the maximum edit distance searched for a suggestion.
const DefaultDepth = 2

// minCorrectLen is the shortest word the corrector will try to change.
const minCorrectLen = 3

var token = regexp.MustCompile(`\S+`)

// Correction records one replaced word.
type Correction struct {
	Original  string
	Corrected string
}

// Corrector wraps a trained fuzzy model. Safe for concurrent use once built.
type Corrector struct {
	lex   *lexicon.Lexicon
	model *fuzzy.Model
}

// defaults holds correctors trained on the embedded lexicon, keyed by depth.
var defaults sync.Map

// New trains a corrector on lex. A nil lex uses the embedded lexicon and a
// depth below 1 uses DefaultDepth. Correctors over the embedded lexicon are
// trained once per depth and shared.
func New(lex *lexicon.Lexicon, depth int) *Corrector {
	if lex == nil {
		lex = lexicon.Default()
	}
	if depth < 1 {
		depth = DefaultDepth
	}
	if lex != lexicon.Default() {
		return train(lex, depth)
	}
	if c, ok := defaults.Load(depth); ok {
		return c.(*Corrector)
	}
	c, _ := defaults.LoadOrStore(depth, train(lex, depth))
	return c.(*Corrector)
}

func train(lex *lexicon.Lexicon, depth int) *Corrector {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(depth)
	model.SetUseAutocomplete(false)

	// Frequent words are trained more often so they win ties on edit distance.
	words := lex.Words()
	n := len(words)
	corpus := make([]string, 0, n*2)
	for rank, w := range words {
		weight := 1 + (n-rank)*3/n
		for i := 0; i < weight; i++ {
			corpus = append(corpus, w)
		}
	}
	model.Train(corpus)

	return &Corrector{lex: lex, model: model}
}

// NewWithWords builds a corrector from an explicit frequency-ordered word list.
func NewWithWords(words []string, depth int) *Corrector {
	return New(lexicon.New(words), depth)
}

// Correct returns text with misspelled words replaced.
func (c *Corrector) Correct(text string) string {
	out, _ := c.CorrectWithReport(text)
	return out
}

// CorrectWithReport is Correct plus the list of replacements made, in order.
// Whitespace is preserved exactly.
func (c *Corrector) CorrectWithReport(text string) (string, []Correction) {
	var fixes []Correction
	out := token.ReplaceAllStringFunc(text, func(tok string) string {
		lead, core, trail := splitPunct(tok)
		fixed, ok := c.correctWord(core)
		if !ok {
			return tok
		}
		fixes = append(fixes, Correction{Original: core, Corrected: fixed})
		return lead + fixed + trail
	})
	return out, fixes
}

func (c *Corrector) correctWord(word string) (string, bool) {
	if utf8.RuneCountInString(word) < minCorrectLen || !isAlpha(word) || c.lex.Known(word) {
		return "", false
	}
	lower := strings.ToLower(word)
	suggestion := c.model.SpellCheck(lower)
	if suggestion == "" || suggestion == lower {
		return "", false
	}
	return matchCase(word, suggestion), true
}

// splitPunct separates leading and trailing punctuation from a token.
func splitPunct(tok string) (lead, core, trail string) {
	start := strings.IndexFunc(tok, func(r rune) bool { return !unicode.IsPunct(r) })
	if start < 0 {
		return tok, "", ""
	}
	end := strings.LastIndexFunc(tok, func(r rune) bool { return !unicode.IsPunct(r) })
	_, size := utf8.DecodeRuneInString(tok[end:])
	return tok[:start], tok[start : end+size], tok[end+size:]
}

func isAlpha(w string) bool {
	for _, r := range w {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// matchCase applies the capitalisation pattern of original to word.
func matchCase(original, word string) string {
	if utf8.RuneCountInString(original) > 1 && strings.ToUpper(original) == original {
		return strings.ToUpper(word)
	}
	first, _ := utf8.DecodeRuneInString(original)
	if unicode.IsUpper(first) {
		r, size := utf8.DecodeRuneInString(word)
		return string(unicode.ToUpper(r)) + word[size:]
	}
	return word
}
