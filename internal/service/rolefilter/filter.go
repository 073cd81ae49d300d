package rolefilter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"medi-response-service/internal/service/classifier"
)

// ErrClassification wraps classifier failures and malformed labels. A failed
// classification is never treated as "not the target role".
var ErrClassification = errors.New("role classification failed")

// Result describes one filter pass.
type Result struct {
	// Text is the kept sentences joined by single spaces.
	Text string
	// Kept are the target-role sentences in order.
	Kept []string
	// Skipped counts leading non-target sentences.
	Skipped int
	// Unexamined counts sentences after the break that were never classified.
	Unexamined int
	// StoppedIn is the state the pass was in when it stopped examining
	// sentences: DONE after a break, SEEKING or EMITTING when input ran out.
	StoppedIn State
}

// Filter applies the role policy with a classifier.
type Filter struct {
	classifier classifier.Classifier
}

// New creates a Filter.
func New(c classifier.Classifier) *Filter {
	return &Filter{classifier: c}
}

// Apply classifies sentences in order and keeps the first contiguous run of
// target-role sentences. Leading non-target sentences are skipped; the first
// non-target sentence after the run stops the pass. When nothing matches the
// result text is empty and the error is nil.
func (f *Filter) Apply(ctx context.Context, sentences []string) (*Result, error) {
	tr := NewTracker()
	res := &Result{}
	var acc strings.Builder

	for i, s := range sentences {
		if s == "" {
			continue
		}
		label, err := f.classifier.Classify(ctx, classifier.KindRole, s)
		if err != nil {
			return nil, fmt.Errorf("%w: sentence %d: %w", ErrClassification, i, err)
		}
		if err := label.Validate(); err != nil {
			return nil, fmt.Errorf("%w: sentence %d: %w", ErrClassification, i, err)
		}

		keep, err := tr.Observe(label.IsTarget())
		if err != nil {
			return nil, err
		}
		if keep {
			acc.WriteString(s)
			acc.WriteByte(' ')
			res.Kept = append(res.Kept, s)
			continue
		}
		if tr.State().IsTerminal() {
			res.Unexamined = len(sentences) - i - 1
			break
		}
		res.Skipped++
	}

	res.StoppedIn = tr.State()
	tr.Finish()
	res.Text = dropLast(acc.String())
	return res, nil
}

// dropLast removes the final character; empty input stays empty.
func dropLast(s string) string {
	if s == "" {
		return ""
	}
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}
