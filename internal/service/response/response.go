// Package response turns a dialogue prompt into the relative's reply: one
// generation followed by resplitting, normalization, spell correction,
// sentence splitting and role filtering, always in that order.
package response

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"medi-response-service/internal/observability/logging"
	"medi-response-service/internal/observability/metrics"
	"medi-response-service/internal/service/classifier"
	"medi-response-service/internal/service/generator"
	"medi-response-service/internal/service/rolefilter"
	"medi-response-service/internal/service/spelling"
	"medi-response-service/internal/service/textproc"
	"medi-response-service/internal/service/wordseg"
)

var (
	// ErrGeneration wraps generator failures and empty generations.
	ErrGeneration = errors.New("generation failed")
	// ErrClassification wraps classifier failures and malformed labels.
	ErrClassification = rolefilter.ErrClassification
)

// Response outcomes used as metric labels.
const (
	OutcomeOK                  = "ok"
	OutcomeEmpty               = "empty"
	OutcomeGenerationError     = "generation_error"
	OutcomeClassificationError = "classification_error"
)

// Resplitter separates run-together words.
type Resplitter interface {
	Resplit(text string) string
}

// Speller corrects isolated misspellings.
type Speller interface {
	Correct(text string) string
}

// reportingSpeller is implemented by spellers that can list their corrections.
type reportingSpeller interface {
	CorrectWithReport(text string) (string, []spelling.Correction)
}

// Trace holds every intermediate value of one call.
type Trace struct {
	Prompt      string
	Raw         string
	Resplit     string
	Normalized  string
	Corrected   string
	Corrections []spelling.Correction
	Sentences   []string
	Filter      *rolefilter.Result
	Response    string
}

// Options tunes a Service.
type Options struct {
	// DefaultMaxLength is used when Respond is called with maxLength <= 0.
	DefaultMaxLength int
	// Provider labels generation metrics.
	Provider string
	Metrics  *metrics.Metrics
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		DefaultMaxLength: generator.DefaultMaxLength,
		Provider:         "unknown",
		Metrics:          metrics.DefaultMetrics,
	}
}

// Service is the response orchestrator. It holds no per-call state and may be
// shared across goroutines.
type Service struct {
	gen        generator.Generator
	filter     *rolefilter.Filter
	resplitter Resplitter
	speller    Speller
	opts       Options
	logger     zerolog.Logger
}

// New creates a Service with default options. A nil resplitter or speller
// uses the embedded lexicon.
func New(gen generator.Generator, cls classifier.Classifier, resplitter Resplitter, speller Speller) *Service {
	return NewWithOptions(gen, cls, resplitter, speller, DefaultOptions())
}

// NewWithOptions creates a Service with custom options.
func NewWithOptions(gen generator.Generator, cls classifier.Classifier, resplitter Resplitter, speller Speller, opts Options) *Service {
	if resplitter == nil {
		resplitter = wordseg.New(nil)
	}
	if speller == nil {
		speller = spelling.New(nil, spelling.DefaultDepth)
	}
	if opts.DefaultMaxLength <= 0 {
		opts.DefaultMaxLength = generator.DefaultMaxLength
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultMetrics
	}
	if opts.Provider == "" {
		opts.Provider = "unknown"
	}
	return &Service{
		gen:        gen,
		filter:     rolefilter.New(cls),
		resplitter: resplitter,
		speller:    speller,
		opts:       opts,
		logger:     logging.WithComponent("response"),
	}
}

// Respond generates once for prompt and returns the filtered relative reply.
// The reply is empty when no generated sentence belongs to the relative.
func (s *Service) Respond(ctx context.Context, prompt string, maxLength int) (string, error) {
	tr, err := s.RespondTrace(ctx, prompt, maxLength)
	if err != nil {
		return "", err
	}
	return tr.Response, nil
}

// RespondTrace is Respond returning every intermediate stage.
func (s *Service) RespondTrace(ctx context.Context, prompt string, maxLength int) (*Trace, error) {
	start := time.Now()
	if maxLength <= 0 {
		maxLength = s.opts.DefaultMaxLength
	}

	genStart := time.Now()
	raw, err := s.gen.Generate(ctx, prompt, maxLength)
	if err == nil && strings.TrimSpace(raw) == "" {
		err = errors.New("empty output")
	}
	s.opts.Metrics.RecordGeneration(s.opts.Provider, err, time.Since(genStart).Seconds())
	if err != nil {
		s.opts.Metrics.RecordResponse(OutcomeGenerationError, time.Since(start).Seconds())
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	tr, err := s.Process(ctx, raw)
	if err != nil {
		s.opts.Metrics.RecordResponse(OutcomeClassificationError, time.Since(start).Seconds())
		return nil, err
	}
	tr.Prompt = prompt

	outcome := OutcomeOK
	if tr.Response == "" {
		outcome = OutcomeEmpty
	}
	s.opts.Metrics.RecordResponse(outcome, time.Since(start).Seconds())
	s.opts.Metrics.RecordResponseWords(len(strings.Fields(tr.Response)))

	s.logger.Debug().
		Int("maxLength", maxLength).
		Int("rawLen", len(raw)).
		Int("sentences", len(tr.Sentences)).
		Int("kept", len(tr.Filter.Kept)).
		Str("stoppedIn", tr.Filter.StoppedIn.String()).
		Dur("took", time.Since(start)).
		Msg("response generated")

	return tr, nil
}

// Process runs the post-processing stages on an already generated string.
// An empty raw string yields an empty response without error.
func (s *Service) Process(ctx context.Context, raw string) (*Trace, error) {
	tr := &Trace{Raw: raw}

	tr.Resplit = s.resplitter.Resplit(raw)
	tr.Normalized = textproc.Normalize(tr.Resplit)
	if rs, ok := s.speller.(reportingSpeller); ok {
		tr.Corrected, tr.Corrections = rs.CorrectWithReport(tr.Normalized)
	} else {
		tr.Corrected = s.speller.Correct(tr.Normalized)
	}
	s.opts.Metrics.RecordCorrections(len(tr.Corrections))
	tr.Sentences = textproc.SplitSentences(tr.Corrected)

	filterStart := time.Now()
	res, err := s.filter.Apply(ctx, tr.Sentences)
	s.opts.Metrics.RecordClassification(err, time.Since(filterStart).Seconds())
	if err != nil {
		return nil, err
	}
	s.opts.Metrics.RecordSentences(len(res.Kept), res.Skipped, res.Unexamined)

	tr.Filter = res
	tr.Response = res.Text
	return tr, nil
}
