package response

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"medi-response-service/internal/observability/metrics"
	"medi-response-service/internal/service/classifier"
	"medi-response-service/internal/service/generator"
)

// testGenerator returns a fixed output and records its arguments.
type testGenerator struct {
	out       string
	err       error
	calls     int
	prompt    string
	maxLength int
}

func (g *testGenerator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	g.calls++
	g.prompt = prompt
	g.maxLength = maxLength
	return g.out, g.err
}

// testClassifier marks the listed sentences as relative.
type testClassifier struct {
	relative map[string]bool
	err      error
	calls    []string
}

func newTestClassifier(relative ...string) *testClassifier {
	c := &testClassifier{relative: map[string]bool{}}
	for _, s := range relative {
		c.relative[s] = true
	}
	return c
}

func (c *testClassifier) Classify(ctx context.Context, kind, sentence string) (classifier.RoleLabel, error) {
	c.calls = append(c.calls, sentence)
	if c.err != nil {
		return classifier.RoleLabel{}, c.err
	}
	if c.relative[sentence] {
		return classifier.Relative, nil
	}
	return classifier.Doctor, nil
}

// recordingStage is an identity resplitter and speller that records its input.
type recordingStage struct {
	inputs []string
}

func (r *recordingStage) Resplit(text string) string {
	r.inputs = append(r.inputs, text)
	return text
}

func (r *recordingStage) Correct(text string) string {
	r.inputs = append(r.inputs, text)
	return text
}

func testOptions() Options {
	return Options{
		DefaultMaxLength: generator.DefaultMaxLength,
		Provider:         "test",
		Metrics:          metrics.NewMetricsWith(prometheus.NewRegistry()),
	}
}

func TestService_Respond_Pipeline(t *testing.T) {
	gen := &testGenerator{out: "He is stable Thank you doctor . Will he recover ? and"}
	cls := newTestClassifier("He is stable.", "Thank you doctor.")
	svc := NewWithOptions(gen, cls, nil, nil, testOptions())

	got, err := svc.Respond(context.Background(), "[DOC] He is stable. [PATIENT] ", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "He is stable. Thank you doctor." {
		t.Errorf("unexpected response %q", got)
	}
	if gen.calls != 1 {
		t.Errorf("expected exactly one generation, got %d", gen.calls)
	}
	if len(cls.calls) != 3 {
		t.Errorf("expected 3 classifications, got %v", cls.calls)
	}
}

func TestService_RespondTrace_Stages(t *testing.T) {
	gen := &testGenerator{out: `Thank you ,doctor pleasehelp him "now" . he`}
	cls := newTestClassifier("Thank you, doctor please help him now.")
	svc := NewWithOptions(gen, cls, nil, nil, testOptions())

	tr, err := svc.RespondTrace(context.Background(), "p", 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Prompt != "p" || tr.Raw != gen.out {
		t.Errorf("unexpected prompt/raw in trace: %+v", tr)
	}
	if tr.Resplit != `Thank you ,doctor please help him "now" . he` {
		t.Errorf("unexpected resplit %q", tr.Resplit)
	}
	if tr.Normalized != "Thank you, doctor please help him now." {
		t.Errorf("unexpected normalized %q", tr.Normalized)
	}
	if tr.Response != "Thank you, doctor please help him now." {
		t.Errorf("unexpected response %q", tr.Response)
	}
}

func TestService_Process_StageOrder(t *testing.T) {
	stage := &recordingStage{}
	svc := NewWithOptions(&testGenerator{}, newTestClassifier(), stage, stage, testOptions())

	if _, err := svc.Process(context.Background(), "okay Doctor is here"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(stage.inputs) != 2 {
		t.Fatalf("expected resplit then correct, got %v", stage.inputs)
	}
	if stage.inputs[0] != "okay Doctor is here" {
		t.Errorf("expected resplitter to see raw text, got %q", stage.inputs[0])
	}
	if stage.inputs[1] != "okay." {
		t.Errorf("expected speller to see normalized text, got %q", stage.inputs[1])
	}
}

func TestService_Process_LeadingDoctorSentenceSkipped(t *testing.T) {
	stage := &recordingStage{}
	cls := newTestClassifier("He is stable.")
	svc := NewWithOptions(&testGenerator{}, cls, stage, stage, testOptions())

	tr, err := svc.Process(context.Background(), "Thank you doctor. He is stable.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Response != "He is stable." {
		t.Errorf("expected %q, got %q", "He is stable.", tr.Response)
	}
	if tr.Filter.Skipped != 1 {
		t.Errorf("expected 1 skipped sentence, got %d", tr.Filter.Skipped)
	}
}

func TestService_Process_EmptyRaw(t *testing.T) {
	cls := newTestClassifier()
	svc := NewWithOptions(&testGenerator{}, cls, nil, nil, testOptions())

	tr, err := svc.Process(context.Background(), "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Response != "" || len(tr.Sentences) != 0 {
		t.Errorf("expected empty result, got %+v", tr)
	}
	if len(cls.calls) != 0 {
		t.Errorf("expected no classifier calls, got %v", cls.calls)
	}
}

func TestService_Respond_NoRelativeSentence(t *testing.T) {
	opts := testOptions()
	gen := &testGenerator{out: "Your relative is in surgery."}
	svc := NewWithOptions(gen, newTestClassifier(), nil, nil, opts)

	got, err := svc.Respond(context.Background(), "p", 0)
	if err != nil {
		t.Fatalf("expected empty response without error, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty response, got %q", got)
	}
	if n := testutil.ToFloat64(opts.Metrics.ResponsesTotal.WithLabelValues(OutcomeEmpty)); n != 1 {
		t.Errorf("expected 1 empty outcome, got %v", n)
	}
}

func TestService_Respond_GenerationErrors(t *testing.T) {
	boom := errors.New("connection refused")
	tests := []struct {
		name string
		gen  *testGenerator
	}{
		{"generator error", &testGenerator{err: boom}},
		{"empty output", &testGenerator{out: ""}},
		{"whitespace output", &testGenerator{out: " \n\t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			cls := newTestClassifier()
			svc := NewWithOptions(tt.gen, cls, nil, nil, opts)

			got, err := svc.Respond(context.Background(), "p", 0)
			if !errors.Is(err, ErrGeneration) {
				t.Fatalf("expected ErrGeneration, got %v", err)
			}
			if tt.gen.err != nil && !errors.Is(err, boom) {
				t.Errorf("expected cause to be wrapped, got %v", err)
			}
			if got != "" {
				t.Errorf("expected no partial result, got %q", got)
			}
			if len(cls.calls) != 0 {
				t.Errorf("expected classifier not to run, got %v", cls.calls)
			}
			if n := testutil.ToFloat64(opts.Metrics.GenerationErrors.WithLabelValues("test")); n != 1 {
				t.Errorf("expected 1 generation error, got %v", n)
			}
		})
	}
}

func TestService_Respond_ClassificationError(t *testing.T) {
	opts := testOptions()
	cls := newTestClassifier()
	cls.err = errors.New("model not loaded")
	svc := NewWithOptions(&testGenerator{out: "I am scared."}, cls, nil, nil, opts)

	_, err := svc.Respond(context.Background(), "p", 0)
	if !errors.Is(err, ErrClassification) {
		t.Fatalf("expected ErrClassification, got %v", err)
	}
	if errors.Is(err, ErrGeneration) {
		t.Error("did not expect ErrGeneration")
	}
	if n := testutil.ToFloat64(opts.Metrics.ResponsesTotal.WithLabelValues(OutcomeClassificationError)); n != 1 {
		t.Errorf("expected 1 classification_error outcome, got %v", n)
	}
}

func TestService_Respond_MaxLength(t *testing.T) {
	tests := []struct {
		name      string
		maxLength int
		want      int
	}{
		{"default", 0, 60},
		{"negative uses default", -5, 60},
		{"explicit", 25, 25},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &testGenerator{out: "Okay."}
			svc := NewWithOptions(gen, newTestClassifier("Okay."), nil, nil, testOptions())
			if _, err := svc.Respond(context.Background(), "p", tt.maxLength); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if gen.maxLength != tt.want {
				t.Errorf("expected maxLength %d, got %d", tt.want, gen.maxLength)
			}
		})
	}
}

func TestService_Respond_RecordsSentenceMetrics(t *testing.T) {
	opts := testOptions()
	stage := &recordingStage{}
	gen := &testGenerator{out: "Oh no. Please. We will operate. Thank you."}
	svc := NewWithOptions(gen, newTestClassifier("Oh no.", "Please.", "Thank you."), stage, stage, opts)

	got, err := svc.Respond(context.Background(), "p", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Oh no. Please." {
		t.Errorf("unexpected response %q", got)
	}
	if n := testutil.ToFloat64(opts.Metrics.SentencesTotal.WithLabelValues("kept")); n != 2 {
		t.Errorf("expected 2 kept, got %v", n)
	}
	if n := testutil.ToFloat64(opts.Metrics.SentencesTotal.WithLabelValues("unexamined")); n != 1 {
		t.Errorf("expected 1 unexamined, got %v", n)
	}
}
