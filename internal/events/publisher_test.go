package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"medi-response-service/internal/models"
	"medi-response-service/internal/observability/metrics"
)

type testWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *testWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *testWriter) Close() error {
	w.closed = true
	return nil
}

func TestNew_DisabledMode(t *testing.T) {
	tests := []struct {
		name string
		cfg  *Config
	}{
		{"nil config", nil},
		{"disabled", &Config{Enabled: false, Brokers: []string{"localhost:9092"}}},
		{"no brokers", &Config{Enabled: true, Brokers: []string{}}},
		{"empty brokers", &Config{Enabled: true, Brokers: nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			if p == nil {
				t.Fatal("expected non-nil publisher")
			}
			if p.Enabled() {
				t.Error("expected publisher to be disabled")
			}
			if p.writerRaw != nil || p.writerFinal != nil {
				t.Error("expected nil writers when disabled")
			}
		})
	}
}

func TestNew_ConfigValues(t *testing.T) {
	p := New(&Config{
		Enabled:    false,
		Brokers:    []string{"localhost:9092"},
		TopicRaw:   "test.raw",
		TopicFinal: "test.final",
		Principal:  "test-principal",
	})

	if p.principal != "test-principal" {
		t.Errorf("expected principal 'test-principal', got %s", p.principal)
	}
	if p.topicRaw != "test.raw" {
		t.Errorf("expected topic raw 'test.raw', got %s", p.topicRaw)
	}
	if p.topicFinal != "test.final" {
		t.Errorf("expected topic final 'test.final', got %s", p.topicFinal)
	}
}

func TestPublisher_Disabled(t *testing.T) {
	p := New(&Config{Enabled: false})

	if err := p.PublishRaw(context.Background(), "sess", &models.GenerationRaw{Raw: "x"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if err := p.PublishFinal(context.Background(), "sess", &models.ResponseFinal{Response: "x"}); err != nil {
		t.Errorf("expected no error when disabled, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Errorf("expected Close to succeed when disabled, got %v", err)
	}
}

func newTestPublisher(raw, final *testWriter) *Publisher {
	return &Publisher{
		writerRaw:   raw,
		writerFinal: final,
		principal:   "svc",
		topicRaw:    "dialogue.generation.raw",
		topicFinal:  "dialogue.response.final",
		enabled:     true,
		metrics:     metrics.NewMetricsWith(prometheus.NewRegistry()),
	}
}

func TestPublisher_PublishFinal_Message(t *testing.T) {
	raw, final := &testWriter{}, &testWriter{}
	p := newTestPublisher(raw, final)

	event := &models.ResponseFinal{EventType: models.EventResponseFinal, SessionID: "sess", Response: "Thank you."}
	if err := p.PublishFinal(context.Background(), "sess", event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(raw.msgs) != 0 {
		t.Errorf("expected nothing on the raw topic, got %d", len(raw.msgs))
	}
	if len(final.msgs) != 1 {
		t.Fatalf("expected 1 final message, got %d", len(final.msgs))
	}
	msg := final.msgs[0]
	if string(msg.Key) != "sess" {
		t.Errorf("expected key sess, got %s", msg.Key)
	}
	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["eventType"] != models.EventResponseFinal || headers["principal"] != "svc" {
		t.Errorf("unexpected headers: %v", headers)
	}
	var decoded models.ResponseFinal
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("unexpected payload: %v", err)
	}
	if decoded.Response != "Thank you." {
		t.Errorf("unexpected payload response %q", decoded.Response)
	}
}

func TestPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newTestPublisher(&testWriter{err: boom}, &testWriter{})

	err := p.PublishRaw(context.Background(), "sess", &models.GenerationRaw{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected broker error, got %v", err)
	}
	n := testutil.ToFloat64(p.metrics.KafkaPublishErrors.WithLabelValues(p.topicRaw, models.EventGenerationRaw))
	if n != 1 {
		t.Errorf("expected 1 publish error, got %v", n)
	}
}

func TestPublisher_Close(t *testing.T) {
	raw, final := &testWriter{}, &testWriter{}
	p := newTestPublisher(raw, final)
	if err := p.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !raw.closed || !final.closed {
		t.Error("expected both writers to be closed")
	}
}
