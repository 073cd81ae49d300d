package stt

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"medi-response-service/internal/observability/metrics"
)

type transcribeFunc func(ctx context.Context, pcm []byte, rate int) (string, error)

func (f transcribeFunc) Transcribe(ctx context.Context, pcm []byte, rate int) (string, error) {
	return f(ctx, pcm, rate)
}

func TestInstrument(t *testing.T) {
	m := metrics.NewMetricsWith(prometheus.NewRegistry())
	fail := false
	tr := Instrument("mock", transcribeFunc(func(ctx context.Context, pcm []byte, rate int) (string, error) {
		if fail {
			return "", errors.New("boom")
		}
		return "hello", nil
	}), m)

	got, err := tr.Transcribe(context.Background(), []byte{1}, 8000)
	if err != nil || got != "hello" {
		t.Fatalf("expected hello, got %q, %v", got, err)
	}
	fail = true
	if _, err := tr.Transcribe(context.Background(), []byte{1}, 8000); err == nil {
		t.Fatal("expected error to pass through")
	}

	if n := testutil.CollectAndCount(m.STTLatency); n != 1 {
		t.Errorf("expected 1 latency series, got %d", n)
	}
	if n := testutil.ToFloat64(m.STTErrors.WithLabelValues("mock")); n != 1 {
		t.Errorf("expected 1 error, got %v", n)
	}
}
