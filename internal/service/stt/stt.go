// Package stt turns spoken doctor lines into text.
package stt

import (
	"context"
	"errors"
	"time"

	"medi-response-service/internal/observability/metrics"
)

// ErrNoAudio is returned when a transcriber is given no samples.
var ErrNoAudio = errors.New("stt: no audio")

// Transcriber converts a single utterance of PCM audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, pcm []byte, sampleRateHz int) (string, error)
}

// Instrument wraps t so every call is recorded under provider.
func Instrument(provider string, t Transcriber, m *metrics.Metrics) Transcriber {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &instrumented{provider: provider, next: t, metrics: m}
}

type instrumented struct {
	provider string
	next     Transcriber
	metrics  *metrics.Metrics
}

func (i *instrumented) Transcribe(ctx context.Context, pcm []byte, sampleRateHz int) (string, error) {
	start := time.Now()
	text, err := i.next.Transcribe(ctx, pcm, sampleRateHz)
	i.metrics.RecordSTT(i.provider, err, time.Since(start).Seconds())
	return text, err
}
