// Package mock provides a mock transcriber for running without cloud credentials.
package mock

import (
	"context"
	"sync"

	"medi-response-service/internal/service/stt"
)

// DefaultUtterances are doctor lines returned in order, cycling.
var DefaultUtterances = []string{
	"Your relative is in critical condition.",
	"We are doing everything we can.",
	"The surgery went well but he is not awake yet.",
	"You can see him in a few minutes.",
	"Do you have any questions for me?",
}

// Transcriber implements stt.Transcriber with canned transcripts.
type Transcriber struct {
	mu         sync.Mutex
	utterances []string
	next       int
}

// New creates a mock transcriber. Without utterances DefaultUtterances are used.
func New(utterances ...string) *Transcriber {
	if len(utterances) == 0 {
		utterances = DefaultUtterances
	}
	return &Transcriber{utterances: utterances}
}

// Transcribe ignores the audio content and returns the next utterance.
func (t *Transcriber) Transcribe(ctx context.Context, pcm []byte, sampleRateHz int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(pcm) == 0 {
		return "", stt.ErrNoAudio
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	text := t.utterances[t.next%len(t.utterances)]
	t.next++
	return text, nil
}
