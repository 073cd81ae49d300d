// Package mock provides a canned Generator for local runs without a model
// server. Its continuations carry the artifacts the real model produces:
// merged words, loose punctuation, doctor lines and a cut-off tail.
package mock

import (
	"context"
	"sync"

	"medi-response-service/internal/service/generator"
)

// DefaultContinuations are cycled through in order.
var DefaultContinuations = []string{
	`I'm  so scared . . . is he going to be okay ? pleasehelp him Doctor we are doing our best and`,
	`Oh no . what happened to him ?Thank you for telling me "doctor" Your relative is`,
	`Please tell me he will recover . I cannot lose him We will do everything we`,
	`Can I see him now ? I just want to be with him. The patient is resting now and`,
	`Thank you doctor . thankyou for everything you have done. We are doing our best`,
}

// Generator returns canned continuations and records the prompts it saw.
type Generator struct {
	continuations []string

	mu      sync.Mutex
	next    int
	prompts []string
}

// New creates a mock generator. With no continuations, DefaultContinuations is used.
func New(continuations ...string) *Generator {
	if len(continuations) == 0 {
		continuations = DefaultContinuations
	}
	return &Generator{continuations: continuations}
}

// Generate implements generator.Generator.
func (g *Generator) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	out := g.continuations[g.next%len(g.continuations)]
	g.next++
	g.prompts = append(g.prompts, prompt)
	return out, nil
}

// Prompts returns the prompts received so far.
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

var _ generator.Generator = (*Generator)(nil)
