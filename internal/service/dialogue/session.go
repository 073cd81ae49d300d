// Package dialogue runs a doctor/relative conversation: an opening doctor
// turn followed by a bounded number of doctor lines, each answered by a
// Responder.
package dialogue

import (
	"context"
	"errors"
	"strings"

	"medi-response-service/internal/service/prompt"
)

// DefaultTurns is the number of doctor lines after the opening turn.
const DefaultTurns = 4

var (
	ErrNotOpened   = errors.New("dialogue: session not opened")
	ErrSessionOver = errors.New("dialogue: no turns left")
	ErrEmptyLine   = errors.New("dialogue: empty doctor line")
)

// Responder produces the relative reply for a full prompt.
type Responder interface {
	Respond(ctx context.Context, prompt string, maxLength int) (string, error)
}

// ResponderFunc adapts a function to the Responder interface.
type ResponderFunc func(ctx context.Context, prompt string, maxLength int) (string, error)

func (f ResponderFunc) Respond(ctx context.Context, prompt string, maxLength int) (string, error) {
	return f(ctx, prompt, maxLength)
}

type Options struct {
	Turns     int
	MaxLength int // <= 0 leaves the choice to the Responder
	// KeepHistory includes earlier exchanges in every prompt. Without it each
	// prompt is the persona plus the current doctor line.
	KeepHistory bool
}

func DefaultOptions() Options {
	return Options{Turns: DefaultTurns}
}

// Session is one conversation. Not safe for concurrent use.
type Session struct {
	ID       string
	Scenario prompt.Scenario

	responder Responder
	opts      Options
	history   []prompt.Exchange
	opened    bool
	used      int
}

func New(id string, sc prompt.Scenario, r Responder, opts Options) *Session {
	if opts.Turns <= 0 {
		opts.Turns = DefaultTurns
	}
	return &Session{ID: id, Scenario: sc, responder: r, opts: opts}
}

// Open plays the opening doctor line. Calling Open again returns the
// first exchange without a new generation.
func (s *Session) Open(ctx context.Context) (prompt.Exchange, error) {
	if s.opened {
		return s.history[0], nil
	}
	ex, err := s.exchange(ctx, s.Scenario.OpeningLine())
	if err != nil {
		return prompt.Exchange{}, err
	}
	s.opened = true
	return ex, nil
}

// Reply answers one doctor line.
func (s *Session) Reply(ctx context.Context, line string) (prompt.Exchange, error) {
	if !s.opened {
		return prompt.Exchange{}, ErrNotOpened
	}
	if s.Done() {
		return prompt.Exchange{}, ErrSessionOver
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return prompt.Exchange{}, ErrEmptyLine
	}
	ex, err := s.exchange(ctx, line)
	if err != nil {
		return prompt.Exchange{}, err
	}
	s.used++
	return ex, nil
}

// Prompt returns the prompt the next Reply with line would send.
func (s *Session) Prompt(line string) string {
	var history []prompt.Exchange
	if s.opts.KeepHistory {
		history = s.history
	}
	return s.Scenario.Build(history, line)
}

// Remaining is the number of doctor lines still allowed.
func (s *Session) Remaining() int { return s.opts.Turns - s.used }

// Done reports whether every turn has been used.
func (s *Session) Done() bool { return s.Remaining() <= 0 }

// History returns a copy of the exchanges so far, opening first.
func (s *Session) History() []prompt.Exchange {
	out := make([]prompt.Exchange, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) exchange(ctx context.Context, line string) (prompt.Exchange, error) {
	reply, err := s.responder.Respond(ctx, s.Prompt(line), s.opts.MaxLength)
	if err != nil {
		return prompt.Exchange{}, err
	}
	ex := prompt.Exchange{Doctor: line, Relative: reply}
	s.history = append(s.history, ex)
	return ex, nil
}
