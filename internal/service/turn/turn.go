// Package turn generates dialogue session and turn identifiers.
package turn

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"
)

const separator = "-turn-"

// ErrInvalidTurnId is returned by Parse for ids not produced by a Generator.
var ErrInvalidTurnId = errors.New("invalid turn id")

// NewSessionId returns a new time-ordered session id.
func NewSessionId() string {
	return ksuid.New().String()
}

// Generator numbers turns per session, starting at 1. Thread-safe.
type Generator struct {
	mu       sync.Mutex
	counters map[string]int
}

func New() *Generator {
	return &Generator{counters: make(map[string]int)}
}

// Next returns the next turn id for sessionId.
func (g *Generator) Next(sessionId string) string {
	g.mu.Lock()
	g.counters[sessionId]++
	n := g.counters[sessionId]
	g.mu.Unlock()
	return fmt.Sprintf("%s%s%d", sessionId, separator, n)
}

// Resume makes the next id for sessionId follow last, for sessions restored
// from the history store.
func (g *Generator) Resume(sessionId string, last int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if last > g.counters[sessionId] {
		g.counters[sessionId] = last
	}
}

// Forget drops the counter of a finished session.
func (g *Generator) Forget(sessionId string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.counters, sessionId)
}

// Parse splits a turn id into its session id and number.
func Parse(turnId string) (string, int, error) {
	i := strings.LastIndex(turnId, separator)
	if i <= 0 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidTurnId, turnId)
	}
	n, err := strconv.Atoi(turnId[i+len(separator):])
	if err != nil || n < 1 {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidTurnId, turnId)
	}
	return turnId[:i], n, nil
}
