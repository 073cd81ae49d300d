// Package rolefilter keeps the contiguous run of relative-role sentences from
// generated text and drops everything around it.
package rolefilter

import (
	"errors"
	"fmt"
)

// State is the position of a filter pass.
type State int

const (
	// StateSeeking - no relative sentence seen yet; non-matching sentences are skipped.
	StateSeeking State = iota
	// StateEmitting - inside the relative run; matching sentences are kept.
	StateEmitting
	// StateDone - the pass is over, nothing else is examined.
	StateDone
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateSeeking:
		return "SEEKING"
	case StateEmitting:
		return "EMITTING"
	case StateDone:
		return "DONE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", s)
	}
}

// IsTerminal returns true if the state is DONE.
func (s State) IsTerminal() bool {
	return s == StateDone
}

// ErrDone is returned when a sentence is observed after the pass ended.
var ErrDone = errors.New("role filter pass is done")

// Tracker is the state machine of a single filter pass. A pass is owned by
// one call and is not safe for concurrent use.
//
// State transitions:
//
//	SEEKING  ──target──→ EMITTING ──other──→ DONE
//	SEEKING  ──other───→ SEEKING
//	EMITTING ──target──→ EMITTING
//
// Finish moves any state to DONE when the sentences run out.
type Tracker struct {
	state State
}

// NewTracker creates a tracker in SEEKING state.
func NewTracker() *Tracker {
	return &Tracker{state: StateSeeking}
}

// State returns the current state.
func (t *Tracker) State() State {
	return t.state
}

// Observe records whether the next sentence belongs to the target role and
// reports whether it should be kept.
func (t *Tracker) Observe(target bool) (bool, error) {
	switch t.state {
	case StateSeeking:
		if target {
			t.state = StateEmitting
			return true, nil
		}
		return false, nil
	case StateEmitting:
		if target {
			return true, nil
		}
		t.state = StateDone
		return false, nil
	case StateDone:
		return false, ErrDone
	default:
		return false, fmt.Errorf("unexpected state: %v", t.state)
	}
}

// Finish ends the pass. Idempotent.
func (t *Tracker) Finish() {
	t.state = StateDone
}
