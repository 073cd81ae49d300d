// Package mock provides a keyword-based role classifier for local runs and
// tests without the role-model service.
package mock

import (
	"context"
	"strings"
	"sync"

	"medi-response-service/internal/service/classifier"
)

// DoctorCues are phrases that mark a sentence as spoken by the doctor.
var DoctorCues = []string{
	"your relative",
	"the patient",
	"we are doing",
	"we're doing",
	"we will",
	"condition",
	"i'm sorry to tell",
	"treatment",
	"surgery",
	"[doc]",
}

// Classifier labels sentences containing a doctor cue as doctor and
// everything else as relative. It records every sentence it was asked about.
type Classifier struct {
	cues []string

	mu    sync.Mutex
	calls []string
}

// New creates a mock classifier. With no cues, DoctorCues is used.
func New(cues ...string) *Classifier {
	if len(cues) == 0 {
		cues = DoctorCues
	}
	lower := make([]string, len(cues))
	for i, c := range cues {
		lower[i] = strings.ToLower(c)
	}
	return &Classifier{cues: lower}
}

// Classify implements classifier.Classifier.
func (c *Classifier) Classify(ctx context.Context, kind, sentence string) (classifier.RoleLabel, error) {
	if err := ctx.Err(); err != nil {
		return classifier.RoleLabel{}, err
	}
	c.mu.Lock()
	c.calls = append(c.calls, sentence)
	c.mu.Unlock()

	s := strings.ToLower(sentence)
	for _, cue := range c.cues {
		if strings.Contains(s, cue) {
			return classifier.Doctor, nil
		}
	}
	return classifier.Relative, nil
}

// Calls returns the sentences classified so far.
func (c *Classifier) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}
