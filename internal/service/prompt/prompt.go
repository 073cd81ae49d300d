// Package prompt builds the tagged prompts the dialogue model was trained on
// and the scenarios they are drawn from.
package prompt

import (
	"fmt"
	"strings"
)

// Speaker tags understood by the dialogue model.
const (
	TagBOS     = "[BOS]"
	TagPersona = "[PERSONA]"
	TagDoctor  = "[DOC]"
	TagPatient = "[PATIENT]"
)

// Scenario is one simulated situation.
type Scenario struct {
	Emotion   string `json:"emotion"`
	Setup     string `json:"setup"`
	Cause     string `json:"cause,omitempty"`
	Relation  string `json:"relation,omitempty"`
	Condition string `json:"condition,omitempty"`
}

// Persona is the prompt prefix that fixes who the model speaks as.
func (s Scenario) Persona() string {
	return fmt.Sprintf("%s %s You are a relative of a hospitalized patient. "+
		"The patient is in critical condition. You are feeling %s. ", TagBOS, TagPersona, s.Emotion)
}

// OpeningLine is the doctor's first line.
func (s Scenario) OpeningLine() string {
	return strings.TrimSpace("Your relative is in critical condition. " + s.Setup)
}

// Setting describes the scenario to the person playing the doctor.
func (s Scenario) Setting() string {
	return "Setting: You encounter a relative of a hospitalized patient who has been " +
		"recently informed about their critical condition. Upon hearing this news, they feel " +
		s.Emotion + "."
}

// Background gives the optional scenario details in one sentence, or "" when
// none are set.
func (s Scenario) Background() string {
	var parts []string
	if s.Relation != "" {
		parts = append(parts, "the patient is their "+s.Relation)
	}
	if s.Cause != "" {
		parts = append(parts, "admitted after a "+s.Cause)
	}
	if s.Condition != "" {
		parts = append(parts, "current condition: "+s.Condition)
	}
	if len(parts) == 0 {
		return ""
	}
	b := strings.Join(parts, ", ")
	return strings.ToUpper(b[:1]) + b[1:] + "."
}

// Exchange is one past doctor line and the relative's reply.
type Exchange struct {
	Doctor   string
	Relative string
}

// DoctorTurn formats a doctor line that the model should answer.
func DoctorTurn(line string) string {
	return TagDoctor + " " + strings.TrimSpace(line) + " " + TagPatient + " "
}

// Build returns persona, the given history and the new doctor line, ready
// for generation.
func (s Scenario) Build(history []Exchange, line string) string {
	var b strings.Builder
	b.WriteString(s.Persona())
	for _, ex := range history {
		b.WriteString(DoctorTurn(ex.Doctor))
		if r := strings.TrimSpace(ex.Relative); r != "" {
			b.WriteString(r)
			b.WriteByte(' ')
		}
	}
	b.WriteString(DoctorTurn(line))
	return b.String()
}
