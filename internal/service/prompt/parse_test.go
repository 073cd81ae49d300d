package prompt

import (
	"strings"
	"testing"
)

func TestLastDoctorLine(t *testing.T) {
	sc := Scenario{Emotion: "fear", Setup: "It is looking bad."}
	history := []Exchange{{Doctor: "He is in surgery.", Relative: "Will he live?"}}

	tests := []struct {
		name   string
		prompt string
		want   string
	}{
		{"built prompt", sc.Build(history, "We are doing our best."), "We are doing our best."},
		{"opening", sc.Build(nil, sc.OpeningLine()), "Your relative is in critical condition. It is looking bad."},
		{"no patient tag", "[DOC] hello there", "hello there"},
		{"plain text", "just a line", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := LastDoctorLine(tt.prompt); got != tt.want {
				t.Errorf("LastDoctorLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEmotionOf(t *testing.T) {
	tests := []struct {
		prompt string
		want   string
	}{
		{Scenario{Emotion: "sadness"}.Persona(), "sadness"},
		{Scenario{Emotion: "anger"}.Build(nil, "Hello."), "anger"},
		{"[DOC] Hello. [PATIENT] ", ""},
	}

	for _, tt := range tests {
		if got := EmotionOf(tt.prompt); got != tt.want {
			t.Errorf("EmotionOf(%q) = %q, want %q", tt.prompt, got, tt.want)
		}
	}
}

func TestPersonaOf(t *testing.T) {
	sc := Scenario{Emotion: "surprise"}
	got := PersonaOf(sc.Build(nil, "Hello."))
	if want := strings.TrimSpace(sc.Persona()); got != want {
		t.Errorf("PersonaOf() = %q, want %q", got, want)
	}
}
