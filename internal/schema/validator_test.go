package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"medi-response-service/internal/models"
)

func validFinal() *models.ResponseFinal {
	return &models.ResponseFinal{
		EventType: models.EventResponseFinal,
		SessionID: "sess",
		TurnID:    "sess-turn-1",
		Timestamp: 1700000000000,
		Doctor:    "He is stable.",
		Response:  "Thank you doctor.",
		Sentences: 2,
		Kept:      1,
		Skipped:   1,
	}
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	tests := []struct {
		name    string
		mutate  func(e *models.ResponseFinal)
		wantErr string
	}{
		{"valid", func(e *models.ResponseFinal) {}, ""},
		{"empty response allowed", func(e *models.ResponseFinal) { e.Response = ""; e.Kept = 0 }, ""},
		{"wrong type", func(e *models.ResponseFinal) { e.EventType = "x" }, "eventType"},
		{"missing session", func(e *models.ResponseFinal) { e.SessionID = "" }, "sessionId is required"},
		{"foreign turn", func(e *models.ResponseFinal) { e.TurnID = "other-turn-1" }, "does not belong"},
		{"bad turn", func(e *models.ResponseFinal) { e.TurnID = "sess" }, "turnId is malformed"},
		{"no timestamp", func(e *models.ResponseFinal) { e.Timestamp = 0 }, "timestamp"},
		{"counts too high", func(e *models.ResponseFinal) { e.Unexamined = 5 }, "exceed"},
		{"kept without text", func(e *models.ResponseFinal) { e.Response = "" }, "empty response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validFinal()
			tt.mutate(e)
			err := v.Validate(e)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error to mention %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidator_GenerationRaw(t *testing.T) {
	v := New()
	e := &models.GenerationRaw{
		EventType: models.EventGenerationRaw,
		SessionID: "sess",
		TurnID:    "sess-turn-3",
		Timestamp: 1,
		Provider:  "mock",
		MaxLength: 60,
		Raw:       "",
	}
	if err := v.Validate(e); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	e.MaxLength = 0
	if err := v.Validate(e); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestValidator_UnknownType(t *testing.T) {
	if err := New().Validate(map[string]string{}); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("expected ErrUnknownEventType, got %v", err)
	}
}

func TestDocument(t *testing.T) {
	for _, et := range EventTypes() {
		doc, err := Document(et)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", et, err)
		}
		b, err := json.Marshal(doc)
		if err != nil {
			t.Fatalf("%s: marshal: %v", et, err)
		}
		if !strings.Contains(string(b), `"sessionId"`) {
			t.Errorf("%s: expected sessionId property in %s", et, b)
		}
	}
	if _, err := Document("nope"); !errors.Is(err, ErrUnknownEventType) {
		t.Errorf("expected ErrUnknownEventType, got %v", err)
	}
}
