// Package schema validates dialogue events before they are published and
// exposes their JSON Schema documents.
package schema

import (
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"medi-response-service/internal/models"
	"medi-response-service/internal/service/turn"
)

// ErrInvalidEvent wraps every validation failure.
var ErrInvalidEvent = errors.New("invalid event")

// ErrUnknownEventType is returned for event types with no schema.
var ErrUnknownEventType = errors.New("unknown event type")

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// Validate checks required fields and cross-field consistency.
func (v *Validator) Validate(event any) error {
	var errs []string
	switch e := event.(type) {
	case *models.GenerationRaw:
		errs = checkCommon(errs, e.EventType, models.EventGenerationRaw, e.SessionID, e.TurnID, e.Timestamp)
		if e.Provider == "" {
			errs = append(errs, "provider is required")
		}
		if e.MaxLength <= 0 {
			errs = append(errs, "maxLength must be positive")
		}
	case *models.ResponseFinal:
		errs = checkCommon(errs, e.EventType, models.EventResponseFinal, e.SessionID, e.TurnID, e.Timestamp)
		if e.Kept < 0 || e.Skipped < 0 || e.Unexamined < 0 {
			errs = append(errs, "sentence counts must not be negative")
		}
		if e.Kept+e.Skipped+e.Unexamined > e.Sentences {
			errs = append(errs, "sentence counts exceed sentences")
		}
		if e.Response == "" && e.Kept > 0 {
			errs = append(errs, "empty response with kept sentences")
		}
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEventType, event)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidEvent, strings.Join(errs, "; "))
	}
	return nil
}

func checkCommon(errs []string, eventType, want, sessionID, turnID string, ts int64) []string {
	if eventType != want {
		errs = append(errs, fmt.Sprintf("eventType must be %q", want))
	}
	if sessionID == "" {
		errs = append(errs, "sessionId is required")
	}
	if session, _, err := turn.Parse(turnID); err != nil {
		errs = append(errs, "turnId is malformed")
	} else if sessionID != "" && session != sessionID {
		errs = append(errs, "turnId does not belong to sessionId")
	}
	if ts <= 0 {
		errs = append(errs, "timestamp is required")
	}
	return errs
}

// EventTypes lists the event types with a schema document.
func EventTypes() []string {
	return []string{models.EventGenerationRaw, models.EventResponseFinal}
}

// Document returns the JSON Schema of an event type.
func Document(eventType string) (*jsonschema.Schema, error) {
	switch eventType {
	case models.EventGenerationRaw:
		return reflectSchema[models.GenerationRaw](), nil
	case models.EventResponseFinal:
		return reflectSchema[models.ResponseFinal](), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, eventType)
	}
}

func reflectSchema[T any]() *jsonschema.Schema {
	r := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return r.Reflect(v)
}
