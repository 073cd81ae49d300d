// Package models defines the data structures for dialogue events.
package models

// Event types carried in the eventType field and Kafka header.
const (
	EventGenerationRaw = "generation.raw"
	EventResponseFinal = "response.final"
)

// GenerationRaw is the unprocessed model output for one turn.
type GenerationRaw struct {
	EventType string `json:"eventType" jsonschema:"enum=generation.raw"`
	SessionID string `json:"sessionId" jsonschema_description:"Dialogue session the turn belongs to"`
	TurnID    string `json:"turnId" jsonschema_description:"Turn identifier, <sessionId>-turn-<n>"`
	Timestamp int64  `json:"timestamp" jsonschema_description:"Unix milliseconds when generation finished"`
	Provider  string `json:"provider" jsonschema_description:"Generator backend that produced the text"`
	Prompt    string `json:"prompt"`
	MaxLength int    `json:"maxLength"`
	Raw       string `json:"raw" jsonschema_description:"Generated text before post-processing"`
}

// ResponseFinal is the filtered relative reply for one turn.
type ResponseFinal struct {
	EventType  string `json:"eventType" jsonschema:"enum=response.final"`
	SessionID  string `json:"sessionId"`
	TurnID     string `json:"turnId"`
	Timestamp  int64  `json:"timestamp"`
	Emotion    string `json:"emotion,omitempty" jsonschema_description:"Persona emotion of the session"`
	Doctor     string `json:"doctor" jsonschema_description:"Doctor line the relative answers"`
	Response   string `json:"response" jsonschema_description:"Relative reply after role filtering, may be empty"`
	Sentences  int    `json:"sentences" jsonschema_description:"Sentences produced by segmentation"`
	Kept       int    `json:"kept"`
	Skipped    int    `json:"skipped"`
	Unexamined int    `json:"unexamined"`
}
