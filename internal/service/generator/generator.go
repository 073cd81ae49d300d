// Package generator defines the text generator that produces raw relative
// continuations for a dialogue prompt.
package generator

import "context"

// DefaultMaxLength is the number of new tokens requested when the caller
// does not specify one.
const DefaultMaxLength = 60

// Provider names accepted in configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"
)

// Generator maps a prompt to a raw continuation.
type Generator interface {
	// Generate returns up to maxLength new tokens continuing prompt.
	// Output may be sampled and is not expected to be deterministic.
	Generate(ctx context.Context, prompt string, maxLength int) (string, error)
}

// Func adapts a function to the Generator interface.
type Func func(ctx context.Context, prompt string, maxLength int) (string, error)

func (f Func) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	return f(ctx, prompt, maxLength)
}

// Sampling holds decoding parameters shared by the model backends.
type Sampling struct {
	Temperature   float64
	TopP          float64
	TopK          int
	RepeatPenalty float64
}

// DefaultSampling matches the settings the dialogue model was tuned with.
func DefaultSampling() Sampling {
	return Sampling{
		Temperature:   0.2,
		TopP:          0.88,
		TopK:          56,
		RepeatPenalty: 1.005,
	}
}

// SystemInstruction is sent to chat-style backends that need to be told to
// continue the transcript rather than answer it.
const SystemInstruction = "You continue hospital dialogue transcripts. " +
	"Write only what the patient's relative says next, in plain English, without speaker tags."
