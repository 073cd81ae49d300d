package generator

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the GPT-2 byte-pair encoding.
const DefaultEncoding = "r50k_base"

// Tokenizer is the subset of tiktoken used for budgeting.
type Tokenizer interface {
	Encode(text string, allowedSpecial []string, disallowedSpecial []string) []int
	Decode(tokens []int) string
}

// Budget trims prompts so prompt plus requested tokens fit the model context.
// The end of the prompt is kept because it carries the latest doctor line.
type Budget struct {
	next          Generator
	tok           Tokenizer
	contextTokens int
}

// NewBudget wraps next with a tiktoken encoding.
func NewBudget(next Generator, encoding string, contextTokens int) (*Budget, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("load encoding %s: %w", encoding, err)
	}
	return NewBudgetWith(next, enc, contextTokens), nil
}

// NewBudgetWith wraps next with an explicit tokenizer.
func NewBudgetWith(next Generator, tok Tokenizer, contextTokens int) *Budget {
	return &Budget{next: next, tok: tok, contextTokens: contextTokens}
}

// Count returns the number of tokens in text.
func (b *Budget) Count(text string) int {
	return len(b.tok.Encode(text, nil, nil))
}

// Fit returns prompt cut down to the last contextTokens-maxLength tokens.
func (b *Budget) Fit(prompt string, maxLength int) string {
	limit := b.contextTokens - maxLength
	if b.contextTokens <= 0 || limit <= 0 {
		return prompt
	}
	tokens := b.tok.Encode(prompt, nil, nil)
	if len(tokens) <= limit {
		return prompt
	}
	return b.tok.Decode(tokens[len(tokens)-limit:])
}

// Generate implements Generator.
func (b *Budget) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	return b.next.Generate(ctx, b.Fit(prompt, maxLength), maxLength)
}
