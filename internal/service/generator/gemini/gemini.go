// Package gemini is a Generator backed by the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"

	"medi-response-service/internal/service/generator"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.5-flash"

// Config holds the Gemini settings.
type Config struct {
	APIKey   string
	Model    string
	Sampling generator.Sampling
	System   string
}

// Client implements generator.Generator.
type Client struct {
	client   *genai.Client
	model    string
	sampling generator.Sampling
	system   string
}

// New creates a Client.
func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.APIKey})
	if err != nil {
		return nil, err
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	system := cfg.System
	if system == "" {
		system = generator.SystemInstruction
	}
	return &Client{client: client, model: model, sampling: cfg.Sampling, system: system}, nil
}

// Generate implements generator.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(c.system, genai.RoleModel),
		MaxOutputTokens:   int32(maxLength),
		Temperature:       ptr(float32(c.sampling.Temperature)),
		TopP:              ptr(float32(c.sampling.TopP)),
		TopK:              ptr(float32(c.sampling.TopK)),
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return result.Text(), nil
}

func ptr[T any](v T) *T { return &v }
