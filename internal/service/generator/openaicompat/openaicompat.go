// Package openaicompat is a Generator for OpenAI-compatible chat completion
// endpoints, including local servers exposing the same API.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"

	"medi-response-service/internal/service/generator"
)

// Config holds the endpoint settings. An empty BaseURL uses api.openai.com.
type Config struct {
	BaseURL  string
	APIKey   string
	Model    string
	Sampling generator.Sampling
	System   string
}

// Client implements generator.Generator using the official SDK.
type Client struct {
	client   *openai.Client
	model    string
	sampling generator.Sampling
	system   string
}

// New creates a Client.
func New(cfg Config) *Client {
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"))
	}
	client := openai.NewClient(opts...)

	system := cfg.System
	if system == "" {
		system = generator.SystemInstruction
	}
	return &Client{
		client:   &client,
		model:    cfg.Model,
		sampling: cfg.Sampling,
		system:   system,
	}
}

// Generate implements generator.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: param.Opt[string]{Value: c.system},
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: param.Opt[string]{Value: prompt},
					},
				},
			},
		},
		MaxCompletionTokens: openai.Int(int64(maxLength)),
		Temperature:         openai.Float(c.sampling.Temperature),
		TopP:                openai.Float(c.sampling.TopP),
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai completion: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
