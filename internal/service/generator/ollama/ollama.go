// Package ollama is a Generator backed by a local Ollama server running the
// fine-tuned dialogue model.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medi-response-service/internal/service/generator"
)

// Config holds the Ollama connection settings.
type Config struct {
	BaseURL  string
	Model    string
	Timeout  time.Duration
	Sampling generator.Sampling
}

type options struct {
	NumPredict    int     `json:"num_predict"`
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	TopK          int     `json:"top_k"`
	RepeatPenalty float64 `json:"repeat_penalty"`
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Raw     bool    `json:"raw"`
	Stream  bool    `json:"stream"`
	Options options `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Client calls /api/generate in raw mode so the prompt's speaker tags reach
// the model untouched.
type Client struct {
	baseURL  string
	model    string
	sampling generator.Sampling
	http     *http.Client
}

// New creates a Client. A zero timeout defaults to 120 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		model:    cfg.Model,
		sampling: cfg.Sampling,
		http:     &http.Client{Timeout: timeout},
	}
}

// Generate implements generator.Generator.
func (c *Client) Generate(ctx context.Context, prompt string, maxLength int) (string, error) {
	reqBody, _ := json.Marshal(generateRequest{
		Model:  c.model,
		Prompt: prompt,
		Raw:    true,
		Stream: false,
		Options: options{
			NumPredict:    maxLength,
			Temperature:   c.sampling.Temperature,
			TopP:          c.sampling.TopP,
			TopK:          c.sampling.TopK,
			RepeatPenalty: c.sampling.RepeatPenalty,
		},
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("ollama generate %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("ollama generate decode: %w", err)
	}
	return out.Response, nil
}

// Ping checks that the server is reachable.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama status %d", resp.StatusCode)
	}
	return nil
}
