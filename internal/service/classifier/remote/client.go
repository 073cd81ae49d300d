// Package remote is a Classifier backed by the role-model HTTP service.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"medi-response-service/internal/service/classifier"
)

// Config holds the classifier endpoint settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client posts sentences to {BaseURL}/classify.
type Client struct {
	baseURL string
	c       *http.Client
}

// New creates a Client. A zero timeout defaults to 10 seconds.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		c:       &http.Client{Timeout: timeout},
	}
}

type classifyReq struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

type classifyResp struct {
	Label []int `json:"label"`
}

// Classify implements classifier.Classifier.
func (h *Client) Classify(ctx context.Context, kind, sentence string) (classifier.RoleLabel, error) {
	b, _ := json.Marshal(classifyReq{Kind: kind, Text: sentence})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+"/classify", bytes.NewReader(b))
	if err != nil {
		return classifier.RoleLabel{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(req)
	if err != nil {
		return classifier.RoleLabel{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return classifier.RoleLabel{}, fmt.Errorf("classify %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var out classifyResp
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return classifier.RoleLabel{}, fmt.Errorf("classify decode: %w", err)
	}
	return classifier.ParseRoleLabel(out.Label)
}
