// Package inference talks to a chat-completion endpoint to suggest a
// medical specialty for a free-text symptom description. Every failure is
// reported to the caller as an error; the orientation service decides how
// to degrade.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrNotConfigured = errors.New("inference client not configured")
	ErrUpstream      = errors.New("inference upstream error")
)

type ClientConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Timeout  time.Duration
}

type Client struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		endpoint: strings.TrimSpace(cfg.Endpoint),
		apiKey:   strings.TrimSpace(cfg.APIKey),
		model:    strings.TrimSpace(cfg.Model),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.endpoint != "" && c.apiKey != ""
}

// Suggestion is the model's answer: a specialty name (possibly the literal
// "undefined") and an optional short commentary for the patient.
type Suggestion struct {
	Specialty string `json:"specialty"`
	Comment   string `json:"comment"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	MaxCompletionTokens int           `json:"max_completion_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// SuggestSpecialty sends the symptom text plus the specialty catalog to
// the model and parses its reply. Decoding is fully deterministic
// (temperature 0) and the reply is capped short, since only a name and a
// one-liner are expected back. If the reply is not the requested JSON
// shape, the raw text is taken as the specialty name.
func (c *Client) SuggestSpecialty(ctx context.Context, symptoms string, prompt string) (Suggestion, error) {
	if !c.IsConfigured() {
		return Suggestion{}, ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: symptoms},
		},
		Temperature:         0.0,
		MaxCompletionTokens: 60,
	})
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: marshal request: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Suggestion{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Suggestion{}, fmt.Errorf("%w: status=%d", ErrUpstream, resp.StatusCode)
	}

	var out chatResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return Suggestion{}, fmt.Errorf("%w: invalid json: %v", ErrUpstream, err)
	}
	if len(out.Choices) == 0 {
		return Suggestion{}, fmt.Errorf("%w: empty choices", ErrUpstream)
	}

	content := strings.TrimSpace(out.Choices[0].Message.Content)

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(content), &suggestion); err != nil || suggestion.Specialty == "" {
		// Degraded parse: the whole reply is treated as the specialty name.
		return Suggestion{Specialty: content}, nil
	}

	return suggestion, nil
}
