package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/zerocost/scheduler-backend/internal/model/chat"
)

// FallbackReply is returned when a provider answers with a success status
// but no usable message content. It is a degraded success, not an error.
const FallbackReply = "Sorry, I could not respond."

// Params fixes the sampling configuration shared by every provider call.
type Params struct {
	Temperature float64
	MaxTokens   int
}

// Provider is one OpenAI-compatible chat-completions endpoint.
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewProvider builds a provider client with a bounded per-call timeout.
func NewProvider(name, baseURL, apiKey, model string, timeout time.Duration) *Provider {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Provider{
		Name:    name,
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  &http.Client{Timeout: timeout},
	}
}

// Configured reports whether the provider has a credential and can be tried.
func (p *Provider) Configured() bool {
	return p != nil && p.APIKey != "" && p.Model != ""
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type wireRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends the message sequence and returns the assistant text. A
// non-success status or transport error is a provider failure; a success
// response lacking message content yields FallbackReply.
func (p *Provider) Complete(ctx context.Context, messages []chat.Turn, params Params) (string, error) {
	wire := make([]wireMessage, len(messages))
	for i, m := range messages {
		wire[i] = wireMessage{Role: string(m.Role), Content: m.Content}
	}

	body, err := json.Marshal(wireRequest{
		Model:       p.Model,
		Messages:    wire,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider %s unreachable: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("provider %s returned status %d", p.Name, resp.StatusCode)
	}

	var parsed wireResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return FallbackReply, nil
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return FallbackReply, nil
	}
	return parsed.Choices[0].Message.Content, nil
}
