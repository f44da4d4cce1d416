package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/intellisql/intellisql/internal/errs"
)

const anthropicAPIVersion = "2023-06-01"

// AnthropicProvider implements Provider for Anthropic's Messages API.
type AnthropicProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewAnthropicProvider creates a new Anthropic provider.
func NewAnthropicProvider(apiKey, model, baseURL string) *AnthropicProvider {
	return &AnthropicProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name.
func (p *AnthropicProvider) Name() string {
	return "anthropic"
}

// Complete sends the instruction document and question to the messages
// endpoint and returns the raw completion text.
func (p *AnthropicProvider) Complete(ctx context.Context, system, question string) (string, error) {
	payload := anthropicRequest{
		Model:     p.model,
		System:    system,
		MaxTokens: 1024,
		Messages: []anthropicMessage{
			{Role: "user", Content: question},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "completion request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to read response", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp anthropicErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", errs.New(errs.ErrKindCompletion, errResp.Error.Message)
		}
		return "", errs.New(errs.ErrKindCompletion, fmt.Sprintf("API returned status %d", resp.StatusCode))
	}

	var result anthropicResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to parse response", err)
	}

	for _, block := range result.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", errs.New(errs.ErrKindCompletion, "no text in response")
}

// Anthropic API request/response types

type anthropicRequest struct {
	Model     string             `json:"model"`
	System    string             `json:"system,omitempty"`
	Messages  []anthropicMessage `json:"messages"`
	MaxTokens int                `json:"max_tokens"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

type anthropicErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
