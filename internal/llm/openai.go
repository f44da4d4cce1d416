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

// OpenAIProvider implements Provider for OpenAI-compatible APIs.
// This works with OpenAI, OpenRouter, Together.ai, Groq, and other
// compatible services.
type OpenAIProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible provider.
func NewOpenAIProvider(apiKey, model, baseURL string) *OpenAIProvider {
	return &OpenAIProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Name returns the provider name.
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Complete sends the instruction document and question to the chat
// completions endpoint and returns the raw completion text.
func (p *OpenAIProvider) Complete(ctx context.Context, system, question string) (string, error) {
	payload := openAIRequest{
		Model: p.model,
		Messages: []openAIMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: question},
		},
		Temperature: 0, // deterministic for SQL generation
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to marshal request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to create request", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

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
		var errResp openAIErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error.Message != "" {
			return "", errs.New(errs.ErrKindCompletion, errResp.Error.Message)
		}
		return "", errs.New(errs.ErrKindCompletion, fmt.Sprintf("API returned status %d", resp.StatusCode))
	}

	var result openAIResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", errs.Wrap(errs.ErrKindCompletion, "failed to parse response", err)
	}

	if len(result.Choices) == 0 {
		return "", errs.New(errs.ErrKindCompletion, "no response from model")
	}

	return result.Choices[0].Message.Content, nil
}

// OpenAI API request/response types

type openAIRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []struct {
		Message openAIMessage `json:"message"`
	} `json:"choices"`
}

type openAIErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
