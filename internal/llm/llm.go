// Package llm provides completion provider integrations for natural language
// to SQL conversion.
//
// Providers are treated as untrusted text generators: their output is never
// assumed to be valid SQL and must pass the query validation gate before it
// reaches an engine.
package llm

import (
	"context"
	"os"
	"strings"

	"github.com/intellisql/intellisql/internal/errs"
)

// Provider is the external text-completion function: a synchronous
// request/response call with no retry, backoff, or streaming.
type Provider interface {
	// Complete sends the instruction document and the user's question and
	// returns the raw completion text.
	Complete(ctx context.Context, system, question string) (string, error)

	// Name returns the provider name for logging.
	Name() string
}

// Config holds completion provider configuration.
type Config struct {
	Provider string `yaml:"provider"` // "gemini", "openai", or "anthropic"
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"-"` // from env only, never from file
}

// ConfigFromEnv reads provider configuration from environment variables.
func ConfigFromEnv() Config {
	return Config{
		Provider: strings.ToLower(strings.TrimSpace(os.Getenv("LLM_PROVIDER"))),
		APIKey:   os.Getenv("LLM_API_KEY"),
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
	}
}

// NewProvider creates a completion provider based on configuration.
func NewProvider(cfg Config) (Provider, error) {
	if cfg.Provider == "" {
		cfg.Provider = "gemini"
	}

	if cfg.APIKey == "" {
		return nil, errs.New(errs.ErrKindInvalidInput, "LLM_API_KEY is required")
	}

	switch cfg.Provider {
	case "gemini":
		if cfg.Model == "" {
			cfg.Model = "gemini-2.0-flash"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return NewGeminiProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "openai":
		if cfg.Model == "" {
			cfg.Model = "gpt-4o"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.openai.com/v1"
		}
		return NewOpenAIProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "anthropic":
		if cfg.Model == "" {
			cfg.Model = "claude-sonnet-4-20250514"
		}
		if cfg.BaseURL == "" {
			cfg.BaseURL = "https://api.anthropic.com/v1"
		}
		return NewAnthropicProvider(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	default:
		return nil, errs.New(errs.ErrKindInvalidInput,
			"unknown LLM provider "+cfg.Provider+" (supported: gemini, openai, anthropic)")
	}
}
