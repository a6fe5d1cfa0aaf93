package interpreter

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/metrics"
)

// ProviderType represents the type of interpretation provider.
type ProviderType string

const (
	// ProviderTypeOpenAI represents any OpenAI-compatible chat completions API (Groq by default).
	ProviderTypeOpenAI ProviderType = "openai"
	// ProviderTypeAnthropic represents the Anthropic Messages API.
	ProviderTypeAnthropic ProviderType = "anthropic"
	// ProviderTypeGoogle represents the Gemini API.
	ProviderTypeGoogle ProviderType = "google"
)

// Defaults for the OpenAI-compatible provider.
const (
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "llama-3.1-8b-instant"
)

const (
	defaultAnthropicModel = "claude-3-5-haiku-latest"
	defaultGoogleModel    = "gemini-2.0-flash"
)

// Config holds configuration for creating an interpreter.
type Config struct {
	Type    ProviderType  // Type of provider to create
	APIKey  string        // API key, required by every provider
	BaseURL string        // Base URL override
	Model   string        // Model name; provider default when empty
	Timeout time.Duration // HTTP timeout for a single request
	Metrics *metrics.Metrics
	Logger  *slog.Logger
}

// New creates an interpreter for the configured provider.
func New(config Config) (*Interpreter, error) {
	backend, err := NewBackend(config)
	if err != nil {
		return nil, err
	}

	return NewInterpreter(backend, config.Metrics, config.Logger), nil
}

// NewBackend creates the provider backend without the pipeline adapter.
func NewBackend(config Config) (Backend, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("API key is required for %s interpreter", config.Type)
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := &http.Client{Timeout: timeout}

	switch config.Type {
	case ProviderTypeOpenAI, "":
		return NewOpenAIBackend(config.APIKey, orDefault(config.BaseURL, DefaultBaseURL),
			orDefault(config.Model, DefaultModel), httpClient), nil
	case ProviderTypeAnthropic:
		return NewAnthropicBackend(config.APIKey, config.BaseURL,
			orDefault(config.Model, defaultAnthropicModel), httpClient), nil
	case ProviderTypeGoogle:
		return NewGoogleBackend(config.APIKey, config.BaseURL, orDefault(config.Model, defaultGoogleModel), httpClient)
	default:
		return nil, fmt.Errorf("unsupported interpreter provider type: %s", config.Type)
	}
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
