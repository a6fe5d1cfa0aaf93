package interpreter

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicBackend talks to the Anthropic Messages API.
type AnthropicBackend struct {
	client anthropic.Client
	model  string
}

// NewAnthropicBackend creates a backend; an empty baseURL keeps the SDK default.
func NewAnthropicBackend(apiKey, baseURL, model string, httpClient *http.Client) *AnthropicBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &AnthropicBackend{client: anthropic.NewClient(opts...), model: model}
}

// Name returns the backend identifier.
func (b *AnthropicBackend) Name() string {
	return "anthropic"
}

// Complete sends the exchange as a single user message with a system prompt.
func (b *AnthropicBackend) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: 1024,
		System:    []anthropic.TextBlockParam{{Text: system}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var content string
	for _, block := range resp.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return content, nil
}
