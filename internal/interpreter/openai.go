package interpreter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIBackend talks to any OpenAI-compatible chat completions endpoint.
type OpenAIBackend struct {
	client openai.Client
	model  string
}

// NewOpenAIBackend creates a backend for the given endpoint. SDK retries are disabled:
// each stage makes a single request.
func NewOpenAIBackend(apiKey, baseURL, model string, httpClient *http.Client) *OpenAIBackend {
	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)

	return &OpenAIBackend{client: client, model: model}
}

// Name returns the backend identifier.
func (b *OpenAIBackend) Name() string {
	return "openai"
}

// Complete sends the exchange as a chat completion.
func (b *OpenAIBackend) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := b.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(b.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return resp.Choices[0].Message.Content, nil
}
