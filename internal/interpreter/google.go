package interpreter

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// GoogleBackend talks to the Gemini API.
type GoogleBackend struct {
	client *genai.Client
	model  string
}

// NewGoogleBackend creates a Gemini client; no request is made until Complete.
func NewGoogleBackend(apiKey, baseURL, model string, httpClient *http.Client) (*GoogleBackend, error) {
	config := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		config.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("failed to create google client: %w", err)
	}

	return &GoogleBackend{client: client, model: model}, nil
}

// Name returns the backend identifier.
func (b *GoogleBackend) Name() string {
	return "google"
}

// Complete sends the user text with the system prompt as system instruction.
func (b *GoogleBackend) Complete(ctx context.Context, system, user string) (string, error) {
	temperature := float32(0)
	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(user), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
		Temperature:       &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("google API error: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", errors.New("google returned no candidates")
	}

	var content string
	if resp.Candidates[0].Content != nil {
		for _, part := range resp.Candidates[0].Content.Parts {
			if part.Text != "" {
				content += part.Text
			}
		}
	}

	return content, nil
}
