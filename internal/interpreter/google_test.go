package interpreter_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleBackend_Complete(t *testing.T) {
	ctx := t.Context()
	httpClient := &http.Client{Timeout: 5 * time.Second}

	t.Run("successful completion", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-test:generateContent"), r.URL.Path)
			assert.Equal(t, "google-test", r.Header.Get("X-Goog-Api-Key"))

			var body struct {
				Contents []struct {
					Role  string `json:"role"`
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
				SystemInstruction struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"systemInstruction"`
			}
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			if assert.Len(t, body.Contents, 1) && assert.Len(t, body.Contents[0].Parts, 1) {
				assert.Equal(t, "classify", body.Contents[0].Parts[0].Text)
			}
			if assert.Len(t, body.SystemInstruction.Parts, 1) {
				assert.Equal(t, "be brief", body.SystemInstruction.Parts[0].Text)
			}

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model",` +
				`"parts":[{"text":"High Flood "},{"text":"Risk"}]},"finishReason":"STOP"}]}`))
		}))
		defer server.Close()

		backend, err := interpreter.NewGoogleBackend("google-test", server.URL, "gemini-test", httpClient)
		require.NoError(t, err)

		text, err := backend.Complete(ctx, "be brief", "classify")

		require.NoError(t, err)
		assert.Equal(t, "High Flood Risk", text)
		assert.Equal(t, "google", backend.Name())
	})

	t.Run("no candidates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[]}`))
		}))
		defer server.Close()

		backend, err := interpreter.NewGoogleBackend("google-test", server.URL, "gemini-test", httpClient)
		require.NoError(t, err)

		_, err = backend.Complete(ctx, "s", "u")

		assert.ErrorContains(t, err, "google returned no candidates")
	})

	t.Run("API error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"code":400,"message":"bad request","status":"INVALID_ARGUMENT"}}`))
		}))
		defer server.Close()

		backend, err := interpreter.NewGoogleBackend("google-test", server.URL, "gemini-test", httpClient)
		require.NoError(t, err)

		_, err = backend.Complete(ctx, "s", "u")

		assert.ErrorContains(t, err, "google API error")
	})
}
