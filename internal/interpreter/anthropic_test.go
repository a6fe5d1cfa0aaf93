package interpreter_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/interpreter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicBackend_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))

		var body struct {
			Model  string `json:"model"`
			System []struct {
				Text string `json:"text"`
			} `json:"system"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "claude-test", body.Model)
		if assert.Len(t, body.System, 1) {
			assert.Equal(t, "be brief", body.System[0].Text)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-test",` +
			`"content":[{"type":"text","text":"Low Risk"}],"stop_reason":"end_turn",` +
			`"usage":{"input_tokens":10,"output_tokens":2}}`))
	}))
	defer server.Close()

	backend := interpreter.NewAnthropicBackend("test-key", server.URL, "claude-test",
		&http.Client{Timeout: 5 * time.Second})
	text, err := backend.Complete(t.Context(), "be brief", "classify")

	require.NoError(t, err)
	assert.Equal(t, "Low Risk", text)
	assert.Equal(t, "anthropic", backend.Name())
}
