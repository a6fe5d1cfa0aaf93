// Package interpreter backs non-tool pipeline stages with a text-generation provider.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/sentinel/internal/metrics"
	"github.com/UnknownOlympus/sentinel/internal/pipeline"
)

// ErrEmptyCompletion is returned when a provider answers with no text.
var ErrEmptyCompletion = errors.New("interpreter returned an empty completion")

// Backend sends one system/user exchange to a provider.
type Backend interface {
	// Complete returns the model's text answer.
	Complete(ctx context.Context, system, user string) (string, error)

	// Name returns the backend's identifier.
	Name() string
}

// Interpreter adapts a Backend to pipeline.Interpreter.
type Interpreter struct {
	backend Backend
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewInterpreter wraps a backend with prompt rendering, logging and metrics.
func NewInterpreter(backend Backend, metrics *metrics.Metrics, log *slog.Logger) *Interpreter {
	return &Interpreter{backend: backend, metrics: metrics, log: log}
}

// Interpret renders the prompt and asks the backend for an answer.
func (i *Interpreter) Interpret(ctx context.Context, prompt pipeline.Prompt) (string, error) {
	system, user := RenderPrompt(prompt)
	provider := i.backend.Name()

	i.log.DebugContext(ctx, "Interpreting stage", "stage", prompt.StageID, "provider", provider)

	startTime := time.Now()
	text, err := i.backend.Complete(ctx, system, user)
	elapsed := time.Since(startTime)

	if err == nil {
		text = strings.TrimSpace(text)
		if text == "" {
			err = ErrEmptyCompletion
		}
	}
	i.record(provider, elapsed, err)
	if err != nil {
		i.log.ErrorContext(ctx, "Interpretation failed", "stage", prompt.StageID, "provider", provider, "error", err)
		return "", fmt.Errorf("%s: %w", provider, err)
	}

	return text, nil
}

func (i *Interpreter) record(provider string, elapsed time.Duration, err error) {
	if i.metrics == nil {
		return
	}

	i.metrics.InterpreterSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
	if err != nil {
		i.metrics.InterpreterErrors.WithLabelValues(provider).Inc()
	}
}

// RenderPrompt builds the system and user messages for a stage.
func RenderPrompt(prompt pipeline.Prompt) (string, string) {
	var system strings.Builder
	system.WriteString("You are one step of an emergency alert pipeline. ")
	system.WriteString("Work only from the task and the context you are given, and answer with the expected output only.")
	if prompt.ExpectedOutput != "" {
		system.WriteString("\nExpected output: ")
		system.WriteString(prompt.ExpectedOutput)
	}

	var user strings.Builder
	user.WriteString(strings.TrimSpace(prompt.Description))
	if len(prompt.Context) > 0 {
		user.WriteString("\n\nContext from previous steps:")
		for idx, result := range prompt.Context {
			fmt.Fprintf(&user, "\n\n[%d] %s\n%s", idx+1, result.StageID, result.Text)
		}
	}

	return system.String(), user.String()
}
