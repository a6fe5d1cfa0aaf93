package pipeline

import (
	"context"
	"time"
)

// Status is the lifecycle state of a stage within a run.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
)

// Output is what a tool produced. Text is set even when the tool fails, so that
// downstream stages can read the failure as context.
type Output struct {
	Text  string
	Value any
}

// ToolFunc is an external call bound to a stage when the stage is built.
type ToolFunc func(ctx context.Context) (Output, error)

// Stage represents a single step in a pipeline.
type Stage struct {
	ID             string   // Unique identifier, used to reference the stage as a dependency.
	Description    string   // Task description; for non-tool stages this is the interpretation prompt.
	ExpectedOutput string   // Human-readable output contract, passed to the interpreter only.
	Tool           ToolFunc // Optional; when nil the stage is interpreted.
	Dependencies   []string // IDs of stages whose results are this stage's context, in order.
}

// Result is the single outcome of a stage in one run. A failed stage is still
// completed: Err is set and Text carries the flattened error.
type Result struct {
	StageID  string
	Status   Status
	Text     string
	Value    any
	Err      error
	Duration time.Duration
}

// Failed reports whether the stage produced an error instead of data.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Prompt is the request handed to the interpreter for a non-tool stage.
type Prompt struct {
	StageID        string
	Description    string
	ExpectedOutput string
	Context        []Result // Dependency results in dependency-list order.
}

// ContextTexts returns the dependency texts in order.
func (p Prompt) ContextTexts() []string {
	texts := make([]string, 0, len(p.Context))
	for _, result := range p.Context {
		texts = append(texts, result.Text)
	}

	return texts
}

// Interpreter turns a stage prompt and its context into text.
type Interpreter interface {
	Interpret(ctx context.Context, prompt Prompt) (string, error)
}

// InterpreterFunc adapts a function to the Interpreter interface.
type InterpreterFunc func(ctx context.Context, prompt Prompt) (string, error)

// Interpret calls f(ctx, prompt).
func (f InterpreterFunc) Interpret(ctx context.Context, prompt Prompt) (string, error) {
	return f(ctx, prompt)
}
