// Package pipeline runs a small dependency-ordered chain of stages sequentially,
// handing each stage the results of the stages it depends on.
package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/sentinel/internal/metrics"
)

var (
	// ErrEmptyStageID indicates a stage was defined without an ID.
	ErrEmptyStageID = errors.New("pipeline: stage ID must not be empty")
	// ErrDuplicateStage indicates two stages share an ID.
	ErrDuplicateStage = errors.New("pipeline: duplicate stage ID")
	// ErrMissingDependency indicates a stage references an unknown dependency.
	ErrMissingDependency = errors.New("pipeline: missing dependency")
	// ErrCycleDetected indicates the dependency graph contains a cycle.
	ErrCycleDetected = errors.New("pipeline: cycle detected")
	// ErrNoInterpreter indicates a stage without a tool but no interpreter configured.
	ErrNoInterpreter = errors.New("pipeline: stage has no tool and no interpreter is configured")
	// ErrNoStages indicates an empty pipeline.
	ErrNoStages = errors.New("pipeline: at least one stage is required")
)

// Observer is notified of every stage status transition.
type Observer func(stageID string, status Status)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithInterpreter sets the interpreter used by stages without a tool.
func WithInterpreter(interpreter Interpreter) Option {
	return func(p *Pipeline) {
		p.interpreter = interpreter
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(p *Pipeline) {
		p.log = log
	}
}

// WithMetrics records stage outcomes and durations.
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithObserver registers a status transition callback.
func WithObserver(observer Observer) Option {
	return func(p *Pipeline) {
		p.observer = observer
	}
}

// Pipeline owns stages in execution order. It is immutable after New.
type Pipeline struct {
	stages      []Stage
	interpreter Interpreter
	log         *slog.Logger
	metrics     *metrics.Metrics
	observer    Observer
}

// New validates the stages and orders them topologically. Ties are broken by
// declaration order, so a declaration that is already a valid order is kept as is.
func New(stages []Stage, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{log: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}

	if len(stages) == 0 {
		return nil, ErrNoStages
	}

	ordered, err := sortStages(stages)
	if err != nil {
		return nil, err
	}

	for _, stage := range ordered {
		if stage.Tool == nil && p.interpreter == nil {
			return nil, fmt.Errorf("%w: %s", ErrNoInterpreter, stage.ID)
		}
	}

	p.stages = ordered
	return p, nil
}

// Order returns the stage IDs in execution order.
func (p *Pipeline) Order() []string {
	ids := make([]string, 0, len(p.stages))
	for _, stage := range p.stages {
		ids = append(ids, stage.ID)
	}

	return ids
}

func sortStages(stages []Stage) ([]Stage, error) {
	index := make(map[string]int, len(stages))
	for i, stage := range stages {
		if stage.ID == "" {
			return nil, ErrEmptyStageID
		}
		if _, ok := index[stage.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, stage.ID)
		}
		index[stage.ID] = i
	}

	remaining := make([]int, len(stages))
	dependents := make([][]int, len(stages))
	for i, stage := range stages {
		for _, depID := range stage.Dependencies {
			dep, ok := index[depID]
			if !ok {
				return nil, fmt.Errorf("%w: %s depends on %s", ErrMissingDependency, stage.ID, depID)
			}
			dependents[dep] = append(dependents[dep], i)
			remaining[i]++
		}
	}

	// Kahn's algorithm, always taking the earliest declared ready stage.
	emitted := make([]bool, len(stages))
	ordered := make([]Stage, 0, len(stages))
	for len(ordered) < len(stages) {
		next := -1
		for i := range stages {
			if !emitted[i] && remaining[i] == 0 {
				next = i
				break
			}
		}
		if next < 0 {
			var stuck []string
			for i, stage := range stages {
				if !emitted[i] {
					stuck = append(stuck, stage.ID)
				}
			}
			return nil, fmt.Errorf("%w among %s", ErrCycleDetected, strings.Join(stuck, ", "))
		}

		emitted[next] = true
		ordered = append(ordered, stages[next])
		for _, dependent := range dependents[next] {
			remaining[dependent]--
		}
	}

	return ordered, nil
}
