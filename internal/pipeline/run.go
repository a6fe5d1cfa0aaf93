package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run holds the results of one pipeline execution.
type Run struct {
	ID      string
	Order   []string
	Results map[string]Result
}

// Result returns the result of a stage, if it ran.
func (r *Run) Result(stageID string) (Result, bool) {
	result, ok := r.Results[stageID]
	return result, ok
}

// Final returns the result of the last stage in execution order.
func (r *Run) Final() Result {
	if len(r.Order) == 0 {
		return Result{}
	}

	return r.Results[r.Order[len(r.Order)-1]]
}

// Run executes every stage once, in order, on the calling goroutine. Stage
// failures are recorded on their results and do not stop the run; only a
// cancelled context does, between stages.
func (p *Pipeline) Run(ctx context.Context) (*Run, error) {
	run := &Run{
		ID:      uuid.NewString(),
		Order:   p.Order(),
		Results: make(map[string]Result, len(p.stages)),
	}
	log := p.log.With("run_id", run.ID)

	for _, stage := range p.stages {
		p.notify(stage.ID, StatusPending)
	}

	log.InfoContext(ctx, "Pipeline started", "stages", len(p.stages))

	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			p.countRun("cancelled")
			log.WarnContext(ctx, "Pipeline cancelled", "next_stage", stage.ID, "error", err)
			return run, fmt.Errorf("pipeline cancelled before stage %s: %w", stage.ID, err)
		}

		deps := make([]Result, 0, len(stage.Dependencies))
		for _, depID := range stage.Dependencies {
			dep, ok := run.Results[depID]
			if !ok {
				// New guarantees dependencies precede dependents.
				return run, fmt.Errorf("%w: %s has no result for %s", ErrMissingDependency, stage.ID, depID)
			}
			deps = append(deps, dep)
		}

		p.notify(stage.ID, StatusRunning)
		log.DebugContext(ctx, "Running stage", "stage", stage.ID, "tool", stage.Tool != nil, "deps", len(deps))

		startTime := time.Now()
		result := p.execute(ctx, stage, deps)
		result.Duration = time.Since(startTime)
		result.Status = StatusCompleted

		run.Results[stage.ID] = result
		p.record(result)
		p.notify(stage.ID, StatusCompleted)

		if result.Failed() {
			log.WarnContext(ctx, "Stage completed with error", "stage", stage.ID, "error", result.Err)
		} else {
			log.InfoContext(ctx, "Stage completed", "stage", stage.ID, "duration", result.Duration)
		}
	}

	p.countRun("completed")
	log.InfoContext(ctx, "Pipeline finished")

	return run, nil
}

func (p *Pipeline) execute(ctx context.Context, stage Stage, deps []Result) Result {
	result := Result{StageID: stage.ID}

	if stage.Tool != nil {
		output, err := stage.Tool(ctx)
		result.Text, result.Value, result.Err = output.Text, output.Value, err
		if err != nil && result.Text == "" {
			result.Text = err.Error()
		}
		return result
	}

	text, err := p.interpreter.Interpret(ctx, Prompt{
		StageID:        stage.ID,
		Description:    stage.Description,
		ExpectedOutput: stage.ExpectedOutput,
		Context:        deps,
	})
	if err != nil {
		result.Err = err
		result.Text = fmt.Sprintf("Error interpreting stage %s: %v", stage.ID, err)
		return result
	}

	result.Text = text
	return result
}

func (p *Pipeline) notify(stageID string, status Status) {
	if p.observer != nil {
		p.observer(stageID, status)
	}
}

func (p *Pipeline) record(result Result) {
	if p.metrics == nil {
		return
	}

	status := "success"
	if result.Failed() {
		status = "failure"
	}
	p.metrics.StagesProcessed.WithLabelValues(result.StageID, status).Inc()
	p.metrics.StageSeconds.WithLabelValues(result.StageID).Observe(result.Duration.Seconds())
}

func (p *Pipeline) countRun(outcome string) {
	if p.metrics != nil {
		p.metrics.PipelineRunsTotal.WithLabelValues(outcome).Inc()
	}
}
