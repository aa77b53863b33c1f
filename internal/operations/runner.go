package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner executes pipeline steps sequentially. A failed step aborts the
// run; the per-step states stay available for reporting either way.
type Runner struct {
	steps  []Step
	states map[string]*StepState
	logger *slog.Logger
}

// NewRunner creates a pipeline runner over the given steps
func NewRunner(steps []Step, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	states := make(map[string]*StepState, len(steps))
	for _, step := range steps {
		states[step.ID()] = NewStepState(step.ID(), step.Name())
	}

	return &Runner{
		steps:  steps,
		states: states,
		logger: logger,
	}
}

// StepStates returns the runtime state of every step, in execution order
func (r *Runner) StepStates() []*StepState {
	out := make([]*StepState, 0, len(r.steps))
	for _, step := range r.steps {
		out = append(out, r.states[step.ID()])
	}
	return out
}

// Run executes every step against a fresh state for the given run ID
func (r *Runner) Run(ctx context.Context, runID string) (*State, error) {
	state := NewState(runID)
	start := time.Now()

	r.logger.InfoContext(ctx, "pipeline started",
		slog.Int("steps", len(r.steps)))

	for _, step := range r.steps {
		if err := ctx.Err(); err != nil {
			return state, fmt.Errorf("pipeline cancelled before step %s: %w", step.ID(), err)
		}

		stepState := r.states[step.ID()]
		stepState.Start()
		r.logger.InfoContext(ctx, "step started",
			slog.String("step", step.ID()),
			slog.String("name", step.Name()))

		if err := step.Execute(ctx, state); err != nil {
			stepState.Fail(err)
			r.logger.ErrorContext(ctx, "step failed",
				slog.String("step", step.ID()),
				slog.Duration("duration", stepState.Duration()),
				slog.String("error", err.Error()))
			return state, fmt.Errorf("step %s: %w", step.ID(), err)
		}

		stepState.Complete()
		r.logger.InfoContext(ctx, "step completed",
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()))
	}

	r.logger.InfoContext(ctx, "pipeline completed",
		slog.Duration("duration", time.Since(start)))

	return state, nil
}
