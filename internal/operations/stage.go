package operations

import (
	"context"
	"sync"
	"time"
)

// Step is a single stage of the analysis pipeline. Steps run strictly in
// sequence; each reads the artifacts earlier steps placed on the State
// and adds its own.
type Step interface {
	// ID returns the unique identifier for this step
	ID() string

	// Name returns the human-readable name for this step
	Name() string

	// Execute runs the step against the shared pipeline state
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
)

// StepState records the runtime state of one step for reporting
type StepState struct {
	mu        sync.RWMutex
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Status    StepStatus `json:"status"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
	Message   string     `json:"message,omitempty"`
	Err       error      `json:"-"`
}

// NewStepState creates a step state with default values
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:     id,
		Name:   name,
		Status: StepStatusPending,
	}
}

// Start marks the step as active and sets the start time
func (s *StepState) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step as completed and sets the end time
func (s *StepState) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step as failed with the given error
func (s *StepState) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	s.Err = err
	if err != nil {
		s.Message = err.Error()
	}
}

// Duration returns the duration of the step execution
func (s *StepState) Duration() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.StartTime == nil {
		return 0
	}
	if s.EndTime != nil {
		return s.EndTime.Sub(*s.StartTime)
	}
	return time.Since(*s.StartTime)
}
