package infrastructure

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is a type for context keys
type contextKey string

// RunIDContextKey is the key for storing the run ID in context
const RunIDContextKey contextKey = "run_id"

// NewRunID generates a unique identifier for a single pipeline run.
// The ID is stamped into every log record and the report metadata.
func NewRunID() string {
	return uuid.New().String()
}

// WithRunID returns a new context carrying the given run ID
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDContextKey, runID)
}

// GetRunID extracts the run ID from the context, or "" if absent
func GetRunID(ctx context.Context) string {
	if v, ok := ctx.Value(RunIDContextKey).(string); ok {
		return v
	}
	return ""
}
