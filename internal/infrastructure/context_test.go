package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)

	ctx := WithRunID(context.Background(), a)
	assert.Equal(t, a, GetRunID(ctx))
	assert.Empty(t, GetRunID(context.Background()))
}

func TestRunHandler_InjectsRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&runHandler{Handler: slog.NewJSONHandler(&buf, nil)})

	ctx := WithRunID(context.Background(), "run-abc")
	logger.InfoContext(ctx, "step started", slog.String("step", "load"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "run-abc", entry["run_id"])
	assert.Equal(t, "load", entry["step"])

	buf.Reset()
	logger.Info("no context")
	var bare map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &bare))
	_, present := bare["run_id"]
	assert.False(t, present, "no run ID is added without one in context")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"garbage", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.in), tt.in)
	}
}
