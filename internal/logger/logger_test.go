package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"

	"github.com/wesleyorama2/schedbench/internal/logger"
)

// newTestLogger creates a logger with an injected bytes.Buffer for isolated testing.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New()
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_Levels(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Info("starting benchmark", "tasks", 120)
	lg.Warn("Single > 24 - [single-1] failing. Waiting 200ms...")
	lg.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "starting benchmark tasks=120\n")
	assert.Contains(t, out, "⚠ Single > 24 - [single-1] failing. Waiting 200ms...")
	assert.NotContains(t, out, "hidden")
}

func TestLogger_Verbose(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetVerbose(true)

	lg.Debug("worker spawned", "context", "boundedElastic-1")
	assert.Contains(t, buf.String(), "worker spawned context=boundedElastic-1")

	lg.SetVerbose(false)
	buf.Reset()
	lg.Debug("worker spawned")
	assert.Empty(t, buf.String())
}

func TestLogger_SlogFollowsSettings(t *testing.T) {
	lg, buf := newTestLogger(t)
	sl := lg.Slog().With("strategy", "Single")

	lg.SetJSON(true)
	sl.Info("completed")

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "completed", record["msg"])
	assert.Equal(t, "Single", record["strategy"])

	other := &bytes.Buffer{}
	lg.SetOutput(other)
	lg.SetJSON(false)
	sl.Warn("late")
	assert.Contains(t, other.String(), "⚠ late strategy=Single")
}

func TestLogger_ErrorChain(t *testing.T) {
	lg, buf := newTestLogger(t)

	base := zerr.New("scheduler queue is full")
	err := zerr.With(zerr.Wrap(zerr.With(zerr.Wrap(base, "Bounded Elastic"), "capacity", 10), "benchmark failed"), "strategy", "x")
	lg.Error(err)

	out := buf.String()
	assert.Contains(t, out, "Error: benchmark failed (strategy=x)")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "-> Bounded Elastic (capacity=10)")
	assert.Contains(t, out, "-> scheduler queue is full")
}

func TestLogger_ErrorJSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Error(errors.New("boom"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "operation failed", record["msg"])
	assert.Equal(t, "ERROR", record["level"])
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestCollectErrorEntries(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantMessages []string
	}{
		{
			name:         "single standard error",
			err:          errors.New("simple error"),
			wantMessages: []string{"simple error"},
		},
		{
			name: "zerr wrapped chain",
			err: zerr.Wrap(
				zerr.Wrap(errors.New("root cause"), "middle layer"),
				"outer layer",
			),
			wantMessages: []string{"outer layer", "middle layer", "root cause"},
		},
		{
			name:         "metadata-only wrapper is folded",
			err:          zerr.With(errors.New("plain"), "key", "v"),
			wantMessages: []string{"plain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessages, logger.Messages(tt.err))
		})
	}
}

func TestPrettyHandler_NoColorForBuffers(t *testing.T) {
	buf := &bytes.Buffer{}
	h := logger.NewPrettyHandler(buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	slog.New(h).WithGroup("run").Error("failed", "index", 4)

	assert.Equal(t, "✗ failed run.index=4\n", buf.String())
	assert.False(t, strings.Contains(buf.String(), "\x1b["))
	assert.False(t, logger.IsTerminal(buf))
}
