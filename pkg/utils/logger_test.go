package utils

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedNow() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestDefaultLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelWarn, &buf)
	logger.now = fixedNow

	logger.Debug("debug %d", 1)
	logger.Info("info %d", 2)
	logger.Warn("warn %d", 3)
	logger.Error("error %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "debug 1")
	assert.NotContains(t, out, "info 2")
	assert.Contains(t, out, "[2025-03-01 12:00:00.000] [WARN] warn 3\n")
	assert.Contains(t, out, "[ERROR] error 4")
}

func TestDefaultLogger_WithFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelDebug, &buf)
	logger.now = fixedNow

	child := logger.WithField("entry", 3).WithFields(map[string]interface{}{"command": "flamegraph"})
	child.Info("built")

	assert.Equal(t, "[2025-03-01 12:00:00.000] [INFO] command=flamegraph entry=3 built\n", buf.String())
}

func TestDefaultLogger_WithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewDefaultLogger(LevelDebug, &buf)
	logger.now = fixedNow

	_ = logger.WithField("k", "v")
	logger.Info("plain")

	assert.Equal(t, "[2025-03-01 12:00:00.000] [INFO] plain\n", buf.String())
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLogLevel(tt.in))
		})
	}
}

func TestOrNull(t *testing.T) {
	assert.IsType(t, &NullLogger{}, OrNull(nil))

	l := NewDefaultLogger(LevelInfo, &bytes.Buffer{})
	assert.Same(t, l, OrNull(l))
}
