package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestNew_ConsoleLevels(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{})
	log.Infow("hidden at default verbosity")
	log.Warnw("multi-species strain", "strain", "Z")
	require.NoError(t, log.Sync())

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "WARN")
	assert.Contains(t, out, "multi-species strain")
	assert.Contains(t, out, "Z")
}

func TestNew_QuietWinsOverVerbosity(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{Verbosity: VerbosityDebug, Quiet: true})
	log.Warnw("suppressed")
	log.Errorw("kept")
	_ = log.Sync()

	assert.NotContains(t, buf.String(), "suppressed")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Options{JSON: true, Verbosity: VerbosityInfo})
	log.Infow("catalog loaded", "profiles", 3)
	_ = log.Sync()

	line := strings.TrimSpace(buf.String())
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &rec))
	assert.Equal(t, "catalog loaded", rec["msg"])
	assert.Equal(t, float64(3), rec["profiles"])
}
