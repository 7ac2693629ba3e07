package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, level)

	level, err = ParseLevel(" WARN ")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(FormatJSON, LevelDebug, &buf)
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-1")
	logger.With("schedule_id", 1234).InfoContext(ctx, "fetched games", "count", 3, "err", errors.New("boom"))

	var entry map[string]any
	require.NoError(t, sonic.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "fetched games", entry["msg"])
	assert.Equal(t, float64(1234), entry["schedule_id"])
	assert.Equal(t, float64(3), entry["count"])
	assert.Equal(t, "boom", entry["err"])
	assert.Equal(t, "run-1", entry["run_id"])
}

func TestNew_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(FormatConsole, LevelWarn, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "game_id", 7)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.True(t, strings.Contains(out, "shown"))
	assert.Contains(t, out, "game_id")
}

func TestNew_UnknownFormat(t *testing.T) {
	_, err := New("xml", LevelInfo, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestZapFields_OddArgs(t *testing.T) {
	fields := zapFields([]any{"a", 1, 2, "b", "dangling"})
	require.Len(t, fields, 3)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "arg", fields[1].Key)
	assert.Equal(t, "dangling", fields[2].Key)
}

func TestNilLoggerFallsBackToDefault(t *testing.T) {
	var l *Logger
	assert.NotPanics(t, func() { l.Info("nothing") })
}
