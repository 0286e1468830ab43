package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("INFO"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelNone, ParseLevel("off"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
	assert.Equal(t, LevelInfo, ParseLevel(""))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", LevelDebug.String())
	assert.Equal(t, "NONE", LevelNone.String())
	assert.Contains(t, Level(42).String(), "UNKNOWN")
}

func TestStdLoggerFiltering(t *testing.T) {
	t.Run("info level drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewCustomLogger(&buf, LevelInfo)

		logger.Debug("hidden %d", 1)
		logger.Info("shown %d", 2)

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "[INFO] shown 2")
		assert.Contains(t, out, "[tripgraph]")
	})

	t.Run("error level drops warn", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewCustomLogger(&buf, LevelError)

		logger.Warn("hidden")
		logger.Error("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "[ERROR] shown")
	})

	t.Run("none level drops everything", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewCustomLogger(&buf, LevelNone)

		logger.Error("hidden")
		assert.Empty(t, buf.String())
	})
}

func TestDefaultLogger(t *testing.T) {
	original := Default()
	defer SetDefault(original)

	var buf bytes.Buffer
	SetDefault(NewCustomLogger(&buf, LevelDebug))

	Debug("d")
	Info("i")
	Warn("w")
	Error("e")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] d")
	assert.Contains(t, out, "[INFO] i")
	assert.Contains(t, out, "[WARN] w")
	assert.Contains(t, out, "[ERROR] e")
}
