package internal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" WARN "))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("trace"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLogger_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, LogLevelWarn).With("ttest")

	logger.Info("hidden %d", 1)
	logger.Debug("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] [ttest] shown 3")
	assert.Contains(t, out, "[ERROR] [ttest] shown 4")
}

func TestLogger_Trace(t *testing.T) {
	var buf bytes.Buffer
	NewLoggerTo(&buf, LogLevelDebug).Trace("hidden")
	assert.Empty(t, buf.String())

	NewLoggerTo(&buf, LogLevelTrace).With("batch").Trace("row %d", 7)
	assert.Contains(t, buf.String(), "[TRACE] [batch] row 7")
}
