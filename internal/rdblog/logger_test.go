package rdblog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelString(t *testing.T) {
	require.Equal(t, "ERROR", LevelError.String())
	require.Equal(t, "WARN", LevelWarn.String())
	require.Equal(t, "INFO", LevelInfo.String())
	require.Equal(t, "DEBUG", LevelDebug.String())
}

func TestLoggerSuppressesBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelWarn)
	l.Debugf("should not appear %d", 1)
	l.Infof("should not appear either")
	require.Empty(t, buf.String())
}

func TestLoggerEmitsAtOrAboveLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, LevelInfo)
	l.Errorf("boom")
	l.Infof("hello %s", "world")
	out := buf.String()
	require.True(t, strings.Contains(out, "[ERROR] boom"))
	require.True(t, strings.Contains(out, "[INFO] hello world"))
}

func TestDefaultLoggerDoesNotPanic(t *testing.T) {
	require.NotPanics(t, func() {
		Default().Infof("ok")
	})
}
