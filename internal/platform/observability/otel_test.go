package observability

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	require.Equal(t, slog.LevelInfo, logLevel())

	t.Setenv("LOG_LEVEL", "debug")
	require.Equal(t, slog.LevelDebug, logLevel())

	t.Setenv("LOG_LEVEL", "WARN")
	require.Equal(t, slog.LevelWarn, logLevel())

	t.Setenv("LOG_LEVEL", "verbose")
	require.Equal(t, slog.LevelInfo, logLevel())
}

func TestSampleRatioFromEnv(t *testing.T) {
	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "")
	require.Equal(t, 1.0, sampleRatio())

	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "0.25")
	require.Equal(t, 0.25, sampleRatio())

	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "7")
	require.Equal(t, 1.0, sampleRatio())

	t.Setenv("OTEL_TRACE_SAMPLE_RATIO", "lots")
	require.Equal(t, 1.0, sampleRatio())
}
