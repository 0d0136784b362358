package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tphakala/nutridri/internal/logger"
)

func TestSlogLoggerLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     logger.LogLevel
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"debug level shows all", logger.LogLevelDebug, true, true, true},
		{"info level hides debug", logger.LogLevelInfo, false, true, true},
		{"error level hides warn", logger.LogLevelError, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf := &bytes.Buffer{}
			log := logger.NewSlogLogger(buf, tt.level, time.UTC)

			log.Debug("debug message")
			log.Info("info message")
			log.Warn("warn message")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "debug message"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "info message"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "warn message"))
		})
	}
}

func TestModuleAndFields(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelDebug, time.UTC).
		Module("reference").
		Module("catalog").
		With(logger.String("source", "NUTR_DEF.txt"))

	log.Info("Ambiguous match",
		logger.String("nutrient", "choline"),
		logger.Int("candidates", 3),
		logger.Float64("ratio", 1.23456),
		logger.Error(errors.New("boom")))

	out := buf.String()
	assert.Contains(t, out, "module=reference.catalog")
	assert.Contains(t, out, "source=NUTR_DEF.txt")
	assert.Contains(t, out, "nutrient=choline")
	assert.Contains(t, out, "candidates=3")
	assert.Contains(t, out, "ratio=1.235")
	assert.Contains(t, out, "error=boom")
	assert.NotContains(t, out, "time=")
}

func TestWithContextTraceID(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelInfo, time.UTC)

	ctx := logger.WithTraceID(context.Background(), "build-42")
	log.WithContext(ctx).Info("traced")
	log.WithContext(context.Background()).Info("untraced")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "trace_id=build-42")
	assert.NotContains(t, lines[1], "trace_id")
}

func TestTraceLevelName(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log := logger.NewSlogLogger(buf, logger.LogLevelTrace, time.UTC)
	log.Trace("very detailed")

	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestCentralLoggerFileOutput(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "logs", "nutridri.log")
	cl, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: "debug",
		Timezone:     "UTC",
		Console:      &logger.ConsoleOutput{Enabled: false},
		FileOutput: &logger.FileOutput{
			Enabled: true,
			Path:    logPath,
			Level:   "debug",
		},
	})
	require.NoError(t, err)

	cl.Module("reference").Info("Reference table written", logger.Int("rows", 12))
	require.NoError(t, cl.Close())
	require.NoError(t, cl.Close(), "second close is a no-op")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &entry))
	assert.Equal(t, "Reference table written", entry["msg"])
	assert.Equal(t, "reference", entry["module"])
	assert.InDelta(t, 12, entry["rows"], 0)
	assert.NotEmpty(t, entry["time"])
}

func TestCentralLoggerModuleLevels(t *testing.T) {
	t.Parallel()

	logPath := filepath.Join(t.TempDir(), "levels.log")
	cl, err := logger.NewCentralLogger(&logger.LoggingConfig{
		DefaultLevel: "info",
		Console:      &logger.ConsoleOutput{Enabled: false},
		FileOutput:   &logger.FileOutput{Enabled: true, Path: logPath, Level: "debug"},
		ModuleLevels: map[string]string{"catalog": "debug"},
	})
	require.NoError(t, err)

	cl.Module("catalog").Debug("catalog debug")
	cl.Module("dri").Debug("dri debug")
	require.NoError(t, cl.Close())

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "catalog debug")
	assert.NotContains(t, string(data), "dri debug")
}

func TestCentralLoggerRejectsBadTimezone(t *testing.T) {
	t.Parallel()

	_, err := logger.NewCentralLogger(&logger.LoggingConfig{Timezone: "Mars/Olympus_Mons"})
	require.Error(t, err)

	_, err = logger.NewCentralLogger(nil)
	require.Error(t, err)
}
