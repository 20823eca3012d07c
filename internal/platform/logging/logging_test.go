package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T, level, file string) (*Logger, string) {
	t.Helper()
	tmpDir := t.TempDir()
	logger, err := New(Config{
		Level:    level,
		Dir:      tmpDir,
		Filename: file,
		Console:  io.Discard,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger, filepath.Join(tmpDir, file)
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content)
}

func TestNew(t *testing.T) {
	logger, err := New(Config{Level: "debug", Dir: t.TempDir(), Filename: "test.log", Console: io.Discard})
	assert.NoError(t, err)
	assert.NotNil(t, logger)
	assert.NoError(t, logger.Close())
	assert.NoError(t, logger.Close())
}

func TestNew_DefaultFilename(t *testing.T) {
	tmpDir := t.TempDir()
	logger, err := New(Config{Dir: tmpDir, Console: io.Discard})
	require.NoError(t, err)
	defer logger.Close()

	logger.Info("hello")
	_, err = os.Stat(filepath.Join(tmpDir, "xp-theme-tools.log"))
	assert.NoError(t, err)
}

func TestLogger_Info(t *testing.T) {
	logger, path := newTestLogger(t, "info", "info.log")

	logger.Info("test info message")

	assert.Contains(t, readLog(t, path), "test info message")
}

func TestLogger_InfoWithArgs(t *testing.T) {
	logger, path := newTestLogger(t, "debug", "info_args.log")

	logger.Info("converted %s into %d frames", "My Computer.png", 5)

	content := readLog(t, path)
	assert.Contains(t, content, "My Computer.png")
	assert.Contains(t, content, "5 frames")
}

func TestLogger_StructuredFields(t *testing.T) {
	logger, path := newTestLogger(t, "debug", "fields.log")

	logger.InfoFields("item converted", Fields{"source": "a.png", "frames": 3})

	content := readLog(t, path)
	assert.Contains(t, content, `"source":"a.png"`)
	assert.Contains(t, content, `"frames":3`)
}

func TestLogger_Tags(t *testing.T) {
	logger, path := newTestLogger(t, "debug", "tags.log")

	logger.InfoTag("batch", "processing %d files", 3)
	logger.WarnTag("convert", "skipping frame")
	logger.DebugTag("ledger", "record stored")

	content := readLog(t, path)
	assert.Contains(t, content, "[batch] processing 3 files")
	assert.Contains(t, content, "[convert] skipping frame")
	assert.Contains(t, content, "[ledger] record stored")
}

func TestLogger_NilReceiverIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.InfoTag("batch", "ignored")
		logger.Error("ignored")
		_ = logger.Close()
	})
}

func TestLogger_LogLevelFiltering(t *testing.T) {
	logger, path := newTestLogger(t, "error", "filter.log")

	logger.Debug("this should not appear")
	logger.Info("this should not appear either")
	logger.Warn("this should not appear")
	logger.Error("this should appear")

	content := readLog(t, path)
	assert.NotContains(t, content, "this should not appear")
	assert.Contains(t, content, "this should appear")
}

func TestLogger_ConsoleSink(t *testing.T) {
	var console bytes.Buffer
	logger, err := New(Config{Level: "info", Console: &console})
	require.NoError(t, err)
	defer logger.Close()

	logger.InfoTag("report", "README created")
	logger.Error("boom")

	out := console.String()
	assert.Contains(t, out, "[report] README created")
	assert.Contains(t, out, "[ERROR]")
	assert.Contains(t, out, "boom")
}

func TestLogger_ConcurrentLogging(t *testing.T) {
	logger, path := newTestLogger(t, "debug", "concurrent.log")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			logger.Info("concurrent message number %d", idx)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 10, strings.Count(readLog(t, path), "concurrent message number"))
}

func TestContainsFormatPlaceholders(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"hello world", false},
		{"hello %s", true},
		{"value is %d", true},
		{"%[1]s argument", true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, containsFormatPlaceholders(tt.input), "input: %s", tt.input)
	}
}

func TestTextHandler_Enabled(t *testing.T) {
	handler := &textHandler{writer: &strings.Builder{}, level: slog.LevelInfo}

	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseLevel(tt.input), "input: %s", tt.input)
	}
}

func TestFormatLog(t *testing.T) {
	assert.Equal(t, "[batch] done", FormatLog("batch", "done"))
	assert.Equal(t, "done", FormatLog("", "done"))
	assert.Equal(t, "[x] done", FormatLog("batch", "[x] done"))
}
