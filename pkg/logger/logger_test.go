package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"ERROR", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseLevel(tt.input))
		})
	}
}

func TestGetWriter(t *testing.T) {
	t.Run("stdout", func(t *testing.T) {
		w, err := getWriter("stdout")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, w)
	})

	t.Run("stderr default", func(t *testing.T) {
		w, err := getWriter("")
		require.NoError(t, err)
		assert.Equal(t, os.Stderr, w)
	})

	t.Run("file path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "apm.log")
		w, err := getWriter(path)
		require.NoError(t, err)
		require.NotNil(t, w)

		_, err = w.(*os.File).WriteString("hello\n")
		require.NoError(t, err)
		require.NoError(t, w.(*os.File).Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "hello\n", string(data))
	})

	t.Run("unwritable path", func(t *testing.T) {
		_, err := getWriter(filepath.Join(t.TempDir(), "missing", "apm.log"))
		assert.Error(t, err)
	})
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := &logger{slogger: slog.New(slog.NewJSONHandler(&buf, nil))}

	l.Info("report persisted", "tag", "work", "total", 42)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "report persisted", entry["msg"])
	assert.Equal(t, "work", entry["tag"])
	assert.Equal(t, float64(42), entry["total"])
}

func TestWith(t *testing.T) {
	var buf bytes.Buffer
	base := &logger{slogger: slog.New(slog.NewTextHandler(&buf, nil))}

	child := base.With("component", "engine")
	child.Info("started")

	assert.Contains(t, buf.String(), "component=engine")
	assert.Contains(t, buf.String(), "started")
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	opts := &slog.HandlerOptions{Level: slog.LevelWarn}
	l := &logger{slogger: slog.New(slog.NewTextHandler(&buf, opts))}

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestNoop(t *testing.T) {
	l := Noop()
	require.NotNil(t, l)

	// Must not panic.
	l.Debug("a")
	l.Info("b")
	l.Warn("c")
	l.Error("d")
}

func TestDefault(t *testing.T) {
	require.NotNil(t, Default())
}
