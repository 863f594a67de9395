package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetup_ConsoleAndFile(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	var console, file bytes.Buffer

	m := NewManager()
	m.Setup(&console, &file, "info")
	slog.Info("turn planned", "turn", 3)
	m.Logger().Debug("should be filtered")

	for _, out := range []string{console.String(), file.String()} {
		assert.Contains(t, out, "turn planned")
		assert.Contains(t, out, "turn=3")
		assert.NotContains(t, out, "should be filtered")
	}
}

func TestSetup_DebugLevel(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	var buf bytes.Buffer

	NewManager().Setup(&buf, nil, "debug")
	slog.Debug("placed", "unit", "wall")

	assert.Contains(t, buf.String(), "placed")
}

func TestSetupFile(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	path := filepath.Join(t.TempDir(), "rampart.log")

	m := NewManager()
	_, err := m.SetupFile(nil, path, "info")
	require.NoError(t, err)
	m.Logger().Info("hello file")
	require.NoError(t, m.Close())
	require.NoError(t, m.Close(), "close is idempotent")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestSetupFile_BadPath(t *testing.T) {
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })
	var console bytes.Buffer

	m := NewManager()
	logger, err := m.SetupFile(&console, filepath.Join(t.TempDir(), "missing", "x.log"), "info")

	require.Error(t, err)
	logger.Info("still logging")
	assert.Contains(t, console.String(), "still logging")
}

func TestLoggerBeforeSetup(t *testing.T) {
	assert.Equal(t, slog.Default(), NewManager().Logger())
}

type failingHandler struct{ slog.Handler }

func (failingHandler) Enabled(context.Context, slog.Level) bool { return true }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("boom") }

func TestMultiHandler_ContinuesAfterFailure(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(failingHandler{}, nil, slog.NewTextHandler(&buf, nil))
	logger := slog.New(h)

	logger.Info("still delivered")

	assert.Contains(t, buf.String(), "still delivered")
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var a, b bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&a, nil), slog.NewTextHandler(&b, nil))
	logger := slog.New(h).With("turn", 5).WithGroup("attack")

	logger.Info("decided", "p", 0.26)

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "turn=5")
		assert.Contains(t, out, "attack.p=0.26")
	}
	assert.Same(t, h, h.WithGroup(""))
}

func TestMultiHandler_Enabled(t *testing.T) {
	var buf bytes.Buffer
	h := NewMultiHandler(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelError))
}
