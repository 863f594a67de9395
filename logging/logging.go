// Package logging sets up slog for the bot. Stdout carries the match
// protocol, so console output goes to the writer the caller passes
// (stderr in practice) and never to stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Manager owns the process logger and the optional log file.
type Manager struct {
	logger *slog.Logger
	file   *os.File
}

func NewManager() *Manager {
	return &Manager{}
}

// ParseLevel converts a level name to slog.Level. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a text logger writing to console and, if non-nil, file, and
// installs it as the slog default.
func (m *Manager) Setup(console, file io.Writer, level string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					a.Value = slog.StringValue(t.UTC().Format(time.RFC3339))
				}
			}
			return a
		},
	}

	var handlers []slog.Handler
	if console != nil {
		handlers = append(handlers, slog.NewTextHandler(console, opts))
	}
	if file != nil {
		handlers = append(handlers, slog.NewTextHandler(file, opts))
	}

	m.logger = slog.New(NewMultiHandler(handlers...))
	slog.SetDefault(m.logger)
	return m.logger
}

// SetupFile is Setup with the log file opened (append) from path. An empty
// path logs to console only.
func (m *Manager) SetupFile(console io.Writer, path, level string) (*slog.Logger, error) {
	if path == "" {
		return m.Setup(console, nil, level), nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return m.Setup(console, nil, level), err
	}
	m.file = f
	return m.Setup(console, f, level), nil
}

// Logger returns the configured logger, or slog.Default before Setup.
func (m *Manager) Logger() *slog.Logger {
	if m.logger == nil {
		return slog.Default()
	}
	return m.logger
}

// Close closes the log file, if one was opened.
func (m *Manager) Close() error {
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	return err
}
