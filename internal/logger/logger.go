package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger represents application logger.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// Options control where and how the logger writes.
type Options struct {
	Level  string
	Format string
	File   string
}

// New creates a logger writing to stdout and, if set, appending to opts.File.
func New(opts Options) (*Logger, error) {
	var w io.Writer = os.Stdout
	var closer io.Closer

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, f)
		closer = f
	}

	return &Logger{Logger: slog.New(newHandler(w, opts)), closer: closer}, nil
}

// NewWithWriter is New without the file handling; used by tests.
func NewWithWriter(w io.Writer, opts Options) *Logger {
	return &Logger{Logger: slog.New(newHandler(w, opts))}
}

// NewNop returns a logger that discards everything.
func NewNop() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newHandler(w io.Writer, opts Options) slog.Handler {
	hopts := &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		ReplaceAttr: obfuscateEmailAttr,
	}
	if strings.EqualFold(opts.Format, "json") {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// ParseLevel maps DEBUG/INFO/WARNING/ERROR names onto slog levels; unknown
// names fall back to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR", "CRITICAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
