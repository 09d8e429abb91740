// Package logging builds the service logger: zerolog to the console plus a size-rotated log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sangkips/records-service/internal/config"
)

// Logger is passed to every component that logs. The embedded zerolog.Logger is used directly.
type Logger struct {
	zerolog.Logger
	file *lumberjack.Logger
}

// New writes to out (os.Stdout when nil) and, when cfg.File is set, to a rotating file.
func New(cfg config.LogConfig, out io.Writer) (*Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if out == nil {
		out = os.Stdout
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := &Logger{}
	writers := []io.Writer{out}
	if cfg.File != "" {
		l.file = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		writers = append(writers, l.file)
	}

	l.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
	return l, nil
}

// Nop discards everything. Check always succeeds.
func Nop() *Logger {
	return &Logger{Logger: zerolog.Nop()}
}

// Check writes a probe entry to the log file and returns the write error, if any.
func (l *Logger) Check() error {
	if l.file == nil {
		return nil
	}

	w := &errWriter{w: l.file}
	probe := zerolog.New(w).With().Timestamp().Logger()
	probe.Info().Str("component", "health").Msg("health check")
	return w.err
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	n, err := e.w.Write(p)
	if err != nil && e.err == nil {
		e.err = err
	}
	return n, err
}
