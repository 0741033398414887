// Package logger provides structured logging using zerolog.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// Config represents logger configuration.
type Config struct {
	Level string // "debug", "info", "warn", "error"
	// File switches output to JSON lines appended to the file.
	// Empty means colored console output on Console.
	File    string
	Console io.Writer // defaults to os.Stderr
}

// Init initializes the global zerolog logger with the given configuration.
// The returned closer releases the log file, if any.
func Init(cfg Config) (io.Closer, error) {
	level := parseLevel(cfg.Level)

	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.CallerMarshalFunc = shortCaller

	var (
		logger zerolog.Logger
		closer io.Closer = nopCloser{}
	)
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, errors.Wrap(err, "failed to create log directory")
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open log file %s", cfg.File)
		}
		closer = f
		ctx := zerolog.New(f).With().Timestamp()
		if level == zerolog.DebugLevel {
			ctx = ctx.Caller()
		}
		logger = ctx.Logger()
	} else {
		out := cfg.Console
		if out == nil {
			out = os.Stderr
		}
		cw := zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.TimeOnly,
		}
		if level == zerolog.DebugLevel {
			// Caller only for debug
			cw.PartsOrder = []string{"time", "level", "message", "caller"}
			cw.FormatCaller = func(i interface{}) string {
				return "(" + i.(string) + ")"
			}
			logger = zerolog.New(cw).With().Timestamp().Caller().Logger()
		} else {
			logger = zerolog.New(cw).With().Timestamp().Logger()
		}
	}

	zerolog.DefaultContextLogger = &logger
	zlog.Logger = logger

	return closer, nil
}

// shortCaller trims a caller path to its last directory and file name.
func shortCaller(_ uintptr, file string, line int) string {
	parts := strings.Split(file, string(filepath.Separator))
	if len(parts) > 1 {
		return filepath.Join(parts[len(parts)-2:]...) + ":" + strconv.Itoa(line)
	}
	return filepath.Base(file) + ":" + strconv.Itoa(line)
}

// parseLevel parses the log level string.
func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
