package main

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/preplan"
	"gopkg.in/natefinch/lumberjack.v2"
)

type logConfig struct {
	level      string
	format     string
	file       string
	stderr     io.Writer
	isTerminal bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newLogger builds the process logger. Logs go to stderr unless a log file is
// configured, in which case they are appended to a size-rotated file.
func newLogger(cfg logConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	if cfg.level == "" {
		level = slog.LevelInfo
	} else if err := level.UnmarshalText([]byte(cfg.level)); err != nil {
		return nil, nil, goerr.Wrap(err, "invalid log level",
			goerr.Tag(preplan.ErrTagValidation),
			goerr.V("level", cfg.level))
	}

	var (
		w      io.Writer = cfg.stderr
		closer io.Closer = nopCloser{}
	)
	if cfg.file != "" {
		rotated := &lumberjack.Logger{
			Filename:   cfg.file,
			MaxSize:    15, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w, closer = rotated, rotated
	}

	format := strings.ToLower(cfg.format)
	if format == "" {
		format = "json"
		if cfg.file == "" && cfg.isTerminal {
			format = "text"
		}
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, nil, goerr.New("invalid log format",
			goerr.Tag(preplan.ErrTagValidation),
			goerr.V("format", cfg.format))
	}

	return slog.New(handler), closer, nil
}

// ctxWithRunLogger tags every record of this invocation with a fresh run ID.
func ctxWithRunLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return preplan.CtxWithLogger(ctx, logger.With(slog.String("run_id", uuid.NewString())))
}
