package connectors

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

type Slog struct {
	Name    string
	Version string
	Debug   bool

	// Rollbar is optional; errors are forwarded only when a token is set.
	Rollbar *Rollbar
}

func (s *Slog) Logger(_ context.Context) *slog.Logger {
	level := slog.LevelInfo
	if s.Debug {
		level = slog.LevelDebug
	}

	var handler slog.Handler = tint.NewHandler(os.Stdout, &tint.Options{
		Level:      level,
		AddSource:  s.Debug,
		TimeFormat: time.RFC3339,
	})

	if s.Rollbar != nil && s.Rollbar.Token != "" {
		handler = s.Rollbar.Handler(handler, s.Version)
	}

	logger := slog.New(handler).With(
		slog.String("app", s.Name),
		slog.String("version", s.Version),
	)
	slog.SetDefault(logger)

	return logger
}

func (s *Slog) Close() {
	if s.Rollbar != nil {
		s.Rollbar.Close()
	}
}
