package connectors

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/rollbar/rollbar-go"
)

type Rollbar struct {
	Token       string
	Environment string
}

// Handler wraps next so that records at error level and above are also sent to Rollbar.
func (r *Rollbar) Handler(next slog.Handler, version string) slog.Handler {
	rollbar.SetToken(r.Token)
	rollbar.SetEnvironment(r.Environment)
	rollbar.SetCodeVersion(version)
	if host, err := os.Hostname(); err == nil {
		rollbar.SetServerHost(host)
	}
	rollbar.SetEnabled(true)

	return &rollbarHandler{next: next}
}

func (r *Rollbar) Close() {
	if r.Token != "" {
		rollbar.Close()
	}
}

type rollbarHandler struct {
	next  slog.Handler
	attrs []slog.Attr
}

func (h *rollbarHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *rollbarHandler) Handle(ctx context.Context, record slog.Record) error {
	if record.Level >= slog.LevelError {
		extras := make(map[string]interface{}, record.NumAttrs()+len(h.attrs))
		var cause error
		collect := func(a slog.Attr) bool {
			if err, ok := a.Value.Any().(error); ok && cause == nil {
				cause = err
			}
			extras[a.Key] = a.Value.String()
			return true
		}
		for _, a := range h.attrs {
			collect(a)
		}
		record.Attrs(collect)

		if cause == nil {
			cause = errors.New(record.Message)
		}
		rollbar.Error(cause, extras)
	}

	return h.next.Handle(ctx, record)
}

func (h *rollbarHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	return &rollbarHandler{next: h.next.WithAttrs(attrs), attrs: merged}
}

func (h *rollbarHandler) WithGroup(name string) slog.Handler {
	return &rollbarHandler{next: h.next.WithGroup(name), attrs: h.attrs}
}
