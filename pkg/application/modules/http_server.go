package modules

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"group_project_service/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type HTTPServer struct {
	ShutdownTimeout time.Duration
}

// Run binds httpServer.Addr and serves inside g until gCtx is cancelled, then
// shuts the server down gracefully. The bound address is returned so callers
// listening on port 0 can learn the real port.
func (h HTTPServer) Run(
	gCtx context.Context,
	g *errgroup.Group,
	httpServer *http.Server,
) (net.Addr, error) {
	var lc net.ListenConfig
	listener, err := lc.Listen(gCtx, "tcp", httpServer.Addr)
	if err != nil {
		return nil, fmt.Errorf("net.Listen(%s): %w", httpServer.Addr, err)
	}
	addr := listener.Addr()

	g.Go(func() error {
		logger(gCtx).Info("http server started", slog.String("address", addr.String()))

		err := httpServer.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger(gCtx).Error("http server Serve error", slog.Any("error", err))
			return fmt.Errorf("httpServer.Serve: %w", err)
		}

		logger(gCtx).Info("http server stopped listening")
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		logger(gCtx).Info("http server is shutting down", slog.Duration("timeout", h.ShutdownTimeout))

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gCtx), h.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger(gCtx).Error("http server shutdown error", slog.Any("error", err))
			return fmt.Errorf("httpServer.Shutdown: %w", err)
		}

		logger(gCtx).Info("http server shut down gracefully")
		return nil
	})

	return addr, nil
}
