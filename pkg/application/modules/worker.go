package modules

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"
)

type Worker struct {
	Concurrency int
}

// Run processes tasks from redis with handler until gCtx is cancelled.
func (w Worker) Run(
	gCtx context.Context,
	g *errgroup.Group,
	redis asynq.RedisConnOpt,
	handler asynq.Handler,
) {
	srv := asynq.NewServer(redis, asynq.Config{
		Concurrency: w.Concurrency,
		BaseContext: func() context.Context {
			return context.WithoutCancel(gCtx)
		},
	})

	g.Go(func() error {
		logger(gCtx).Info("worker started", slog.Int("concurrency", w.Concurrency))

		if err := srv.Start(handler); err != nil {
			logger(gCtx).Error("worker start error", slog.Any("error", err))
			return fmt.Errorf("srv.Start: %w", err)
		}

		<-gCtx.Done()

		logger(gCtx).Info("worker is shutting down")
		srv.Shutdown()
		logger(gCtx).Info("worker shut down gracefully")
		return nil
	})
}
