package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

type Bolt struct {
	Path string

	db *bbolt.DB
}

func (b *Bolt) Client(_ context.Context) (*bbolt.DB, error) {
	if b.db != nil {
		return b.db, nil
	}

	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll: %w", err)
	}

	db, err := bbolt.Open(b.Path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt.Open(%s): %w", b.Path, err)
	}

	b.db = db
	return db, nil
}

func (b *Bolt) Close(ctx context.Context) {
	if b.db == nil {
		return
	}
	if err := b.db.Close(); err != nil {
		logger(ctx).Error("bolt close", slog.Any("error", err))
	}
	b.db = nil
}
