package connectors

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

type Postgres struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration

	db *sqlx.DB
}

func (p *Postgres) Client(ctx context.Context) (*sqlx.DB, error) {
	if p.db != nil {
		return p.db, nil
	}

	db, err := sqlx.ConnectContext(ctx, "pgx", p.DSN)
	if err != nil {
		return nil, fmt.Errorf("sqlx.ConnectContext: %w", err)
	}

	db.SetMaxIdleConns(p.MaxIdleConns)
	db.SetMaxOpenConns(p.MaxOpenConns)
	db.SetConnMaxLifetime(p.ConnMaxLifetime)

	p.db = db
	return db, nil
}

func (p *Postgres) Close(ctx context.Context) {
	if p.db == nil {
		return
	}
	if err := p.db.Close(); err != nil {
		logger(ctx).Error("postgres close", slog.Any("error", err))
	}
	p.db = nil
}
