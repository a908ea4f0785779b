package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hearth/internal/platform/config"
)

// Pinger is the readiness probe surface of the pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

func Connect(ctx context.Context, cfg config.Config) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConnLifetime = time.Hour
	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
