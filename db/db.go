package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/NissBloom/runspire/config"
)

// Open builds a PostgreSQL handle from the config without touching the network.
func Open(cfg *config.Config) *bun.DB {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.PostgresDSN())))
	sqldb.SetMaxOpenConns(20)
	sqldb.SetMaxIdleConns(5)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())
	if cfg.Debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// Setup opens a PostgreSQL connection and verifies it is reachable.
// The handle is returned even when the ping fails so callers can retry later.
func Setup(ctx context.Context, cfg *config.Config) (*bun.DB, error) {
	db := Open(cfg)
	if err := db.PingContext(ctx); err != nil {
		return db, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
