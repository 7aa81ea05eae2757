package db

import (
	"context"
	"fmt"
	"slices"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// ResetAll drops and recreates the four managed tables.
// Production always refuses, whatever allowDestructive says.
func (m *Manager) ResetAll(ctx context.Context, allowDestructive, isProduction bool) error {
	if isProduction {
		m.log.Warn("reset refused in production")
		return ErrResetForbidden
	}
	if !allowDestructive {
		return ErrResetNotAllowed
	}

	err := m.withSchemaLock(ctx, func(ctx context.Context, conn bun.IDB) error {
		return conn.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if err := ensureSupportTables(ctx, tx); err != nil {
				return err
			}
			// Children first, so no CASCADE is needed.
			for _, e := range slices.Backward(Entities) {
				if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS ?", bun.Ident(string(e))); err != nil {
					return fmt.Errorf("drop %s: %w", e, err)
				}
			}
			for _, e := range Entities {
				if err := ensureTable(ctx, tx, e); err != nil {
					return err
				}
			}
			return writeSchemaVersion(ctx, tx, CurrentSchemaVersion)
		})
	})
	if err != nil {
		m.log.Error("reset failed", zap.Error(err))
		m.ready.Store(false)
		return err
	}

	m.ready.Store(true)
	m.log.Warn("database reset", zap.Int("schema_version", CurrentSchemaVersion))
	return nil
}
