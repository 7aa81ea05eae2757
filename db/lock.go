package db

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// schemaLockKey serializes schema DDL across every process sharing the database.
const schemaLockKey int64 = 987654321

// withSchemaLock runs fn on a dedicated connection holding the session advisory lock.
// The lock is released on the same connection on every path.
func (m *Manager) withSchemaLock(ctx context.Context, fn func(ctx context.Context, conn bun.IDB) error) (err error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock(?)", schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	defer func() {
		// Unlock even when ctx is already cancelled.
		uctx := context.WithoutCancel(ctx)
		if _, uerr := conn.ExecContext(uctx, "SELECT pg_advisory_unlock(?)", schemaLockKey); uerr != nil {
			m.log.Error("release schema lock", zap.Error(uerr))
			// A session lock dies with its session, so drop the connection instead of pooling it.
			_ = conn.Raw(func(any) error { return driver.ErrBadConn })
		}
	}()

	return fn(ctx, conn)
}
