package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// Manager owns the Runspire schema: creation, additive backfill, legacy
// migration and the guarded reset. It is safe for concurrent use.
type Manager struct {
	db  *bun.DB
	log *zap.Logger

	ready atomic.Bool
	mu    sync.Mutex
}

// ConnectionStatus is returned by VerifyConnection.
type ConnectionStatus struct {
	Database string `json:"database"`
}

func NewManager(db *bun.DB, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{db: db, log: log.Named("schema")}
}

// DB returns the underlying handle.
func (m *Manager) DB() *bun.DB {
	return m.db
}

// EnsureTable creates e and its parent when missing and adds any missing backfill columns.
func (m *Manager) EnsureTable(ctx context.Context, e Entity) error {
	return m.withSchemaLock(ctx, func(ctx context.Context, conn bun.IDB) error {
		return ensureTable(ctx, conn, e)
	})
}

// EnsureColumn adds col to e unless it is already there.
func (m *Manager) EnsureColumn(ctx context.Context, e Entity, col Column) error {
	if !e.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, e)
	}
	if err := col.validate(); err != nil {
		return err
	}
	return m.withSchemaLock(ctx, func(ctx context.Context, conn bun.IDB) error {
		return ensureColumn(ctx, conn, e, col)
	})
}

// MigrateLegacyRows attaches every legacy row of e to a trainee. See migrateLegacyRows.
func (m *Manager) MigrateLegacyRows(ctx context.Context, e Entity) (MigrationReport, error) {
	var report MigrationReport
	err := m.withSchemaLock(ctx, func(ctx context.Context, conn bun.IDB) error {
		var err error
		report, err = migrateLegacyRows(ctx, conn, m.log, e)
		return err
	})
	if err != nil {
		m.log.Error("legacy migration", zap.String("entity", string(e)), zap.Error(err))
	}
	return report, err
}

// MigrateAllLegacyRows runs MigrateLegacyRows for every child entity and
// keeps going past failures.
func (m *Manager) MigrateAllLegacyRows(ctx context.Context) ([]MigrationReport, error) {
	var (
		reports []MigrationReport
		errs    []error
	)
	for _, e := range ChildEntities() {
		r, err := m.MigrateLegacyRows(ctx, e)
		reports = append(reports, r)
		if err != nil {
			errs = append(errs, err)
		}
	}
	return reports, errors.Join(errs...)
}

// Initialize brings the schema to CurrentSchemaVersion without dropping anything.
func (m *Manager) Initialize(ctx context.Context) error {
	err := m.withSchemaLock(ctx, func(ctx context.Context, conn bun.IDB) error {
		if err := ensureSupportTables(ctx, conn); err != nil {
			return err
		}
		if err := ensureTable(ctx, conn, Trainees); err != nil {
			return err
		}
		for _, e := range ChildEntities() {
			report, err := migrateLegacyRows(ctx, conn, m.log, e)
			if err != nil {
				return err
			}
			if !report.Complete() {
				m.log.Warn("legacy migration incomplete",
					zap.String("entity", string(e)),
					zap.Int("unresolved", report.Unresolved),
				)
			}
			if err := ensureTable(ctx, conn, e); err != nil {
				return err
			}
		}
		return writeSchemaVersion(ctx, conn, CurrentSchemaVersion)
	})
	if err != nil {
		m.log.Error("initialize schema", zap.Error(err))
		return err
	}

	m.ready.Store(true)
	m.log.Info("schema initialized", zap.Int("schema_version", CurrentSchemaVersion))
	return nil
}

// Ready makes sure the schema is current, initializing it at most once per
// process. A failure is not memoized so the next call retries.
func (m *Manager) Ready(ctx context.Context) error {
	if m.ready.Load() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready.Load() {
		return nil
	}

	version, err := readSchemaVersion(ctx, m.db)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	switch {
	case version == CurrentSchemaVersion:
		m.ready.Store(true)
		return nil
	case version > CurrentSchemaVersion:
		return fmt.Errorf("%w: %w (found %d, want %d)", ErrSchemaUnavailable, ErrSchemaTooNew, version, CurrentSchemaVersion)
	}

	if err := m.Initialize(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaUnavailable, err)
	}
	return nil
}

// ResolveOrCreateTrainee is ResolveOrCreateTrainee on the manager's pool once the schema is ready.
func (m *Manager) ResolveOrCreateTrainee(ctx context.Context, firstName, lastName, email string) (TraineeRef, error) {
	if err := m.Ready(ctx); err != nil {
		return TraineeRef{}, err
	}
	return ResolveOrCreateTrainee(ctx, m.db, firstName, lastName, email)
}

// Ping runs SELECT 1.
func (m *Manager) Ping(ctx context.Context) error {
	var one int
	if err := m.db.NewRaw("SELECT 1").Scan(ctx, &one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

func (m *Manager) VerifyConnection(ctx context.Context) (ConnectionStatus, error) {
	var status ConnectionStatus
	if err := m.db.NewRaw("SELECT current_database()").Scan(ctx, &status.Database); err != nil {
		return status, fmt.Errorf("verify connection: %w", err)
	}
	return status, nil
}

// SchemaVersion reads the stored marker; 0 means the schema was never initialized.
func (m *Manager) SchemaVersion(ctx context.Context) (int, error) {
	return readSchemaVersion(ctx, m.db)
}
