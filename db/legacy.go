package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// legacyColumns are the denormalized person fields older deployments stored on every child row.
var legacyColumns = []string{"first_name", "last_name", "email"}

// MigrationReport describes what one legacy migration pass changed.
type MigrationReport struct {
	Entity               Entity `json:"entity"`
	TableFound           bool   `json:"tableFound"`
	HadLegacyColumns     bool   `json:"hadLegacyColumns"`
	AddedUserID          bool   `json:"addedUserID"`
	Backfilled           int    `json:"backfilled"`
	TraineesCreated      int    `json:"traineesCreated"`
	Unresolved           int    `json:"unresolved"`
	AddedForeignKey      bool   `json:"addedForeignKey"`
	DroppedLegacyColumns bool   `json:"droppedLegacyColumns"`
}

// Complete reports whether the table is now fully keyed by trainee.
func (r MigrationReport) Complete() bool {
	return r.Unresolved == 0
}

type legacyRow struct {
	ID        string `bun:"id"`
	FirstName string `bun:"first_name"`
	LastName  string `bun:"last_name"`
	Email     string `bun:"email"`
}

// migrateLegacyRows moves e from per-row person columns to a user_id foreign key.
// Rows already keyed are skipped, so a partial run can simply be repeated.
func migrateLegacyRows(ctx context.Context, idb bun.IDB, log *zap.Logger, e Entity) (MigrationReport, error) {
	report := MigrationReport{Entity: e}
	if !e.Valid() {
		return report, fmt.Errorf("%w: %q", ErrUnknownEntity, e)
	}
	if !e.IsChild() {
		return report, fmt.Errorf("%w: %s", ErrNotChildEntity, e)
	}
	table := bun.Ident(string(e))

	cols, err := tableColumns(ctx, idb, string(e))
	if err != nil {
		return report, err
	}
	if len(cols) == 0 {
		return report, nil
	}
	report.TableFound = true
	report.HadLegacyColumns = cols["email"]
	if !report.HadLegacyColumns {
		return report, nil
	}

	if err := ensureTable(ctx, idb, Trainees); err != nil {
		return report, err
	}

	if !cols["user_id"] {
		if _, err := idb.ExecContext(ctx, "ALTER TABLE ? ADD COLUMN IF NOT EXISTS user_id BIGINT", table); err != nil && !alreadyExists(err) {
			return report, fmt.Errorf("add user_id to %s: %w", e, err)
		}
		report.AddedUserID = true
	}

	var rows []legacyRow
	err = idb.NewRaw(
		"SELECT id::text AS id, "+nameExpr(cols, "first_name")+", "+nameExpr(cols, "last_name")+", email "+
			"FROM ? WHERE user_id IS NULL AND email IS NOT NULL AND btrim(email) <> '' ORDER BY id",
		table,
	).Scan(ctx, &rows)
	if err != nil && !isNoRows(err) {
		return report, fmt.Errorf("read legacy rows of %s: %w", e, err)
	}

	var errs []error
	for _, row := range rows {
		ref, err := ResolveOrCreateTrainee(ctx, idb, row.FirstName, row.LastName, row.Email)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s row %s: %w", e, row.ID, err))
			continue
		}
		res, err := idb.ExecContext(ctx,
			"UPDATE ? SET user_id = ? WHERE id::text = ? AND user_id IS NULL",
			table, ref.ID, row.ID,
		)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s row %s: set user_id: %w", e, row.ID, err))
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			report.Backfilled++
			if ref.IsNew {
				report.TraineesCreated++
			}
		}
	}

	if err := idb.NewRaw("SELECT count(*) FROM ? WHERE user_id IS NULL", table).Scan(ctx, &report.Unresolved); err != nil {
		return report, fmt.Errorf("count unresolved rows of %s: %w", e, err)
	}

	if report.Unresolved > 0 {
		// Keep the legacy columns for a later pass but let new inserts omit them.
		for _, col := range legacyColumns {
			if !cols[col] {
				continue
			}
			if _, err := idb.ExecContext(ctx, "ALTER TABLE ? ALTER COLUMN ? DROP NOT NULL", table, bun.Ident(col)); err != nil {
				errs = append(errs, fmt.Errorf("relax %s.%s: %w", e, col, err))
			}
		}
		log.Warn("legacy rows left without a trainee",
			zap.String("entity", string(e)),
			zap.Int("unresolved", report.Unresolved),
		)
		return report, errors.Join(errs...)
	}

	added, err := ensureTraineeForeignKey(ctx, idb, e)
	if err != nil {
		return report, errors.Join(append(errs, err)...)
	}
	report.AddedForeignKey = added

	if _, err := idb.ExecContext(ctx, "ALTER TABLE ? ALTER COLUMN user_id SET NOT NULL", table); err != nil {
		errs = append(errs, fmt.Errorf("require %s.user_id: %w", e, err))
	}
	for _, col := range legacyColumns {
		if _, err := idb.ExecContext(ctx, "ALTER TABLE ? DROP COLUMN IF EXISTS ?", table, bun.Ident(col)); err != nil {
			errs = append(errs, fmt.Errorf("drop %s.%s: %w", e, col, err))
		}
	}
	report.DroppedLegacyColumns = len(errs) == 0

	log.Info("legacy rows migrated",
		zap.String("entity", string(e)),
		zap.Int("backfilled", report.Backfilled),
		zap.Int("trainees_created", report.TraineesCreated),
		zap.Bool("foreign_key_added", report.AddedForeignKey),
	)
	return report, errors.Join(errs...)
}

func nameExpr(cols map[string]bool, col string) string {
	if cols[col] {
		return "COALESCE(" + col + ", '') AS " + col
	}
	return "'' AS " + col
}

// ensureTraineeForeignKey adds fk_<table>_user_id unless the table already has a foreign key.
func ensureTraineeForeignKey(ctx context.Context, idb bun.IDB, e Entity) (bool, error) {
	var n int
	err := idb.NewRaw(
		"SELECT count(*) FROM pg_constraint WHERE conrelid = to_regclass(?) AND contype = 'f'",
		string(e),
	).Scan(ctx, &n)
	if err != nil {
		return false, fmt.Errorf("inspect constraints of %s: %w", e, err)
	}
	if n > 0 {
		return false, nil
	}

	_, err = idb.ExecContext(ctx,
		"ALTER TABLE ? ADD CONSTRAINT ? FOREIGN KEY (user_id) REFERENCES ? (id) ON DELETE CASCADE",
		bun.Ident(string(e)), bun.Ident("fk_"+string(e)+"_user_id"), bun.Ident(string(Trainees)),
	)
	if err != nil {
		if alreadyExists(err) {
			return false, nil
		}
		return false, fmt.Errorf("add foreign key to %s: %w", e, err)
	}
	return true, nil
}
