package db

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/NissBloom/runspire/models"
)

// CurrentSchemaVersion is bumped whenever Initialize learns a new table or column.
const CurrentSchemaVersion = 2

func readSchemaVersion(ctx context.Context, idb bun.IDB) (int, error) {
	var exists bool
	if err := idb.NewRaw("SELECT to_regclass('schema_meta') IS NOT NULL").Scan(ctx, &exists); err != nil {
		return 0, fmt.Errorf("look up schema_meta: %w", err)
	}
	if !exists {
		return 0, nil
	}

	var version int
	err := idb.NewSelect().
		Model((*models.SchemaMeta)(nil)).
		Column("version").
		Where("id = 1").
		Scan(ctx, &version)
	if err != nil {
		if isNoRows(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func writeSchemaVersion(ctx context.Context, idb bun.IDB, version int) error {
	meta := &models.SchemaMeta{ID: 1, Version: version}
	_, err := idb.NewInsert().
		Model(meta).
		On("CONFLICT (id) DO UPDATE").
		Set("version = EXCLUDED.version").
		Set("updated_at = now()").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}
