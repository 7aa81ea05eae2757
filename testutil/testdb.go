// Package testutil provides a throwaway PostgreSQL handle for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// EnvDatabaseURL names the variable that enables database tests.
const EnvDatabaseURL = "RUNSPIRE_TEST_DATABASE_URL"

// OpenTestDB connects to the database named by RUNSPIRE_TEST_DATABASE_URL
// with search_path set to an empty schema private to the calling package,
// so packages tested in parallel do not see each other's tables.
// The test is skipped when the variable is unset.
func OpenTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := os.Getenv(EnvDatabaseURL)
	if dsn == "" {
		t.Skipf("%s not set; skipping database test", EnvDatabaseURL)
	}
	schema := "runspire_test_" + callerPackage()
	ctx := context.Background()

	admin := open(dsn)
	defer admin.Close()
	for _, q := range []string{"DROP SCHEMA IF EXISTS ? CASCADE", "CREATE SCHEMA ?"} {
		if _, err := admin.ExecContext(ctx, q, bun.Ident(schema)); err != nil {
			t.Fatalf("prepare schema %s: %v", schema, err)
		}
	}

	db := open(dsn, pgdriver.WithConnParams(map[string]any{"search_path": schema}))
	t.Cleanup(func() { _ = db.Close() })
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("ping test database: %v", err)
	}
	return db
}

func open(dsn string, opts ...pgdriver.Option) *bun.DB {
	opts = append([]pgdriver.Option{pgdriver.WithDSN(dsn)}, opts...)
	return bun.NewDB(sql.OpenDB(pgdriver.NewConnector(opts...)), pgdialect.New())
}

func callerPackage() string {
	_, file, _, ok := runtime.Caller(2)
	if !ok {
		return "default"
	}
	return filepath.Base(filepath.Dir(file))
}

// Exec runs a statement and fails the test on error.
func Exec(t *testing.T, db bun.IDB, query string, args ...any) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// TableExists reports whether name is visible on the search path.
func TableExists(t *testing.T, db bun.IDB, name string) bool {
	t.Helper()
	var ok bool
	if err := db.NewRaw("SELECT to_regclass(?) IS NOT NULL", name).Scan(context.Background(), &ok); err != nil {
		t.Fatalf("to_regclass(%s): %v", name, err)
	}
	return ok
}

// Columns returns the column names of table in the current schema.
func Columns(t *testing.T, db bun.IDB, table string) []string {
	t.Helper()
	var cols []string
	err := db.NewRaw(
		"SELECT column_name FROM information_schema.columns WHERE table_schema = current_schema() AND table_name = ? ORDER BY ordinal_position",
		table,
	).Scan(context.Background(), &cols)
	if err != nil {
		t.Fatalf("columns of %s: %v", table, err)
	}
	return cols
}
