package db

import (
	"errors"
	"strings"
)

var (
	// ErrResetForbidden is returned for any reset attempt in production.
	ErrResetForbidden = errors.New("reset is not allowed in production")
	// ErrResetNotAllowed is returned when the destructive-operation flag is off.
	ErrResetNotAllowed = errors.New("reset requires ALLOW_DB_RESET")
	// ErrSchemaUnavailable wraps any failure to bring the schema up to date.
	ErrSchemaUnavailable = errors.New("database schema unavailable")
	// ErrSchemaTooNew means the database was migrated by a newer release.
	ErrSchemaTooNew = errors.New("database schema is newer than this release supports")

	ErrUnknownEntity  = errors.New("unknown entity")
	ErrNotChildEntity = errors.New("entity has no trainee reference")
	ErrEmailRequired  = errors.New("trainee email is required")
	ErrInvalidColumn  = errors.New("invalid column definition")
)

// sqlStateError matches pgdriver.Error without depending on its concrete type.
type sqlStateError interface {
	error
	Field(k byte) string
}

// SQLState returns the Postgres error code carried by err, or "".
func SQLState(err error) string {
	var pgErr sqlStateError
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

// IsUniqueViolation reports a 23505 error.
func IsUniqueViolation(err error) bool {
	return SQLState(err) == "23505"
}

// alreadyExists reports errors that additive DDL treats as success.
func alreadyExists(err error) bool {
	var pgErr sqlStateError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Field('C') {
	case "42P07", // duplicate_table
		"42701", // duplicate_column
		"42710": // duplicate_object
		return true
	case "23505":
		// Two concurrent CREATE TABLE IF NOT EXISTS can collide on the row type.
		return strings.HasPrefix(pgErr.Field('n'), "pg_type_")
	}
	return false
}
