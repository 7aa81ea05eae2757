package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakePGError struct {
	fields map[byte]string
}

func (e fakePGError) Error() string       { return "pg: " + e.fields['M'] }
func (e fakePGError) Field(k byte) string { return e.fields[k] }

func pgErr(code, constraint string) error {
	return fmt.Errorf("exec: %w", fakePGError{fields: map[byte]string{'C': code, 'n': constraint, 'M': "boom"}})
}

func TestSQLState(t *testing.T) {
	assert.Equal(t, "23505", SQLState(pgErr("23505", "")))
	assert.Empty(t, SQLState(errors.New("plain")))
	assert.True(t, IsUniqueViolation(pgErr("23505", "trainees_email_key")))
	assert.False(t, IsUniqueViolation(pgErr("23503", "")))
}

func TestAlreadyExists(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"duplicate table", pgErr("42P07", ""), true},
		{"duplicate column", pgErr("42701", ""), true},
		{"duplicate object", pgErr("42710", ""), true},
		{"pg_type race", pgErr("23505", "pg_type_typname_nsp_index"), true},
		{"real unique violation", pgErr("23505", "trainees_email_key"), false},
		{"undefined table", pgErr("42P01", ""), false},
		{"not a pg error", errors.New("connection refused"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, alreadyExists(tt.err))
		})
	}
}
