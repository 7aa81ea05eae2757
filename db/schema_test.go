package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEntity(t *testing.T) {
	e, err := ParseEntity(" Training_Plans ")
	require.NoError(t, err)
	assert.Equal(t, TrainingPlans, e)

	_, err = ParseEntity("users")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestEntityRegistry(t *testing.T) {
	assert.Equal(t, []Entity{Testimonials, TrainingPlans, CoachingRequests}, ChildEntities())
	assert.False(t, Trainees.IsChild())

	for _, e := range Entities {
		cols := BackfillColumns(e)
		names := make([]string, 0, len(cols))
		for _, c := range cols {
			require.NoError(t, c.validate(), "%s.%s", e, c.Name)
			names = append(names, c.Name)
		}
		assert.Contains(t, names, "created_at", e)
	}

	plan := BackfillColumns(TrainingPlans)
	assert.Contains(t, plan, Column{"bundle", "TEXT"})
	assert.Contains(t, plan, Column{"cta", "TEXT"})
}

func TestColumnValidate(t *testing.T) {
	assert.NoError(t, Column{"status", "VARCHAR(50) DEFAULT 'pending'"}.validate())
	assert.ErrorIs(t, Column{"bad name", "TEXT"}.validate(), ErrInvalidColumn)
	assert.ErrorIs(t, Column{"x", "TEXT; DROP TABLE trainees"}.validate(), ErrInvalidColumn)
}

func TestResetAllGuards(t *testing.T) {
	// Neither guard touches the database.
	m := NewManager(nil, nil)
	ctx := context.Background()

	assert.ErrorIs(t, m.ResetAll(ctx, true, true), ErrResetForbidden)
	assert.ErrorIs(t, m.ResetAll(ctx, false, true), ErrResetForbidden)
	assert.ErrorIs(t, m.ResetAll(ctx, false, false), ErrResetNotAllowed)
}

func TestMigrateLegacyRowsRejectsParent(t *testing.T) {
	_, err := migrateLegacyRows(context.Background(), nil, nil, Trainees)
	assert.ErrorIs(t, err, ErrNotChildEntity)

	_, err = migrateLegacyRows(context.Background(), nil, nil, Entity("horses"))
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@x.com", NormalizeEmail("  Jane@X.com "))
	assert.Empty(t, NormalizeEmail("   "))
}

func TestResolveOrCreateTraineeRequiresEmail(t *testing.T) {
	_, err := ResolveOrCreateTrainee(context.Background(), nil, "Jane", "Doe", "  ")
	assert.ErrorIs(t, err, ErrEmailRequired)
}
