package db

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/uptrace/bun"

	"github.com/NissBloom/runspire/models"
)

// Entity names one of the four managed tables.
type Entity string

const (
	Trainees         Entity = "trainees"
	Testimonials     Entity = "testimonials"
	TrainingPlans    Entity = "training_plans"
	CoachingRequests Entity = "coaching_requests"
)

// Entities lists the managed tables parents first.
var Entities = []Entity{Trainees, Testimonials, TrainingPlans, CoachingRequests}

// Column is an additive column definition. Type is raw SQL and must come from code, never from input.
type Column struct {
	Name string
	Type string
}

type tableSpec struct {
	model  any
	parent Entity
	// backfill lists columns introduced after the first deployment.
	backfill []Column
}

var createdAt = Column{"created_at", "TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP"}

var tableSpecs = map[Entity]tableSpec{
	Trainees: {
		model:    (*models.Trainee)(nil),
		backfill: []Column{createdAt},
	},
	Testimonials: {
		model:  (*models.Testimonial)(nil),
		parent: Trainees,
		backfill: []Column{
			{"image_url", "TEXT"},
			{"status", "VARCHAR(50) DEFAULT 'pending'"},
			{"improvement_feedback", "TEXT"},
			createdAt,
		},
	},
	TrainingPlans: {
		model:  (*models.TrainingPlan)(nil),
		parent: Trainees,
		backfill: []Column{
			{"race_distance", "TEXT"},
			{"personal_best", "TEXT"},
			{"bundle", "TEXT"},
			{"cta", "TEXT"},
			createdAt,
		},
	},
	CoachingRequests: {
		model:  (*models.CoachingRequest)(nil),
		parent: Trainees,
		backfill: []Column{
			{"additional_info", "TEXT"},
			{"status", "VARCHAR(255) DEFAULT 'pending'"},
			createdAt,
		},
	},
}

// Valid reports whether e is one of the managed tables.
func (e Entity) Valid() bool {
	_, ok := tableSpecs[e]
	return ok
}

// IsChild reports whether rows of e reference a trainee.
func (e Entity) IsChild() bool {
	return tableSpecs[e].parent != ""
}

// ParseEntity accepts a table name.
func ParseEntity(s string) (Entity, error) {
	e := Entity(strings.ToLower(strings.TrimSpace(s)))
	if !e.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownEntity, s)
	}
	return e, nil
}

// ChildEntities returns the tables that carry a user_id, in creation order.
func ChildEntities() []Entity {
	out := make([]Entity, 0, len(Entities)-1)
	for _, e := range Entities {
		if e.IsChild() {
			out = append(out, e)
		}
	}
	return out
}

// BackfillColumns returns the additive columns ensured for e.
func BackfillColumns(e Entity) []Column {
	return append([]Column(nil), tableSpecs[e].backfill...)
}

var (
	identRe   = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	colTypeRe = regexp.MustCompile(`^[A-Za-z0-9_ (),'.]+$`)
)

func (c Column) validate() error {
	if !identRe.MatchString(c.Name) || !colTypeRe.MatchString(c.Type) {
		return fmt.Errorf("%w: %q %q", ErrInvalidColumn, c.Name, c.Type)
	}
	return nil
}

// ensureTable creates e (and its parent first) when missing, then backfills
// later columns. Existing tables are never altered destructively.
func ensureTable(ctx context.Context, idb bun.IDB, e Entity) error {
	spec, ok := tableSpecs[e]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownEntity, e)
	}
	if spec.parent != "" {
		if err := ensureTable(ctx, idb, spec.parent); err != nil {
			return err
		}
	}

	q := idb.NewCreateTable().Model(spec.model).IfNotExists()
	if spec.parent != "" {
		q = q.ForeignKey(`("user_id") REFERENCES ? ("id") ON DELETE CASCADE`, bun.Ident(string(spec.parent)))
	}
	if _, err := q.Exec(ctx); err != nil && !alreadyExists(err) {
		return fmt.Errorf("create table %s: %w", e, err)
	}

	for _, col := range spec.backfill {
		if err := ensureColumn(ctx, idb, e, col); err != nil {
			return err
		}
	}
	return nil
}

func ensureColumn(ctx context.Context, idb bun.IDB, e Entity, col Column) error {
	if err := col.validate(); err != nil {
		return err
	}
	_, err := idb.ExecContext(ctx,
		"ALTER TABLE ? ADD COLUMN IF NOT EXISTS ? "+col.Type,
		bun.Ident(string(e)), bun.Ident(col.Name),
	)
	if err != nil && !alreadyExists(err) {
		return fmt.Errorf("add column %s.%s: %w", e, col.Name, err)
	}
	return nil
}

func ensureSupportTables(ctx context.Context, idb bun.IDB) error {
	for _, model := range []any{(*models.SchemaMeta)(nil), (*models.Admin)(nil)} {
		if _, err := idb.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil && !alreadyExists(err) {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// tableColumns returns the column names of table in the current schema; empty when the table is absent.
func tableColumns(ctx context.Context, idb bun.IDB, table string) (map[string]bool, error) {
	var names []string
	err := idb.NewRaw(`
		SELECT column_name
		FROM information_schema.columns
		WHERE table_schema = current_schema() AND table_name = ?`,
		table,
	).Scan(ctx, &names)
	if err != nil {
		return nil, fmt.Errorf("inspect columns of %s: %w", table, err)
	}
	cols := make(map[string]bool, len(names))
	for _, n := range names {
		cols[n] = true
	}
	return cols, nil
}
