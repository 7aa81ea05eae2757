package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/models"
)

// DefaultBundle is stored when the wizard did not pick one.
const DefaultBundle = "basic"

// NewTrainingPlan is one plan-builder wizard completion.
type NewTrainingPlan struct {
	Trainee
	Goal           string
	Experience     string
	DaysPerWeek    int
	CurrentMileage int
	RaceDistance   string
	PersonalBest   string
	Bundle         string
	CTA            string
}

// TrainingPlanRow is a plan joined with its trainee.
type TrainingPlanRow struct {
	ID             int64     `bun:"id" json:"id"`
	UserID         *int64    `bun:"user_id" json:"userID"`
	FirstName      string    `bun:"first_name" json:"firstName"`
	LastName       string    `bun:"last_name" json:"lastName"`
	Email          string    `bun:"email" json:"email"`
	Goal           string    `bun:"goal" json:"goal"`
	Experience     string    `bun:"experience" json:"experience"`
	DaysPerWeek    int       `bun:"days_per_week" json:"daysPerWeek"`
	CurrentMileage int       `bun:"current_mileage" json:"currentMileage"`
	RaceDistance   *string   `bun:"race_distance" json:"raceDistance,omitempty"`
	PersonalBest   *string   `bun:"personal_best" json:"personalBest,omitempty"`
	Bundle         *string   `bun:"bundle" json:"bundle,omitempty"`
	CTA            *string   `bun:"cta" json:"cta,omitempty"`
	CreatedAt      time.Time `bun:"created_at" json:"createdAt"`
}

const planJoinSQL = `
SELECT
	tp.id, tp.user_id,
	COALESCE(tr.first_name, '') AS first_name,
	COALESCE(tr.last_name, '') AS last_name,
	COALESCE(tr.email, '') AS email,
	tp.goal, tp.experience, tp.days_per_week, tp.current_mileage,
	tp.race_distance, tp.personal_best, tp.bundle, tp.cta,
	COALESCE(tp.created_at, now()) AS created_at
FROM training_plans tp
LEFT JOIN trainees tr ON tr.id = tp.user_id
`

// CreateTrainingPlan stores a wizard submission and returns the plan id.
func (s *Store) CreateTrainingPlan(ctx context.Context, in NewTrainingPlan) (int64, error) {
	row := &models.TrainingPlan{
		Goal:           strings.ToLower(strings.TrimSpace(in.Goal)),
		Experience:     strings.ToLower(strings.TrimSpace(in.Experience)),
		DaysPerWeek:    in.DaysPerWeek,
		CurrentMileage: in.CurrentMileage,
		RaceDistance:   optional(in.RaceDistance),
		PersonalBest:   optional(in.PersonalBest),
		Bundle:         optional(in.Bundle),
		CTA:            optional(in.CTA),
	}
	if row.Bundle == nil {
		b := DefaultBundle
		row.Bundle = &b
	}

	err := s.withTrainee(ctx, in.Trainee, func(ctx context.Context, tx bun.Tx, ref db.TraineeRef) error {
		row.UserID = ref.ID
		_, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create training plan: %w", err)
	}
	return row.ID, nil
}

// TrainingPlan returns one plan for the preview page.
func (s *Store) TrainingPlan(ctx context.Context, id int64) (TrainingPlanRow, error) {
	var row TrainingPlanRow
	if err := s.ready(ctx); err != nil {
		return row, err
	}
	if err := s.db.NewRaw(planJoinSQL+`WHERE tp.id = ?`, id).Scan(ctx, &row); err != nil {
		return row, notFound(err)
	}
	return row, nil
}

// TrainingPlans lists every plan, newest first.
func (s *Store) TrainingPlans(ctx context.Context) ([]TrainingPlanRow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows := []TrainingPlanRow{}
	if err := s.db.NewRaw(planJoinSQL+`ORDER BY tp.created_at DESC NULLS LAST, tp.id DESC`).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list training plans: %w", err)
	}
	return rows, nil
}

// UpdatePlanCTA records which call to action the visitor picked on the preview page.
func (s *Store) UpdatePlanCTA(ctx context.Context, id int64, cta string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.db.NewUpdate().
		Model((*models.TrainingPlan)(nil)).
		Set("cta = ?", strings.TrimSpace(cta)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update plan %d cta: %w", id, err)
	}
	return affectedOrNotFound(res)
}
