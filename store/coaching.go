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

// NewCoachingRequest is a coaching-form submission. Goal and Experience are labels.
type NewCoachingRequest struct {
	Trainee
	PackageType    string
	Goal           string
	Experience     string
	AdditionalInfo string
}

// CoachingRequestRow is a coaching request joined with its trainee.
type CoachingRequestRow struct {
	ID             int64     `bun:"id" json:"id"`
	UserID         *int64    `bun:"user_id" json:"userID"`
	FirstName      string    `bun:"first_name" json:"firstName"`
	LastName       string    `bun:"last_name" json:"lastName"`
	Email          string    `bun:"email" json:"email"`
	PackageType    string    `bun:"package_type" json:"packageType"`
	Goal           int       `bun:"goal" json:"goal"`
	GoalLabel      string    `bun:"-" json:"goalLabel"`
	Experience     int       `bun:"experience" json:"experience"`
	ExperienceName string    `bun:"-" json:"experienceLabel"`
	AdditionalInfo *string   `bun:"additional_info" json:"additionalInfo,omitempty"`
	Status         string    `bun:"status" json:"status"`
	CreatedAt      time.Time `bun:"created_at" json:"createdAt"`
}

const coachingJoinSQL = `
SELECT
	cr.id, cr.user_id,
	COALESCE(tr.first_name, '') AS first_name,
	COALESCE(tr.last_name, '') AS last_name,
	COALESCE(tr.email, '') AS email,
	cr.package_type, cr.goal, cr.experience, cr.additional_info,
	COALESCE(cr.status, 'pending') AS status,
	COALESCE(cr.created_at, now()) AS created_at
FROM coaching_requests cr
LEFT JOIN trainees tr ON tr.id = cr.user_id
`

// CreateCoachingRequest stores a coaching request and returns its id.
// Unknown goal or experience labels fall back to 5 km and beginner.
func (s *Store) CreateCoachingRequest(ctx context.Context, in NewCoachingRequest) (int64, error) {
	row := &models.CoachingRequest{
		PackageType: strings.ToLower(strings.TrimSpace(in.PackageType)),
		Goal:        models.GoalToKilometers(in.Goal),
		Experience:  models.ExperienceToLevel(in.Experience),
		Status:      models.StatusPending,
	}
	if in.AdditionalInfo != "" {
		info := in.AdditionalInfo
		row.AdditionalInfo = &info
	}

	err := s.withTrainee(ctx, in.Trainee, func(ctx context.Context, tx bun.Tx, ref db.TraineeRef) error {
		row.UserID = ref.ID
		_, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create coaching request: %w", err)
	}
	return row.ID, nil
}

// CoachingRequests lists every request, newest first.
func (s *Store) CoachingRequests(ctx context.Context) ([]CoachingRequestRow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows := []CoachingRequestRow{}
	if err := s.db.NewRaw(coachingJoinSQL+`ORDER BY cr.created_at DESC NULLS LAST, cr.id DESC`).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list coaching requests: %w", err)
	}
	for i := range rows {
		rows[i].GoalLabel = models.KilometersToGoal(rows[i].Goal)
		rows[i].ExperienceName = models.LevelToExperience(rows[i].Experience)
	}
	return rows, nil
}
