package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/models"
)

// NewTestimonial is a public submission. It always starts pending.
type NewTestimonial struct {
	Trainee
	Achievement         string
	Comment             string
	Rating              int
	ImageURL            string
	ImprovementFeedback string
}

// TestimonialUpdate carries the admin-editable fields; nil leaves a field unchanged.
type TestimonialUpdate struct {
	FirstName           *string
	LastName            *string
	Achievement         *string
	Comment             *string
	Rating              *int
	ImageURL            *string
	ImprovementFeedback *string
}

// TestimonialRow is a testimonial joined with its trainee.
type TestimonialRow struct {
	ID                  int64     `bun:"id" json:"id"`
	UserID              *int64    `bun:"user_id" json:"userID"`
	FirstName           string    `bun:"first_name" json:"firstName"`
	LastName            string    `bun:"last_name" json:"lastName"`
	Email               string    `bun:"email" json:"email"`
	Achievement         string    `bun:"achievement" json:"achievement"`
	Comment             string    `bun:"comment" json:"comment"`
	Rating              int       `bun:"rating" json:"rating"`
	ImageURL            *string   `bun:"image_url" json:"imageUrl"`
	Status              string    `bun:"status" json:"status"`
	ImprovementFeedback *string   `bun:"improvement_feedback" json:"improvementFeedback,omitempty"`
	CreatedAt           time.Time `bun:"created_at" json:"createdAt"`
}

const testimonialJoinSQL = `
SELECT
	t.id, t.user_id,
	COALESCE(tr.first_name, '') AS first_name,
	COALESCE(tr.last_name, '') AS last_name,
	COALESCE(tr.email, '') AS email,
	t.achievement, t.comment, t.rating, t.image_url,
	COALESCE(t.status, 'pending') AS status,
	t.improvement_feedback,
	COALESCE(t.created_at, now()) AS created_at
FROM testimonials t
LEFT JOIN trainees tr ON tr.id = t.user_id
`

// CreateTestimonial stores a pending testimonial and returns its id.
func (s *Store) CreateTestimonial(ctx context.Context, in NewTestimonial) (int64, error) {
	row := &models.Testimonial{
		Achievement:         strings.TrimSpace(in.Achievement),
		Comment:             strings.TrimSpace(in.Comment),
		Rating:              in.Rating,
		ImageURL:            optional(in.ImageURL),
		Status:              models.StatusPending,
		ImprovementFeedback: optional(in.ImprovementFeedback),
	}
	if row.ImageURL == nil {
		img := models.DefaultTestimonialImage
		row.ImageURL = &img
	}

	err := s.withTrainee(ctx, in.Trainee, func(ctx context.Context, tx bun.Tx, ref db.TraineeRef) error {
		row.UserID = ref.ID
		_, err := tx.NewInsert().Model(row).Returning("id").Exec(ctx)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create testimonial: %w", err)
	}
	return row.ID, nil
}

// AllTestimonials lists every testimonial for moderation, newest first.
func (s *Store) AllTestimonials(ctx context.Context) ([]TestimonialRow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows := []TestimonialRow{}
	if err := s.db.NewRaw(testimonialJoinSQL+`ORDER BY t.created_at DESC NULLS LAST, t.id DESC`).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("list testimonials: %w", err)
	}
	return rows, nil
}

// ApprovedTestimonials lists published testimonials (approved, rating above 3).
// With a non-blank email the caller's own pending testimonials are included.
func (s *Store) ApprovedTestimonials(ctx context.Context, email string) ([]TestimonialRow, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	email = db.NormalizeEmail(email)

	rows := []TestimonialRow{}
	q := testimonialJoinSQL + `
WHERE (t.status = ? AND t.rating > 3)
   OR (? <> '' AND t.status = ? AND lower(tr.email) = ?)
ORDER BY t.created_at DESC NULLS LAST, t.id DESC`
	err := s.db.NewRaw(q, models.StatusApproved, email, models.StatusPending, email).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list approved testimonials: %w", err)
	}
	return rows, nil
}

// ApproveTestimonial publishes a testimonial.
func (s *Store) ApproveTestimonial(ctx context.Context, id int64) error {
	return s.setTestimonialStatus(ctx, id, models.StatusApproved)
}

// RejectTestimonial hides a testimonial.
func (s *Store) RejectTestimonial(ctx context.Context, id int64) error {
	return s.setTestimonialStatus(ctx, id, models.StatusRejected)
}

func (s *Store) setTestimonialStatus(ctx context.Context, id int64, status string) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	res, err := s.db.NewUpdate().
		Model((*models.Testimonial)(nil)).
		Set("status = ?", status).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("set testimonial %d %s: %w", id, status, err)
	}
	return affectedOrNotFound(res)
}

// UpdateTestimonial edits content and the owner's name. Status is never touched.
func (s *Store) UpdateTestimonial(ctx context.Context, id int64, u TestimonialUpdate) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		var userID sql.NullInt64
		err := tx.NewSelect().
			Model((*models.Testimonial)(nil)).
			Column("user_id").
			Where("id = ?", id).
			Scan(ctx, &userID)
		if err != nil {
			return notFound(err)
		}

		q := tx.NewUpdate().Model((*models.Testimonial)(nil)).Where("id = ?", id)
		set := 0
		for col, v := range map[string]*string{
			"achievement":          u.Achievement,
			"comment":              u.Comment,
			"image_url":            u.ImageURL,
			"improvement_feedback": u.ImprovementFeedback,
		} {
			if v != nil {
				q = q.Set("? = ?", bun.Ident(col), strings.TrimSpace(*v))
				set++
			}
		}
		if u.Rating != nil {
			q = q.Set("rating = ?", *u.Rating)
			set++
		}
		if set > 0 {
			if _, err := q.Exec(ctx); err != nil {
				return fmt.Errorf("update testimonial %d: %w", id, err)
			}
		}

		if !userID.Valid || (u.FirstName == nil && u.LastName == nil) {
			return nil
		}
		tq := tx.NewUpdate().Model((*models.Trainee)(nil)).Where("id = ?", userID.Int64)
		if u.FirstName != nil {
			tq = tq.Set("first_name = ?", strings.TrimSpace(*u.FirstName))
		}
		if u.LastName != nil {
			tq = tq.Set("last_name = ?", strings.TrimSpace(*u.LastName))
		}
		if _, err := tq.Exec(ctx); err != nil {
			return fmt.Errorf("rename trainee %d: %w", userID.Int64, err)
		}
		return nil
	})
}
