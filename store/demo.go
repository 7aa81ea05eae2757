package store

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/models"
)

type demoTestimonial struct {
	Trainee
	Achievement string
	Comment     string
}

var demoTestimonials = []demoTestimonial{
	{
		Trainee:     Trainee{"Sarah", "M.", "demo.sarah@example.com"},
		Achievement: "First 5K Completion",
		Comment:     "I never thought I could run 5K without stopping, but Nissan's structured approach made it feel achievable. The gradual build-up from walk-run intervals to continuous running was perfect for my fitness level. The weekly check-ins kept me motivated, and his encouragement during tough weeks made all the difference. Crossed the finish line in 28 minutes and felt absolutely amazing! Now I'm already thinking about my next goal - maybe a 10K?",
	},
	{
		Trainee:     Trainee{"David", "K.", "demo.david@example.com"},
		Achievement: "Marathon PR - Sub 3:30",
		Comment:     "After years of running without structure, I hit a plateau and couldn't break 3:45 in the marathon. Nissan's data-driven approach completely changed my training. He analyzed my previous races, identified that I was running my easy runs too fast, and restructured my entire approach. The combination of proper easy pace, targeted tempo work, and strategic long runs made all the difference. Just ran 3:28 at Berlin - 17 minutes faster than my previous best! The science-backed training really works.",
	},
	{
		Trainee:     Trainee{"Emma", "R.", "demo.emma@example.com"},
		Achievement: "Return to Running After Injury",
		Comment:     "Coming back from a knee injury was scary - I was afraid I'd never run pain-free again. Nissan's careful progression plan started with just 10-minute walk-run sessions and built up so gradually that I never felt overwhelmed. His emphasis on listening to my body, proper recovery, and strength work alongside running was exactly what I needed. Six months later, I'm running stronger than before my injury and just completed my first half marathon in 1:52. The patience and expertise he showed during my comeback was incredible.",
	},
}

const demoFeedback = "nothing_great"

// SeedDemoTestimonials inserts the example testimonials shown on a fresh site.
// A (trainee, achievement) pair already present is skipped. Returns how many were added.
func (s *Store) SeedDemoTestimonials(ctx context.Context) (int, error) {
	added := 0
	for _, d := range demoTestimonials {
		err := s.withTrainee(ctx, d.Trainee, func(ctx context.Context, tx bun.Tx, ref db.TraineeRef) error {
			exists, err := tx.NewSelect().
				Model((*models.Testimonial)(nil)).
				Where("user_id = ? AND achievement = ?", ref.ID, d.Achievement).
				Exists(ctx)
			if err != nil || exists {
				return err
			}

			img, feedback := models.DefaultTestimonialImage, demoFeedback
			row := &models.Testimonial{
				UserID:              ref.ID,
				Achievement:         d.Achievement,
				Comment:             d.Comment,
				Rating:              5,
				ImageURL:            &img,
				Status:              models.StatusApproved,
				ImprovementFeedback: &feedback,
			}
			if _, err := tx.NewInsert().Model(row).Exec(ctx); err != nil {
				return err
			}
			added++
			return nil
		})
		if err != nil {
			return added, fmt.Errorf("seed demo testimonial for %s: %w", d.Email, err)
		}
	}
	s.log.Info("demo testimonials seeded", zap.Int("added", added))
	return added, nil
}

// RemoveDemoTestimonials deletes the demo trainees and their testimonials.
// Returns how many demo trainees were removed.
func (s *Store) RemoveDemoTestimonials(ctx context.Context) (int, error) {
	if err := s.ready(ctx); err != nil {
		return 0, err
	}
	emails := make([]string, len(demoTestimonials))
	for i, d := range demoTestimonials {
		emails[i] = d.Email
	}

	removed := 0
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ids := tx.NewSelect().
			Model((*models.Trainee)(nil)).
			Column("id").
			Where("email IN (?)", bun.In(emails))
		if _, err := tx.NewDelete().
			Model((*models.Testimonial)(nil)).
			Where("user_id IN (?)", ids).
			Exec(ctx); err != nil {
			return err
		}
		res, err := tx.NewDelete().
			Model((*models.Trainee)(nil)).
			Where("email IN (?)", bun.In(emails)).
			Exec(ctx)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		removed = int(n)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("remove demo testimonials: %w", err)
	}
	s.log.Info("demo testimonials removed", zap.Int("trainees", removed))
	return removed, nil
}
