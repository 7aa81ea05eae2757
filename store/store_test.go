package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/models"
	"github.com/NissBloom/runspire/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	log := zaptest.NewLogger(t)
	return New(db.NewManager(testutil.OpenTestDB(t), log), log)
}

func count(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.NewRaw("SELECT count(*) FROM ?", bun.Ident(table)).Scan(context.Background(), &n))
	return n
}

var jane = Trainee{FirstName: "Jane", LastName: "Doe", Email: "jane@x.com"}

func TestWizardCreatesTraineeAndPlan(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTrainingPlan(ctx, NewTrainingPlan{
		Trainee:        jane,
		Goal:           "10k",
		Experience:     "beginner",
		DaysPerWeek:    3,
		CurrentMileage: 10,
	})
	require.NoError(t, err)
	assert.NotZero(t, id)
	assert.Equal(t, 1, count(t, s, "trainees"))

	plan, err := s.TrainingPlan(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "jane@x.com", plan.Email)
	assert.Equal(t, "10k", plan.Goal)
	require.NotNil(t, plan.Bundle)
	assert.Equal(t, DefaultBundle, *plan.Bundle)
	assert.Nil(t, plan.CTA)
}

func TestWizardTwiceReusesTrainee(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	in := NewTrainingPlan{Trainee: jane, Goal: "10k", Experience: "beginner", DaysPerWeek: 3, CurrentMileage: 10}
	first, err := s.CreateTrainingPlan(ctx, in)
	require.NoError(t, err)

	in.Email = " JANE@X.COM "
	in.Goal = "half"
	second, err := s.CreateTrainingPlan(ctx, in)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	assert.Equal(t, 1, count(t, s, "trainees"))
	plans, err := s.TrainingPlans(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, *plans[0].UserID, *plans[1].UserID)
	assert.Equal(t, second, plans[0].ID)
	assert.Equal(t, "half", plans[0].Goal)
	assert.Equal(t, "10k", plans[1].Goal)
}

func TestUpdatePlanCTA(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTrainingPlan(ctx, NewTrainingPlan{Trainee: jane, Goal: "5k", Experience: "advanced", DaysPerWeek: 5})
	require.NoError(t, err)
	require.NoError(t, s.UpdatePlanCTA(ctx, id, "book_call"))

	plan, err := s.TrainingPlan(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, plan.CTA)
	assert.Equal(t, "book_call", *plan.CTA)

	assert.ErrorIs(t, s.UpdatePlanCTA(ctx, id+100, "x"), ErrNotFound)
	_, err = s.TrainingPlan(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTestimonialModeration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTestimonial(ctx, NewTestimonial{
		Trainee:     jane,
		Achievement: "First 10K",
		Comment:     "Loved it",
		Rating:      5,
	})
	require.NoError(t, err)

	all, err := s.AllTestimonials(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, models.StatusPending, all[0].Status)
	require.NotNil(t, all[0].ImageURL)
	assert.Equal(t, models.DefaultTestimonialImage, *all[0].ImageURL)

	public, err := s.ApprovedTestimonials(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, public)

	own, err := s.ApprovedTestimonials(ctx, "Jane@x.com")
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, id, own[0].ID)

	// Edits never change status.
	newComment, rating, first := "Loved it a lot", 4, "Janet"
	require.NoError(t, s.UpdateTestimonial(ctx, id, TestimonialUpdate{Comment: &newComment, Rating: &rating, FirstName: &first}))
	all, err = s.AllTestimonials(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, all[0].Status)
	assert.Equal(t, "Loved it a lot", all[0].Comment)
	assert.Equal(t, 4, all[0].Rating)
	assert.Equal(t, "Janet", all[0].FirstName)

	require.NoError(t, s.ApproveTestimonial(ctx, id))
	public, err = s.ApprovedTestimonials(ctx, "")
	require.NoError(t, err)
	require.Len(t, public, 1)
	assert.Equal(t, models.StatusApproved, public[0].Status)

	require.NoError(t, s.RejectTestimonial(ctx, id))
	public, err = s.ApprovedTestimonials(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, public)

	assert.ErrorIs(t, s.ApproveTestimonial(ctx, id+100), ErrNotFound)
	assert.ErrorIs(t, s.UpdateTestimonial(ctx, id+100, TestimonialUpdate{Comment: &newComment}), ErrNotFound)
}

func TestApprovedTestimonialsHidesLowRatings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateTestimonial(ctx, NewTestimonial{Trainee: jane, Achievement: "5K", Comment: "ok", Rating: 3})
	require.NoError(t, err)
	require.NoError(t, s.ApproveTestimonial(ctx, id))

	public, err := s.ApprovedTestimonials(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, public)
}

func TestCoachingRequest(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.CreateCoachingRequest(ctx, NewCoachingRequest{
		Trainee:        jane,
		PackageType:    "performance",
		Goal:           "half",
		Experience:     "intermediate",
		AdditionalInfo: "Knee niggle  ",
	})
	require.NoError(t, err)

	rows, err := s.CoachingRequests(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 21, rows[0].Goal)
	assert.Equal(t, "half", rows[0].GoalLabel)
	assert.Equal(t, 2, rows[0].Experience)
	assert.Equal(t, models.StatusPending, rows[0].Status)
	require.NotNil(t, rows[0].AdditionalInfo)
	assert.Equal(t, "Knee niggle  ", *rows[0].AdditionalInfo)
}

func TestAdmins(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveAdmin(ctx, "coach", "first"))
	require.NoError(t, s.SaveAdmin(ctx, "coach", "second"))

	admin, err := s.AdminByUsername(ctx, " coach ")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte("second")))

	_, err = s.AdminByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, count(t, s, "admins"))
}

func TestDemoTestimonials(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.SeedDemoTestimonials(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = s.SeedDemoTestimonials(ctx)
	require.NoError(t, err)
	assert.Zero(t, added)

	public, err := s.ApprovedTestimonials(ctx, "")
	require.NoError(t, err)
	assert.Len(t, public, 3)

	removed, err := s.RemoveDemoTestimonials(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, removed)
	assert.Zero(t, count(t, s, "testimonials"))
	assert.Zero(t, count(t, s, "trainees"))
}
