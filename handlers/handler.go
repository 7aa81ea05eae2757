package handlers

import (
	"context"

	"go.uber.org/zap"

	"github.com/NissBloom/runspire/db"
	"github.com/NissBloom/runspire/models"
	"github.com/NissBloom/runspire/store"
)

// Store is the slice of *store.Store the routes need.
type Store interface {
	CreateTestimonial(ctx context.Context, in store.NewTestimonial) (int64, error)
	ApprovedTestimonials(ctx context.Context, email string) ([]store.TestimonialRow, error)
	AllTestimonials(ctx context.Context) ([]store.TestimonialRow, error)
	ApproveTestimonial(ctx context.Context, id int64) error
	RejectTestimonial(ctx context.Context, id int64) error
	UpdateTestimonial(ctx context.Context, id int64, u store.TestimonialUpdate) error

	CreateTrainingPlan(ctx context.Context, in store.NewTrainingPlan) (int64, error)
	TrainingPlan(ctx context.Context, id int64) (store.TrainingPlanRow, error)
	TrainingPlans(ctx context.Context) ([]store.TrainingPlanRow, error)
	UpdatePlanCTA(ctx context.Context, id int64, cta string) error

	CreateCoachingRequest(ctx context.Context, in store.NewCoachingRequest) (int64, error)
	CoachingRequests(ctx context.Context) ([]store.CoachingRequestRow, error)

	AdminByUsername(ctx context.Context, username string) (*models.Admin, error)
}

// Schema is the slice of *db.Manager the admin routes need.
type Schema interface {
	Ping(ctx context.Context) error
	VerifyConnection(ctx context.Context) (db.ConnectionStatus, error)
	SchemaVersion(ctx context.Context) (int, error)
	Initialize(ctx context.Context) error
	MigrateAllLegacyRows(ctx context.Context) ([]db.MigrationReport, error)
	ResetAll(ctx context.Context, allowDestructive, isProduction bool) error
}

// SiteConfig holds the public links the frontend renders.
type SiteConfig struct {
	CalendlyURL     string `json:"calendlyUrl"`
	WhatsAppURL     string `json:"whatsAppUrl"`
	GAMeasurementID string `json:"gaMeasurementId,omitempty"`
}

// Options carries settings fixed at startup.
type Options struct {
	JWTKey       []byte
	AllowDBReset bool
	IsProduction bool
	Site         SiteConfig
}

// Handler holds shared dependencies used by all route handlers.
type Handler struct {
	store  Store
	schema Schema
	log    *zap.Logger
	opts   Options
}

// New creates a Handler. A nil logger discards output.
func New(st Store, schema Schema, log *zap.Logger, opts Options) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{store: st, schema: schema, log: log, opts: opts}
}
