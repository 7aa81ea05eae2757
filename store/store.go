// Package store holds the Runspire lead and testimonial queries.
// Every write resolves the submitting trainee first, inside the same transaction.
package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/NissBloom/runspire/db"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// Store reads and writes application rows once the schema is ready.
type Store struct {
	db     *bun.DB
	schema *db.Manager
	log    *zap.Logger
}

func New(schema *db.Manager, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{db: schema.DB(), schema: schema, log: log.Named("store")}
}

// Trainee identifies the person behind a submission.
type Trainee struct {
	FirstName string
	LastName  string
	Email     string
}

func (s *Store) ready(ctx context.Context) error {
	return s.schema.Ready(ctx)
}

// withTrainee resolves t and runs fn with its id in one transaction.
func (s *Store) withTrainee(ctx context.Context, t Trainee, fn func(ctx context.Context, tx bun.Tx, ref db.TraineeRef) error) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		ref, err := db.ResolveOrCreateTrainee(ctx, tx, t.FirstName, t.LastName, t.Email)
		if err != nil {
			return err
		}
		if ref.IsNew {
			s.log.Debug("trainee created", zap.Int64("trainee_id", ref.ID))
		}
		return fn(ctx, tx, ref)
	})
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// optional maps blank input to NULL.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
