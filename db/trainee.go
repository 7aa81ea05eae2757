package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/uptrace/bun"

	"github.com/NissBloom/runspire/models"
)

// TraineeRef identifies the trainee a child row attaches to.
type TraineeRef struct {
	ID    int64
	IsNew bool
}

// NormalizeEmail trims and lower-cases an address so one person maps to one trainee.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ResolveOrCreateTrainee returns the trainee owning email, inserting one when none exists.
// Names of an existing trainee are left alone. Pass a transaction to keep the
// lookup and the child insert atomic.
func ResolveOrCreateTrainee(ctx context.Context, idb bun.IDB, firstName, lastName, email string) (TraineeRef, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return TraineeRef{}, ErrEmailRequired
	}

	id, err := traineeIDByEmail(ctx, idb, email)
	switch {
	case err == nil:
		return TraineeRef{ID: id}, nil
	case !isNoRows(err):
		return TraineeRef{}, err
	}

	err = idb.NewRaw(
		"INSERT INTO ? (first_name, last_name, email) VALUES (?, ?, ?) ON CONFLICT (email) DO NOTHING RETURNING id",
		bun.Ident(string(Trainees)), strings.TrimSpace(firstName), strings.TrimSpace(lastName), email,
	).Scan(ctx, &id)
	if err == nil && id != 0 {
		return TraineeRef{ID: id, IsNew: true}, nil
	}
	if err != nil && !isNoRows(err) {
		return TraineeRef{}, fmt.Errorf("insert trainee: %w", err)
	}

	// Lost the race to a concurrent insert.
	id, err = traineeIDByEmail(ctx, idb, email)
	if err != nil {
		return TraineeRef{}, err
	}
	return TraineeRef{ID: id}, nil
}

func traineeIDByEmail(ctx context.Context, idb bun.IDB, email string) (int64, error) {
	var id int64
	err := idb.NewSelect().
		Model((*models.Trainee)(nil)).
		Column("id").
		Where("lower(email) = ?", email).
		Limit(1).
		Scan(ctx, &id)
	if err != nil {
		if isNoRows(err) {
			return 0, err
		}
		return 0, fmt.Errorf("find trainee: %w", err)
	}
	return id, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
