package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/NissBloom/runspire/models"
)

// HashPassword validates username/password input and returns a bcrypt hash for storage.
func HashPassword(username, password string) (string, error) {
	if strings.TrimSpace(username) == "" {
		return "", errors.New("username is required")
	}
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// AdminByUsername loads an admin account for sign-in.
func (s *Store) AdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	admin := &models.Admin{}
	err := s.db.NewSelect().Model(admin).
		Where("username = ?", strings.TrimSpace(username)).
		Scan(ctx)
	if err != nil {
		return nil, notFound(err)
	}
	return admin, nil
}

// SaveAdmin creates an admin or replaces its password.
func (s *Store) SaveAdmin(ctx context.Context, username, password string) error {
	hash, err := HashPassword(username, password)
	if err != nil {
		return err
	}
	if err := s.ready(ctx); err != nil {
		return err
	}

	admin := &models.Admin{Username: strings.TrimSpace(username), Password: hash}
	_, err = s.db.NewInsert().Model(admin).
		On("CONFLICT (username) DO UPDATE").
		Set("password = EXCLUDED.password").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("save admin %q: %w", admin.Username, err)
	}
	return nil
}
