package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PullSecretStore keeps the last pull secret each user submitted
type PullSecretStore struct {
	pool *pgxpool.Pool
}

// PullSecret is a stored pull secret
type PullSecret struct {
	UserID    string
	Secret    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// GetByUser retrieves the pull secret of a user
func (s *PullSecretStore) GetByUser(ctx context.Context, userID string) (*PullSecret, error) {
	query := `
		SELECT user_id, secret, created_at, updated_at
		FROM pull_secrets
		WHERE user_id = $1
	`

	var ps PullSecret
	err := s.pool.QueryRow(ctx, query, userID).Scan(
		&ps.UserID,
		&ps.Secret,
		&ps.CreatedAt,
		&ps.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query pull secret: %w", err)
	}

	return &ps, nil
}

// Get implements pullsecret.Source
func (s *PullSecretStore) Get(ctx context.Context, userID string) (string, bool, error) {
	ps, err := s.GetByUser(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return ps.Secret, true, nil
}

// Save stores or replaces the pull secret of a user
func (s *PullSecretStore) Save(ctx context.Context, userID, secret string) error {
	query := `
		INSERT INTO pull_secrets (user_id, secret)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET secret = EXCLUDED.secret, updated_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, userID, secret); err != nil {
		return fmt.Errorf("upsert pull secret: %w", err)
	}

	return nil
}
