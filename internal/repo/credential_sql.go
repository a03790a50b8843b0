package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

const queryTimeout = 3 * time.Second

type credentialQueries struct {
	get    string
	upsert string
	delete string
}

// sqlCredentialRepository is shared by the Postgres and SQLite repositories;
// only the placeholder syntax of their queries differs.
type sqlCredentialRepository struct {
	db      *sql.DB
	sealer  *Sealer
	queries credentialQueries
}

func (r *sqlCredentialRepository) Get(ctx context.Context, userID string) (models.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var (
		c      models.Credential
		sealed string
	)
	err := r.db.QueryRowContext(ctx, r.queries.get, userID).Scan(&c.UserID, &sealed, &c.ItemID, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Credential{}, ErrCredentialNotFound
	}
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}

	c.AccessToken, err = r.sealer.Open(sealed)
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to open credential for user %s: %w", userID, err)
	}
	return c, nil
}

func (r *sqlCredentialRepository) Set(ctx context.Context, c models.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sealed, err := r.sealer.Seal(c.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to seal credential: %w", err)
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}

	if _, err := r.db.ExecContext(ctx, r.queries.upsert, c.UserID, sealed, c.ItemID, c.UpdatedAt); err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (r *sqlCredentialRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, r.queries.delete, userID)
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
