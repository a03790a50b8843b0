package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
)

const credentialKeyPrefix = "credential:"

// RedisCredentialRepository stores one hash per user under credential:<user id>.
type RedisCredentialRepository struct {
	rdb    *redis.Client
	sealer *Sealer
}

func NewRedisCredentialRepository(rdb *redis.Client, sealer *Sealer) *RedisCredentialRepository {
	return &RedisCredentialRepository{rdb: rdb, sealer: sealer}
}

func credentialKey(userID string) string {
	return credentialKeyPrefix + userID
}

func (r *RedisCredentialRepository) Get(ctx context.Context, userID string) (models.Credential, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	fields, err := r.rdb.HGetAll(ctx, credentialKey(userID)).Result()
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to load credential: %w", err)
	}
	if len(fields) == 0 {
		return models.Credential{}, ErrCredentialNotFound
	}

	token, err := r.sealer.Open(fields["access_token"])
	if err != nil {
		return models.Credential{}, fmt.Errorf("failed to open credential for user %s: %w", userID, err)
	}
	updatedAt, _ := time.Parse(time.RFC3339Nano, fields["updated_at"])

	return models.Credential{
		UserID:      userID,
		AccessToken: token,
		ItemID:      fields["item_id"],
		UpdatedAt:   updatedAt,
	}, nil
}

func (r *RedisCredentialRepository) Set(ctx context.Context, c models.Credential) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sealed, err := r.sealer.Seal(c.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to seal credential: %w", err)
	}
	if c.UpdatedAt.IsZero() {
		c.UpdatedAt = time.Now().UTC()
	}

	err = r.rdb.HSet(ctx, credentialKey(c.UserID), map[string]any{
		"access_token": sealed,
		"item_id":      c.ItemID,
		"updated_at":   c.UpdatedAt.Format(time.RFC3339Nano),
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store credential: %w", err)
	}
	return nil
}

func (r *RedisCredentialRepository) Delete(ctx context.Context, userID string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	n, err := r.rdb.Del(ctx, credentialKey(userID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete credential: %w", err)
	}
	if n == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
