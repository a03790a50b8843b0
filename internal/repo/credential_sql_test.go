package repo_test

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogerio-castellano/financial-planner-server/internal/db"
	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sealerKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newSealer(t *testing.T) *repo.Sealer {
	t.Helper()
	s, err := repo.NewSealer(sealerKey)
	require.NoError(t, err)
	return s
}

func exerciseRepository(t *testing.T, r repo.CredentialRepository) {
	t.Helper()
	ctx := context.Background()

	_, err := r.Get(ctx, "nobody")
	assert.ErrorIs(t, err, repo.ErrCredentialNotFound)

	updated := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, r.Set(ctx, models.Credential{UserID: "user-1", AccessToken: "access-1", ItemID: "item-1", UpdatedAt: updated}))

	got, err := r.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-1", got.AccessToken)
	assert.Equal(t, "item-1", got.ItemID)
	assert.True(t, updated.Equal(got.UpdatedAt), "updated_at %v", got.UpdatedAt)

	require.NoError(t, r.Set(ctx, models.Credential{UserID: "user-1", AccessToken: "access-2", ItemID: "item-2"}))
	got, err = r.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-2", got.AccessToken)
	assert.Equal(t, "item-2", got.ItemID)

	require.NoError(t, r.Delete(ctx, "user-1"))
	assert.ErrorIs(t, r.Delete(ctx, "user-1"), repo.ErrCredentialNotFound)
}

func TestSQLiteCredentialRepository(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.MigrateSQLite(database))

	r := repo.NewSQLiteCredentialRepository(database, newSealer(t))
	exerciseRepository(t, r)
}

func TestSQLiteCredentialRepository_StoresSealedToken(t *testing.T) {
	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.MigrateSQLite(database))

	r := repo.NewSQLiteCredentialRepository(database, newSealer(t))
	require.NoError(t, r.Set(context.Background(), models.Credential{UserID: "user-1", AccessToken: "access-plain"}))

	var stored string
	require.NoError(t, database.QueryRow(`SELECT access_token FROM credentials WHERE user_id = ?`, "user-1").Scan(&stored))
	assert.NotEqual(t, "access-plain", stored)
}

func TestPostgresCredentialRepository(t *testing.T) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	database, err := db.Connect(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	require.NoError(t, db.MigratePostgres(database))
	t.Cleanup(func() { truncate(database) })

	r := repo.NewPostgresCredentialRepository(database, newSealer(t))
	exerciseRepository(t, r)
}

func truncate(database *sql.DB) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_, _ = database.ExecContext(ctx, "TRUNCATE TABLE credentials")
}
