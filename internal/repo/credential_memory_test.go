package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rogerio-castellano/financial-planner-server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryCredentialRepository(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryCredentialRepository()

	_, err := r.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, r.Set(ctx, models.Credential{UserID: "user-1", AccessToken: "access-sandbox-1", ItemID: "item-1"}))

	got, err := r.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-1", got.AccessToken)
	assert.Equal(t, "item-1", got.ItemID)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, r.Set(ctx, models.Credential{UserID: "user-1", AccessToken: "access-sandbox-2", ItemID: "item-2"}))
	got, err = r.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access-sandbox-2", got.AccessToken)

	require.NoError(t, r.Delete(ctx, "user-1"))
	assert.ErrorIs(t, r.Delete(ctx, "user-1"), ErrCredentialNotFound)
	_, err = r.Get(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCredentialNotFound)
}

func TestInMemoryCredentialRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	r := NewInMemoryCredentialRepository()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%5)
			_ = r.Set(ctx, models.Credential{UserID: userID, AccessToken: "token"})
			_, _ = r.Get(ctx, userID)
		}()
	}
	wg.Wait()

	for i := range 5 {
		_, err := r.Get(ctx, fmt.Sprintf("user-%d", i))
		assert.NoError(t, err)
	}
}
