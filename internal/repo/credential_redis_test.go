package repo_test

import (
	"context"
	"os"
	"testing"

	"github.com/rogerio-castellano/financial-planner-server/internal/redissvc"
	"github.com/rogerio-castellano/financial-planner-server/internal/repo"
	"github.com/stretchr/testify/require"
)

func TestRedisCredentialRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	rdb, err := redissvc.Connect(context.Background(), redissvc.Options{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })
	t.Cleanup(func() { rdb.Del(context.Background(), "credential:user-1", "credential:nobody") })

	r := repo.NewRedisCredentialRepository(rdb, newSealer(t))
	exerciseRepository(t, r)
}
