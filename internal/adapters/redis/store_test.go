package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/stylebot/internal/adapters/redis"
	"github.com/aretw0/stylebot/pkg/domain"
	"github.com/aretw0/stylebot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *backend.Client {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	return backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
}

func TestRedisStore_Contract(t *testing.T) {
	store := redis.NewFromClient(newTestClient(t))
	ports.RunRunStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	store := redis.NewFromClient(client, redis.WithPrefix("other:"))
	require.NoError(t, store.Save(ctx, domain.NewRun("r1", "lint", "repo", "")))

	val, err := client.Get(ctx, "other:r1").Result()
	require.NoError(t, err)
	assert.Contains(t, val, `"id":"r1"`)
}

func TestRedisLocker_Exclusion(t *testing.T) {
	client := newTestClient(t)
	locker := redis.NewLocker(client, "stylebot:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "repo-a", time.Minute)
	require.NoError(t, err)

	// A second acquisition must block until the context expires.
	blockedCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "repo-a", time.Minute)
	require.Error(t, err)
	assert.ErrorIs(t, err, redis.ErrLockAcquire)

	// A different key is independent.
	unlockB, err := locker.Lock(ctx, "repo-b", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlockB(ctx))

	// After release, the key is free again.
	require.NoError(t, unlock(ctx))
	unlock2, err := locker.Lock(ctx, "repo-a", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
