package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/stylebot/internal/adapters/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker_Exclusion(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "repo-a", time.Minute)
	require.NoError(t, err)

	blockedCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(blockedCtx, "repo-a", time.Minute)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "repo-a", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}

func TestMemoryLocker_HandoffToWaiter(t *testing.T) {
	locker := memory.NewLocker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "repo-a", time.Minute)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		u, err := locker.Lock(ctx, "repo-a", time.Minute)
		if err == nil {
			_ = u(ctx)
			close(acquired)
		}
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, unlock(ctx))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter never acquired the released lock")
	}
}
