package revocation

import (
	"context"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoop(t *testing.T) {
	var d Denylist = Noop{}
	require.NoError(t, d.Revoke(context.Background(), "t1", time.Now().Add(time.Hour)))

	revoked, err := d.IsRevoked(context.Background(), "t1")
	require.NoError(t, err)
	assert.False(t, revoked)
	assert.False(t, Enabled(d))
	assert.False(t, Enabled(nil))
}

func TestMemoryDenylist(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := NewMemoryDenylist()
	d.now = func() time.Time { return now }
	assert.True(t, Enabled(d))

	require.NoError(t, d.Revoke(ctx, "live", now.Add(time.Hour)))
	require.NoError(t, d.Revoke(ctx, "stale", now.Add(-time.Second)))

	revoked, err := d.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = d.IsRevoked(ctx, "stale")
	require.NoError(t, err)
	assert.False(t, revoked)

	now = now.Add(2 * time.Hour)
	removed, err := d.CleanExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	revoked, err = d.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.False(t, revoked)
}

type countingCleaner struct {
	calls atomic.Int32
}

func (c *countingCleaner) CleanExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 1, nil
}

func TestStartCleanupTickerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cleaner := &countingCleaner{}

	done := make(chan struct{})
	go func() {
		StartCleanupTicker(ctx, cleaner, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool { return cleaner.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup ticker did not stop")
	}
}

func TestRedisDenylist(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	d := NewRedisDenylist(client)
	assert.True(t, Enabled(d))

	ctx := context.Background()
	id := uuid.NewString()

	revoked, err := d.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, d.Revoke(ctx, id, time.Now().Add(time.Minute)))
	revoked, err = d.IsRevoked(ctx, id)
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, d.Revoke(ctx, "already-expired", time.Now().Add(-time.Minute)))
	revoked, err = d.IsRevoked(ctx, "already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}
