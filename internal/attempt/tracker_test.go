package attempt

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nordmarket/authcore/internal/cache"
)

func newTestTracker(t *testing.T) (*Tracker, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewTracker(cache.NewStoreFromClient(client), zap.NewNop()), mr
}

func TestTracker_GetMissingIsZero(t *testing.T) {
	tracker, _ := newTestTracker(t)

	count, err := tracker.Get(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTracker_IncrementAndGet(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		count, err := tracker.Increment(ctx, "user@example.com", 10*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	count, err := tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestTracker_KeyNormalizesEmail(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Increment(ctx, "  User@Example.COM ", 10*time.Minute)
	require.NoError(t, err)

	count, err := tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTracker_BurstExtendsWindow(t *testing.T) {
	tracker, mr := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Increment(ctx, "user@example.com", 10*time.Second)
	require.NoError(t, err)

	mr.FastForward(8 * time.Second)
	_, err = tracker.Increment(ctx, "user@example.com", 10*time.Second)
	require.NoError(t, err)

	// Past the original window but inside the re-armed one.
	mr.FastForward(8 * time.Second)
	count, err := tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// Untouched, the counter expires and reads as zero again.
	mr.FastForward(3 * time.Second)
	count, err = tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestTracker_Reset(t *testing.T) {
	tracker, _ := newTestTracker(t)
	ctx := context.Background()

	_, err := tracker.Increment(ctx, "user@example.com", 10*time.Minute)
	require.NoError(t, err)
	_, err = tracker.Increment(ctx, "user@example.com", 10*time.Minute)
	require.NoError(t, err)

	require.NoError(t, tracker.Reset(ctx, "user@example.com"))

	count, err := tracker.Get(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}
