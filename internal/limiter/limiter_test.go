package limiter

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisLimiterLocksAfterMaxAttempts(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRedisLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow(ctx, "a@b.com"))
		require.NoError(t, l.RecordFailure(ctx, "a@b.com"))
	}

	assert.ErrorIs(t, l.Allow(ctx, "a@b.com"), ErrTooManyAttempts)
	// keys are case-insensitive
	assert.ErrorIs(t, l.Allow(ctx, "A@B.com"), ErrTooManyAttempts)
	assert.NoError(t, l.Allow(ctx, "other@b.com"))
}

func TestRedisLimiterWindowExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLimiter(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "a@b.com"))
	assert.ErrorIs(t, l.Allow(ctx, "a@b.com"), ErrTooManyAttempts)

	mr.FastForward(2 * time.Minute)
	assert.NoError(t, l.Allow(ctx, "a@b.com"))
}

func TestRedisLimiterReset(t *testing.T) {
	_, client := newTestRedis(t)
	l := NewRedisLimiter(client, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.RecordFailure(ctx, "a@b.com"))
	require.NoError(t, l.Reset(ctx, "a@b.com"))
	assert.NoError(t, l.Allow(ctx, "a@b.com"))
}

func TestRedisLimiterUnavailable(t *testing.T) {
	mr, client := newTestRedis(t)
	l := NewRedisLimiter(client, 1, time.Minute)
	mr.Close()

	assert.ErrorIs(t, l.Allow(context.Background(), "a@b.com"), ErrUnavailable)
	assert.ErrorIs(t, l.RecordFailure(context.Background(), "a@b.com"), ErrUnavailable)
}

func TestNoop(t *testing.T) {
	var l LoginLimiter = Noop{}
	assert.NoError(t, l.Allow(context.Background(), "x"))
	assert.NoError(t, l.RecordFailure(context.Background(), "x"))
	assert.NoError(t, l.Reset(context.Background(), "x"))
}
