package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter(t *testing.T) {
	limiter := NewMemoryLimiterRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := limiter.CheckRateLimit(ctx, "client-1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.CheckRateLimit(ctx, "client-1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Other clients keep their own window.
	allowed, err = limiter.CheckRateLimit(ctx, "client-2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestMemoryLimiter_WindowExpires(t *testing.T) {
	limiter := NewMemoryLimiterRepository()
	ctx := context.Background()

	allowed, err := limiter.CheckRateLimit(ctx, "client-1", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.CheckRateLimit(ctx, "client-1", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.False(t, allowed)

	time.Sleep(50 * time.Millisecond)

	allowed, err = limiter.CheckRateLimit(ctx, "client-1", 1, 30*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewRedisLimiterRepository(client)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.CheckRateLimit(ctx, "client-1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed)
	}

	allowed, err := limiter.CheckRateLimit(ctx, "client-1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	mr.FastForward(time.Minute + time.Second)

	allowed, err = limiter.CheckRateLimit(ctx, "client-1", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

type failingLimiter struct {
	calls int
}

func (f *failingLimiter) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	f.calls++
	return false, errors.New("connection refused")
}

func TestFailoverLimiter_FallsBack(t *testing.T) {
	logger := zerolog.Nop()
	primary := &failingLimiter{}
	fallback := NewMemoryLimiterRepository()
	limiter := NewFailoverLimiterRepository(primary, fallback, &logger)
	ctx := context.Background()

	allowed, err := limiter.CheckRateLimit(ctx, "client-1", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, primary.calls)

	// Primary is marked down; later calls skip it until the cooldown runs out.
	allowed, err = limiter.CheckRateLimit(ctx, "client-1", 5, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, primary.calls)
}

func TestFailoverLimiter_UsesPrimary(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zerolog.Nop()
	limiter := NewFailoverLimiterRepository(
		NewRedisLimiterRepository(client), NewMemoryLimiterRepository(), &logger)

	allowed, err := limiter.CheckRateLimit(context.Background(), "client-1", 1, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = limiter.CheckRateLimit(context.Background(), "client-1", 1, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)
}
