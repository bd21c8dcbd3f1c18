package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLimiter(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()

	window := time.Second
	l := NewRedisLimiter(client, 2, window)
	ctx := context.Background()

	t.Run("FixedWindow", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			allowed, err := l.Allow(ctx, "user:7")
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		allowed, err := l.Allow(ctx, "user:7")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, window, s.TTL("rate_limit:user:7"))

		// other keys have their own window
		allowed, err = l.Allow(ctx, "user:8")
		require.NoError(t, err)
		assert.True(t, allowed)

		s.FastForward(window + time.Millisecond)

		allowed, err = l.Allow(ctx, "user:7")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("KeyWithoutTTL", func(t *testing.T) {
		require.NoError(t, s.Set("rate_limit:user:9", "5"))
		require.Zero(t, s.TTL("rate_limit:user:9"))

		allowed, err := l.Allow(ctx, "user:9")
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, window, s.TTL("rate_limit:user:9"))

		s.FastForward(window + time.Millisecond)

		allowed, err = l.Allow(ctx, "user:9")
		require.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("WindowNotExtended", func(t *testing.T) {
		_, err := l.Allow(ctx, "user:10")
		require.NoError(t, err)
		s.FastForward(window / 2)

		_, err = l.Allow(ctx, "user:10")
		require.NoError(t, err)
		assert.Equal(t, window/2, s.TTL("rate_limit:user:10"))
	})

	t.Run("Ping", func(t *testing.T) {
		assert.NoError(t, Ping(ctx, client))
	})

	t.Run("ServerDown", func(t *testing.T) {
		s.Close()
		_, err := l.Allow(ctx, "user:7")
		assert.Error(t, err)
		assert.Error(t, Ping(ctx, client))
	})

	t.Run("NilClient", func(t *testing.T) {
		_, err := NewRedisLimiter(nil, 1, time.Second).Allow(ctx, "k")
		assert.ErrorContains(t, err, "redis client is nil")
	})
}
