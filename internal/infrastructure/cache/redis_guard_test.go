package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis; set PIDREG_TEST_REDIS_ADDR (e.g. localhost:6379).
func newTestRedisClient(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("PIDREG_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("PIDREG_TEST_REDIS_ADDR not set")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()).Err())
	return client
}

func TestRedisRegistrationGuard(t *testing.T) {
	client := newTestRedisClient(t)
	ctx := context.Background()
	prefix := "pidreg-test:" + uuid.NewString() + ":"

	a := NewRedisRegistrationGuardWithClient(client, prefix)
	b := NewRedisRegistrationGuardWithClient(client, prefix)

	tokenA, ok, err := a.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	_, ok, err = b.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// a foreign token leaves the key in place
	require.NoError(t, b.Release(ctx, "k", "not-the-holder"))
	_, ok, _ = b.Acquire(ctx, "k", time.Minute)
	assert.False(t, ok)

	require.NoError(t, a.Release(ctx, "k", tokenA))
	tokenB, ok, err := b.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	// a stale token from the previous holder does not free the new one
	require.NoError(t, a.Release(ctx, "k", tokenA))
	_, ok, _ = a.Acquire(ctx, "k", time.Minute)
	assert.False(t, ok)
	require.NoError(t, b.Release(ctx, "k", tokenB))
}

func TestNewRedisRegistrationGuard_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisRegistrationGuard(ctx, RedisConfig{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
