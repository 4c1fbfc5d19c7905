package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only when it still holds the caller's token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisRegistrationGuard shares registration keys across service replicas.
type RedisRegistrationGuard struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisRegistrationGuard connects to Redis and verifies the connection.
func NewRedisRegistrationGuard(ctx context.Context, cfg RedisConfig) (*RedisRegistrationGuard, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRegistrationGuardWithClient(client, ""), nil
}

// NewRedisRegistrationGuardWithClient wraps an existing client.
func NewRedisRegistrationGuardWithClient(client *redis.Client, keyPrefix string) *RedisRegistrationGuard {
	if keyPrefix == "" {
		keyPrefix = "pidreg:"
	}
	return &RedisRegistrationGuard{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Acquire sets key to a fresh token with SETNX and ttl
func (g *RedisRegistrationGuard) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.keyPrefix+key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("failed to acquire registration guard: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release deletes key if it still holds token
func (g *RedisRegistrationGuard) Release(ctx context.Context, key, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{g.keyPrefix + key}, token).Err(); err != nil {
		return fmt.Errorf("failed to release registration guard: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (g *RedisRegistrationGuard) Close() error {
	return g.client.Close()
}

var _ handle.RegistrationGuard = (*RedisRegistrationGuard)(nil)
