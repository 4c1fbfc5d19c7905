package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/catalog/pidreg/internal/domain/handle"
	"github.com/catalog/pidreg/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Guard is a RegistrationGuard that owns resources
type Guard interface {
	handle.RegistrationGuard
	io.Closer
}

// NewRegistrationGuard builds the guard selected by cfg.GuardBackend.
// It returns nil, nil when the guard is disabled.
func NewRegistrationGuard(ctx context.Context, cfg config.RegistryConfig, redisCfg config.RedisConfig, logger *zap.Logger) (Guard, error) {
	if !cfg.GuardEnabled {
		logger.Info("registration guard disabled")
		return nil, nil
	}

	switch cfg.GuardBackend {
	case config.GuardBackendRedis:
		g, err := NewRedisRegistrationGuard(ctx, RedisConfig{
			Addr:     redisCfg.Addr(),
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("using Redis registration guard", zap.String("addr", redisCfg.Addr()))
		return g, nil
	case config.GuardBackendMemory, "":
		logger.Warn("using in-memory registration guard; replicas do not share it")
		return NewInMemoryRegistrationGuard(), nil
	default:
		return nil, fmt.Errorf("unknown registration guard backend %q", cfg.GuardBackend)
	}
}
