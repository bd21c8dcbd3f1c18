// Package ratelimit throttles API callers, either per process or across
// replicas through Redis.
package ratelimit

import (
	"shareit/internal/config"
	"shareit/internal/domain"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// New builds the limiter described by cfg. Without a redis client only the
// in-memory limiter is used.
func New(cfg config.APIRateLimitConfig, client *redis.Client, logger *zerolog.Logger) domain.RateLimiter {
	memory := NewMemoryLimiter(cfg.RPS, cfg.Burst)
	if client == nil {
		return memory
	}
	return NewFailoverLimiter(NewRedisLimiter(client, cfg.Requests, cfg.Window), memory, logger)
}
