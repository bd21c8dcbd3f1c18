package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

const recoveryInterval = time.Minute

// FailoverLimiter asks the primary limiter and switches to the fallback
// while the primary is failing. The primary is retried once a minute.
type FailoverLimiter struct {
	primary  domain.RateLimiter
	fallback domain.RateLimiter
	logger   *zerolog.Logger
	isDown   atomic.Bool

	mu        sync.Mutex
	lastCheck time.Time
	now       func() time.Time
}

func NewFailoverLimiter(primary, fallback domain.RateLimiter, logger *zerolog.Logger) *FailoverLimiter {
	return &FailoverLimiter{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		now:      time.Now,
	}
}

func (l *FailoverLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if !l.isDown.Load() || l.shouldRetry() {
		allowed, err := l.primary.Allow(ctx, key)
		if err == nil {
			if l.isDown.CompareAndSwap(true, false) {
				l.logger.Info().Msg("Primary rate limiter recovered")
			}
			return allowed, nil
		}
		if !l.isDown.Swap(true) {
			l.logger.Error().Err(err).Msg("Primary rate limiter failed, falling back to memory")
		}
		l.markChecked()
	}
	return l.fallback.Allow(ctx, key)
}

func (l *FailoverLimiter) shouldRetry() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.now().Sub(l.lastCheck) <= recoveryInterval {
		return false
	}
	l.lastCheck = l.now()
	return true
}

func (l *FailoverLimiter) markChecked() {
	l.mu.Lock()
	l.lastCheck = l.now()
	l.mu.Unlock()
}
