package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"meetbook/internal/domain"

	"github.com/rs/zerolog"
)

// FailoverLimiterRepository prefers the primary (redis) limiter and falls
// back to the in-memory one when the primary errors. It retries the primary
// after a cooldown.
type FailoverLimiterRepository struct {
	primary  domain.LimiterRepository
	fallback domain.LimiterRepository
	logger   *zerolog.Logger

	isDown    atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
}

const recoveryInterval = time.Minute

func NewFailoverLimiterRepository(primary, fallback domain.LimiterRepository, logger *zerolog.Logger) *FailoverLimiterRepository {
	return &FailoverLimiterRepository{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverLimiterRepository) CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error) {
	if r.primary != nil && !r.isDown.Load() {
		allowed, err := r.primary.CheckRateLimit(ctx, clientKey, limit, window)
		if err == nil {
			return allowed, nil
		}
		r.logger.Error().Err(err).Msg("primary rate limiter failed, falling back to memory")
		r.markDown()
	}

	if r.primary != nil && r.shouldRetryPrimary() {
		allowed, err := r.primary.CheckRateLimit(ctx, clientKey, limit, window)
		if err == nil {
			r.isDown.Store(false)
			return allowed, nil
		}
		r.markDown()
	}

	return r.fallback.CheckRateLimit(ctx, clientKey, limit, window)
}

func (r *FailoverLimiterRepository) markDown() {
	r.isDown.Store(true)
	r.mu.Lock()
	r.lastCheck = time.Now()
	r.mu.Unlock()
}

func (r *FailoverLimiterRepository) shouldRetryPrimary() bool {
	if !r.isDown.Load() {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return time.Since(r.lastCheck) > recoveryInterval
}
