package ratelimit

import (
	"context"
	"time"

	"github.com/superj80820/pharmacy-ocr/domain"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	"github.com/superj80820/pharmacy-ocr/kit/ratelimit"
)

const keyPrefix = "ratelimit:ocr:"

type rateLimitRepo struct {
	rateLimit ratelimit.RateLimit
	logger    *loggerKit.Logger
}

var _ domain.RateLimitRepo = (*rateLimitRepo)(nil)

// CreateRateLimitRepo allows the request when the backend fails so an outage never blocks callers.
func CreateRateLimitRepo(rateLimit ratelimit.RateLimit, logger *loggerKit.Logger) domain.RateLimitRepo {
	return &rateLimitRepo{
		rateLimit: rateLimit,
		logger:    logger,
	}
}

func (r *rateLimitRepo) Allow(ctx context.Context, identity string) *domain.RateLimitDecision {
	pass, remaining, expiry, err := r.rateLimit.Pass(ctx, keyPrefix+identity)
	if err != nil {
		r.logger.Warn("rate limit backend failed, allow request", loggerKit.String("identity", identity), loggerKit.Error(err))
		return &domain.RateLimitDecision{Allowed: true}
	}
	decision := &domain.RateLimitDecision{
		Allowed:   pass,
		Remaining: remaining,
	}
	if !pass {
		decision.RetryAfter = time.Duration(expiry) * time.Second
	}
	return decision
}

type noopRateLimitRepo struct{}

// CreateNoOpRateLimitRepo always allows.
func CreateNoOpRateLimitRepo() domain.RateLimitRepo {
	return &noopRateLimitRepo{}
}

func (*noopRateLimitRepo) Allow(ctx context.Context, identity string) *domain.RateLimitDecision {
	return &domain.RateLimitDecision{Allowed: true}
}
