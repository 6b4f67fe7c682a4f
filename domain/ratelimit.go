package domain

import (
	"context"
	"time"
)

type RateLimitDecision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

type RateLimitRepo interface {
	Allow(ctx context.Context, identity string) *RateLimitDecision
}
