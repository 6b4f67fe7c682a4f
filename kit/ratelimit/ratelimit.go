// Package ratelimit holds fixed-window request counters keyed by caller.
//
// Pass reports whether one more request fits the current window for key,
// consuming a slot when it does. remaining is the number of slots left after
// this call and expiry the seconds until the window rolls over.
package ratelimit

import "context"

type RateLimit interface {
	Pass(ctx context.Context, key string) (pass bool, remaining, expiry int, err error)
}
