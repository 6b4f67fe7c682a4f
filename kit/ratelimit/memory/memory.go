package memory

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/superj80820/pharmacy-ocr/kit/ratelimit"
)

type window struct {
	count    int
	expireAt time.Time
}

type memoryRateLimit struct {
	maxRequests int
	duration    time.Duration
	now         func() time.Time

	lock    sync.Mutex
	windows map[string]*window
}

var _ ratelimit.RateLimit = (*memoryRateLimit)(nil)

type Option func(*memoryRateLimit)

func WithClock(now func() time.Time) Option {
	return func(m *memoryRateLimit) {
		m.now = now
	}
}

// CreateMemoryRateLimit keeps fixed windows in process memory, for single instance deployments.
func CreateMemoryRateLimit(maxRequests int, duration time.Duration, options ...Option) ratelimit.RateLimit {
	m := &memoryRateLimit{
		maxRequests: maxRequests,
		duration:    duration,
		now:         time.Now,
		windows:     make(map[string]*window),
	}
	for _, option := range options {
		option(m)
	}
	return m
}

func (m *memoryRateLimit) Pass(ctx context.Context, key string) (pass bool, remaining, expiry int, err error) {
	m.lock.Lock()
	defer m.lock.Unlock()

	now := m.now()
	m.evictExpired(now)

	w, ok := m.windows[key]
	if !ok {
		w = &window{expireAt: now.Add(m.duration)}
		m.windows[key] = w
	}
	expiry = int(math.Ceil(w.expireAt.Sub(now).Seconds()))
	if w.count >= m.maxRequests {
		return false, 0, expiry, nil
	}
	w.count++
	return true, m.maxRequests - w.count, expiry, nil
}

func (m *memoryRateLimit) evictExpired(now time.Time) {
	for key, w := range m.windows {
		if !now.Before(w.expireAt) {
			delete(m.windows, key)
		}
	}
}
