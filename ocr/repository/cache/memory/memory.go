package memory

import (
	"context"
	"sync"
	"time"

	"github.com/superj80820/pharmacy-ocr/domain"
)

type entry struct {
	result   domain.RecognitionResult
	expireAt time.Time
}

type ocrCacheRepo struct {
	lock    sync.RWMutex
	entries map[domain.CacheKey]*entry
	now     func() time.Time
}

var _ domain.OCRCacheRepo = (*ocrCacheRepo)(nil)

type Option func(*ocrCacheRepo)

func WithClock(now func() time.Time) Option {
	return func(o *ocrCacheRepo) {
		o.now = now
	}
}

// CreateOCRCacheRepo keeps results in process memory, entries are copied in and out.
func CreateOCRCacheRepo(options ...Option) domain.OCRCacheRepo {
	o := &ocrCacheRepo{
		entries: make(map[domain.CacheKey]*entry),
		now:     time.Now,
	}
	for _, option := range options {
		option(o)
	}
	return o
}

func (o *ocrCacheRepo) Get(ctx context.Context, key domain.CacheKey) (*domain.RecognitionResult, bool) {
	o.lock.RLock()
	e, ok := o.entries[key]
	o.lock.RUnlock()
	if !ok {
		return nil, false
	}
	if !o.now().Before(e.expireAt) {
		o.lock.Lock()
		if cur, ok := o.entries[key]; ok && cur == e {
			delete(o.entries, key)
		}
		o.lock.Unlock()
		return nil, false
	}
	result := e.result
	if e.result.Product != nil {
		product := *e.result.Product
		result.Product = &product
	}
	return &result, true
}

func (o *ocrCacheRepo) Put(ctx context.Context, key domain.CacheKey, result *domain.RecognitionResult, ttl time.Duration) {
	if result == nil || ttl <= 0 {
		return
	}
	e := &entry{result: *result, expireAt: o.now().Add(ttl)}
	if result.Product != nil {
		product := *result.Product
		e.result.Product = &product
	}

	o.lock.Lock()
	defer o.lock.Unlock()
	o.entries[key] = e
}

func (o *ocrCacheRepo) IsAvailable(ctx context.Context) bool {
	return true
}
