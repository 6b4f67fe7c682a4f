package noop

import (
	"context"
	"time"

	"github.com/superj80820/pharmacy-ocr/domain"
)

type ocrCacheRepo struct{}

var _ domain.OCRCacheRepo = (*ocrCacheRepo)(nil)

// CreateOCRCacheRepo is used when no cache backend is configured, every lookup misses.
func CreateOCRCacheRepo() domain.OCRCacheRepo {
	return &ocrCacheRepo{}
}

func (*ocrCacheRepo) Get(ctx context.Context, key domain.CacheKey) (*domain.RecognitionResult, bool) {
	return nil, false
}

func (*ocrCacheRepo) Put(ctx context.Context, key domain.CacheKey, result *domain.RecognitionResult, ttl time.Duration) {
}

func (*ocrCacheRepo) IsAvailable(ctx context.Context) bool {
	return false
}
