package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/superj80820/pharmacy-ocr/domain"
	redisKit "github.com/superj80820/pharmacy-ocr/kit/cache/redis"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
)

type ocrCacheRepo struct {
	redisCache *redisKit.Cache
	logger     *loggerKit.Logger
}

var _ domain.OCRCacheRepo = (*ocrCacheRepo)(nil)

// CreateOCRCacheRepo stores results as json, redis failures are logged and read as a miss.
func CreateOCRCacheRepo(redisCache *redisKit.Cache, logger *loggerKit.Logger) domain.OCRCacheRepo {
	return &ocrCacheRepo{
		redisCache: redisCache,
		logger:     logger,
	}
}

func (o *ocrCacheRepo) Get(ctx context.Context, key domain.CacheKey) (*domain.RecognitionResult, bool) {
	val, exists, err := o.redisCache.Get(ctx, string(key))
	if err != nil {
		o.logger.Warn("get ocr cache failed", loggerKit.String("key", string(key)), loggerKit.Error(err))
		return nil, false
	}
	if !exists {
		return nil, false
	}
	var result domain.RecognitionResult
	if err := json.Unmarshal([]byte(val), &result); err != nil {
		o.logger.Warn("unmarshal ocr cache failed", loggerKit.String("key", string(key)), loggerKit.Error(err))
		return nil, false
	}
	return &result, true
}

func (o *ocrCacheRepo) Put(ctx context.Context, key domain.CacheKey, result *domain.RecognitionResult, ttl time.Duration) {
	marshal, err := json.Marshal(result)
	if err != nil {
		o.logger.Warn("marshal ocr cache failed", loggerKit.String("key", string(key)), loggerKit.Error(err))
		return
	}
	if err := o.redisCache.Set(ctx, string(key), marshal, ttl); err != nil {
		o.logger.Warn("set ocr cache failed", loggerKit.String("key", string(key)), loggerKit.Error(err))
	}
}

func (o *ocrCacheRepo) IsAvailable(ctx context.Context) bool {
	return o.redisCache.Ping(ctx) == nil
}
