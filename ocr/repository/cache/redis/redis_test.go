package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/superj80820/pharmacy-ocr/domain"
	redisKit "github.com/superj80820/pharmacy-ocr/kit/cache/redis"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	redisContainer "github.com/superj80820/pharmacy-ocr/kit/testing/redis/container"
)

func TestOCRCacheRepo(t *testing.T) {
	if testing.Short() {
		t.Skip("skip redis container test in short mode")
	}
	ctx := context.Background()

	redisContainer, err := redisContainer.CreateRedis(ctx)
	assert.Nil(t, err)
	defer redisContainer.Terminate(ctx)

	redisCache, err := redisKit.CreateCache(redisContainer.GetURI(), "", 0)
	assert.Nil(t, err)

	ocrCacheRepo := CreateOCRCacheRepo(redisCache, loggerKit.NewNopLogger())
	assert.True(t, ocrCacheRepo.IsAvailable(ctx))

	key := domain.CreateCacheKey("digest")
	_, ok := ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)

	result := &domain.RecognitionResult{
		Text:           "PARACETAMOL 500mg",
		Confidence:     0.91,
		ProcessingTime: 120 * time.Millisecond,
		Status:         domain.RecognitionStatusSuccess,
		Product:        &domain.ProductInfo{Strength: "500mg"},
	}
	ocrCacheRepo.Put(ctx, key, result, time.Second)

	cached, ok := ocrCacheRepo.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, result, cached)

	time.Sleep(1500 * time.Millisecond)

	_, ok = ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)

	assert.Nil(t, redisCache.Close())
	assert.False(t, ocrCacheRepo.IsAvailable(ctx))
	_, ok = ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)
	ocrCacheRepo.Put(ctx, key, result, time.Second)
}
