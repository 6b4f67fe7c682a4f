package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/superj80820/pharmacy-ocr/domain"
)

func TestOCRCacheRepo(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1706558738, 0)
	ocrCacheRepo := CreateOCRCacheRepo(WithClock(func() time.Time { return now }))

	assert.True(t, ocrCacheRepo.IsAvailable(ctx))

	key := domain.CreateCacheKey("digest")
	_, ok := ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)

	result := &domain.RecognitionResult{
		Text:    "ASPIRIN",
		Status:  domain.RecognitionStatusSuccess,
		Product: &domain.ProductInfo{BrandName: "Aspirin"},
	}
	ocrCacheRepo.Put(ctx, key, result, time.Minute)

	result.Text = "mutated"
	result.Product.BrandName = "mutated"

	cached, ok := ocrCacheRepo.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "ASPIRIN", cached.Text)
	assert.Equal(t, "Aspirin", cached.Product.BrandName)

	cached.Product.BrandName = "mutated"
	cached, ok = ocrCacheRepo.Get(ctx, key)
	assert.True(t, ok)
	assert.Equal(t, "Aspirin", cached.Product.BrandName)

	now = now.Add(time.Minute)
	_, ok = ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)

	ocrCacheRepo.Put(ctx, key, result, 0)
	_, ok = ocrCacheRepo.Get(ctx, key)
	assert.False(t, ok)
}
