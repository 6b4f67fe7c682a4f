package main

import (
	"context"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	redisKit "github.com/superj80820/pharmacy-ocr/kit/cache/redis"
	httpMiddlewareKit "github.com/superj80820/pharmacy-ocr/kit/http/middleware"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	"github.com/superj80820/pharmacy-ocr/kit/ratelimit"
	memoryRateLimit "github.com/superj80820/pharmacy-ocr/kit/ratelimit/memory"
	redisRateLimit "github.com/superj80820/pharmacy-ocr/kit/ratelimit/redis"
	memoryCache "github.com/superj80820/pharmacy-ocr/ocr/repository/cache/memory"
	noopCache "github.com/superj80820/pharmacy-ocr/ocr/repository/cache/noop"
	redisCache "github.com/superj80820/pharmacy-ocr/ocr/repository/cache/redis"
	rateLimitRepo "github.com/superj80820/pharmacy-ocr/ocr/repository/ratelimit"
	"github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer"
	httpEngine "github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer/http"
	"github.com/superj80820/pharmacy-ocr/ocr/repository/recognizer/tesseract"
)

const authRateLimitKeyPrefix = "ratelimit:auth:"

type backend struct {
	cacheRepo     domain.OCRCacheRepo
	rateLimitRepo domain.RateLimitRepo
	authPassFunc  httpMiddlewareKit.PassFunc
	close         func() error
}

// createBackend picks the cache and rate limiter once at startup. An unreachable redis
// downgrades both to their no-op variants so the service still serves.
func createBackend(cfg *config, logger *loggerKit.Logger) *backend {
	noop := &backend{
		cacheRepo:     noopCache.CreateOCRCacheRepo(),
		rateLimitRepo: rateLimitRepo.CreateNoOpRateLimitRepo(),
		close:         func() error { return nil },
	}

	var (
		cacheRepo domain.OCRCacheRepo
		rateLimit ratelimit.RateLimit
		closeFunc = func() error { return nil }
	)
	switch cfg.cacheBackend {
	case cacheBackendRedis:
		if cfg.redisURI == "" {
			logger.Warn("redis uri not set, running without caching and rate limiting")
			return noop
		}
		cache, err := redisKit.CreateCache(cfg.redisURI, cfg.redisPassword, cfg.redisDB)
		if err != nil {
			logger.Warn("redis unavailable, running without caching and rate limiting", loggerKit.String("uri", cfg.redisURI), loggerKit.Error(err))
			return noop
		}
		cacheRepo = redisCache.CreateOCRCacheRepo(cache, logger)
		rateLimit = redisRateLimit.CreateCacheRateLimit(cache, cfg.rateLimitMaxRequests, int(cfg.rateLimitWindow/time.Second))
		closeFunc = cache.Close
	case cacheBackendMemory:
		cacheRepo = memoryCache.CreateOCRCacheRepo()
		rateLimit = memoryRateLimit.CreateMemoryRateLimit(cfg.rateLimitMaxRequests, cfg.rateLimitWindow)
	case cacheBackendNone:
		logger.Info("cache backend disabled")
		return noop
	default:
		logger.Warn("unknown cache backend, running without caching and rate limiting", loggerKit.String("cache_backend", cfg.cacheBackend))
		return noop
	}

	b := &backend{
		cacheRepo:     cacheRepo,
		rateLimitRepo: rateLimitRepo.CreateNoOpRateLimitRepo(),
		close:         closeFunc,
	}
	if cfg.rateLimitEnable {
		b.rateLimitRepo = rateLimitRepo.CreateRateLimitRepo(rateLimit, logger)
		b.authPassFunc = createAuthPassFunc(rateLimit, logger)
	}
	return b
}

// authRateLimitMiddleware throttles auth endpoints per client ip.
func (b *backend) authRateLimitMiddleware() endpoint.Middleware {
	if b.authPassFunc == nil {
		return httpMiddlewareKit.CreateNoOpRateLimitMiddleware()
	}
	return httpMiddlewareKit.CreateRateLimitMiddlewareWithSpecKey(true, false, false, b.authPassFunc)
}

func createAuthPassFunc(rateLimit ratelimit.RateLimit, logger *loggerKit.Logger) httpMiddlewareKit.PassFunc {
	return func(ctx context.Context, key string) (bool, int, int, error) {
		pass, remaining, expiry, err := rateLimit.Pass(ctx, authRateLimitKeyPrefix+key)
		if err != nil {
			logger.Warn("auth rate limit backend failed, allow request", loggerKit.String("key", key), loggerKit.Error(err))
			return true, 0, 0, nil
		}
		return pass, remaining, expiry, nil
	}
}

func createRecognizerEngine(cfg *config) (recognizer.Engine, error) {
	switch cfg.ocrEngine {
	case ocrEngineTesseract:
		return tesseract.CreateTesseractEngine(tesseract.WithLanguages(cfg.tesseractLanguages...)), nil
	case ocrEngineHTTP:
		if cfg.ocrEngineURL == "" {
			return nil, errors.New("OCR_ENGINE_URL is required for the http engine")
		}
		return httpEngine.CreateHTTPEngine(cfg.ocrEngineURL, cfg.ocrEngineTimeout), nil
	}
	return nil, errors.Errorf("unknown ocr engine: %s", cfg.ocrEngine)
}
