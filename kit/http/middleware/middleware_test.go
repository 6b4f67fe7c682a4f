package middleware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	httpKit "github.com/superj80820/pharmacy-ocr/kit/http"
	loggerKit "github.com/superj80820/pharmacy-ocr/kit/logger"
	memoryRateLimit "github.com/superj80820/pharmacy-ocr/kit/ratelimit/memory"
)

func okEndpoint(ctx context.Context, request interface{}) (interface{}, error) {
	return httpKit.GetUserID(ctx), nil
}

func TestAuthMiddleware(t *testing.T) {
	authMiddleware := CreateAuthMiddleware(func(ctx context.Context, token string) (string, error) {
		if token != "good" {
			return "", code.CreateErrorCode(http.StatusUnauthorized)
		}
		return "42", nil
	})

	res, err := authMiddleware(okEndpoint)(httpKit.AddToken(context.Background(), "good"), nil)
	assert.Nil(t, err)
	assert.Equal(t, "42", res)

	_, err = authMiddleware(okEndpoint)(httpKit.AddToken(context.Background(), "bad"), nil)
	assert.Equal(t, http.StatusUnauthorized, code.ParseErrorCode(err).GeneralCode)
}

func TestRateLimitMiddleware(t *testing.T) {
	rateLimit := memoryRateLimit.CreateMemoryRateLimit(1, time.Minute)
	rateLimitMiddleware := CreateRateLimitMiddlewareWithSpecKey(false, false, true, rateLimit.Pass)

	ctx := httpKit.AddUserID(context.Background(), "1")
	_, err := rateLimitMiddleware(okEndpoint)(ctx, nil)
	assert.Nil(t, err)

	_, err = rateLimitMiddleware(okEndpoint)(ctx, nil)
	errorCode := code.ParseErrorCode(err)
	assert.Equal(t, http.StatusTooManyRequests, errorCode.GeneralCode)
	assert.Equal(t, code.RateLimit, errorCode.Code)
	assert.Equal(t, 60, errorCode.RetryAfter)

	_, err = rateLimitMiddleware(okEndpoint)(httpKit.AddUserID(context.Background(), "2"), nil)
	assert.Nil(t, err)

	failedMiddleware := CreateGlobalRateLimitMiddleware("global", func(ctx context.Context, key string) (bool, int, int, error) {
		return false, 0, 0, errors.New("redis down")
	})
	_, err = failedMiddleware(okEndpoint)(ctx, nil)
	assert.Equal(t, http.StatusInternalServerError, code.ParseErrorCode(err).GeneralCode)

	res, err := CreateNoOpRateLimitMiddleware()(okEndpoint)(ctx, nil)
	assert.Nil(t, err)
	assert.Equal(t, "1", res)
}

func TestLoggingMiddleware(t *testing.T) {
	loggingMiddleware := CreateLoggingMiddleware(loggerKit.NewNopLogger())

	_, err := loggingMiddleware(func(ctx context.Context, request interface{}) (interface{}, error) {
		return nil, code.CreateErrorCode(http.StatusBadRequest)
	})(context.Background(), nil)
	assert.Equal(t, http.StatusBadRequest, code.ParseErrorCode(err).GeneralCode)
}
