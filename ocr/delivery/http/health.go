package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/pharmacy-ocr/domain"
	httpTransportKit "github.com/superj80820/pharmacy-ocr/kit/http/transport"
)

var (
	DecodeHealthRequest  = httpTransportKit.DecodeEmptyRequest
	EncodeHealthResponse = httpTransportKit.EncodeJsonResponse
)

type healthResponse struct {
	Status         string `json:"status"`
	CacheAvailable bool   `json:"cache_available"`
}

func MakeHealthEndpoint(cacheRepo domain.OCRCacheRepo) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		return &healthResponse{
			Status:         "ok",
			CacheAvailable: cacheRepo.IsAvailable(ctx),
		}, nil
	}
}
