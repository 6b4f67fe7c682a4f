package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	httpKit "github.com/superj80820/pharmacy-ocr/kit/http"
	httpTransportKit "github.com/superj80820/pharmacy-ocr/kit/http/transport"
)

var EncodeProcessBulkResponse = httpTransportKit.EncodeJsonResponse

type processBulkRequest struct {
	images []*domain.ImageRequest
}

// CreateDecodeProcessBulkRequest reads every "files" part. Unsupported or oversized parts are passed on and fail as single items.
func CreateDecodeProcessBulkRequest(maxUploadSize int64, maxBatchSize int) httptransport.DecodeRequestFunc {
	return func(ctx context.Context, r *http.Request) (interface{}, error) {
		form, err := parseMultipart(r, int64(maxBatchSize+1)*(maxUploadSize+multipartOverhead))
		if err != nil {
			return nil, err
		}
		defer form.RemoveAll()

		files := form.File["files"]
		if len(files) > maxBatchSize {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.BatchTooLarge, maxBatchSize).AddErrorMetaData(domain.ErrBatchTooLarge)
		}

		images := make([]*domain.ImageRequest, len(files))
		for idx, file := range files {
			image, err := readImage(file, idx, maxUploadSize)
			if err != nil {
				return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
			}
			images[idx] = image
		}
		return &processBulkRequest{images: images}, nil
	}
}

func MakeProcessBulkEndpoint(svc domain.OCRUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(*processBulkRequest)
		bulkOutcome, err := svc.ProcessBulk(ctx, httpKit.GetUserID(ctx), req.images)
		if err != nil {
			return nil, errors.Wrap(err, "process bulk failed")
		}
		return bulkOutcome, nil
	}
}
