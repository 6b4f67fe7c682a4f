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

var EncodeProcessImageResponse = httpTransportKit.EncodeJsonResponse

type processImageRequest struct {
	image *domain.ImageRequest
}

func CreateDecodeProcessImageRequest(maxUploadSize int64) httptransport.DecodeRequestFunc {
	return func(ctx context.Context, r *http.Request) (interface{}, error) {
		form, err := parseMultipart(r, maxUploadSize+multipartOverhead)
		if err != nil {
			return nil, err
		}
		defer form.RemoveAll()

		files := form.File["file"]
		if len(files) != 1 {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(errors.New("expect exactly one file field"))
		}
		if contentType := files[0].Header.Get("Content-Type"); !isSupportedContentType(contentType) {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.UnsupportedImage, contentType)
		}

		image, err := readImage(files[0], 0, maxUploadSize)
		if err != nil {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
		}
		return &processImageRequest{image: image}, nil
	}
}

func MakeProcessImageEndpoint(svc domain.OCRUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(*processImageRequest)
		req.image.UserID = httpKit.GetUserID(ctx)

		outcome, err := svc.Process(ctx, req.image)
		if err != nil {
			return nil, errors.Wrap(err, "process image failed")
		}
		if err := outcomeToError(outcome); err != nil {
			return nil, err
		}
		return outcome, nil
	}
}

// outcomeToError keeps a failed single image from being answered with 200.
func outcomeToError(outcome *domain.ImageOutcome) error {
	switch outcome.Status {
	case domain.OutcomeStatusSuccess:
		return nil
	case domain.OutcomeStatusFailed:
		return code.CreateErrorCode(http.StatusUnprocessableEntity).AddCode(code.RecognitionFailed, outcome.Message).AddData(outcome)
	case domain.OutcomeStatusRateLimited:
		return code.CreateErrorCode(http.StatusTooManyRequests).AddCode(code.RateLimit, outcome.RetryAfterSeconds).AddRetryAfter(outcome.RetryAfterSeconds)
	case domain.OutcomeStatusInvalid:
		return code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddData(outcome).AddErrorMetaData(outcome.Err)
	case domain.OutcomeStatusPersistFailed:
		return code.CreateErrorCode(http.StatusInternalServerError).AddCode(code.PersistFailed).AddErrorMetaData(outcome.Err)
	}
	return code.CreateErrorCode(http.StatusInternalServerError).AddErrorMetaData(outcome.Err)
}
