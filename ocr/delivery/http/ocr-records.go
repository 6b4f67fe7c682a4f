package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	httpKit "github.com/superj80820/pharmacy-ocr/kit/http"
	httpTransportKit "github.com/superj80820/pharmacy-ocr/kit/http/transport"
)

var EncodeRecordsGetResponse = httpTransportKit.EncodeJsonResponse

type recordsGetRequest struct {
	From  time.Time
	To    time.Time
	Limit int
}

type recordsGetResponse struct {
	Records []*domain.ProcessedRecord `json:"records"`
}

// DecodeRecordsGetRequest reads from and to as RFC 3339 times.
func DecodeRecordsGetRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	query := r.URL.Query()
	var (
		req recordsGetRequest
		err error
	)
	if from := query.Get("from"); from != "" {
		if req.From, err = time.Parse(time.RFC3339, from); err != nil {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
		}
	}
	if to := query.Get("to"); to != "" {
		if req.To, err = time.Parse(time.RFC3339, to); err != nil {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(err)
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if req.Limit, err = strconv.Atoi(limit); err != nil || req.Limit < 0 {
			return nil, code.CreateErrorCode(http.StatusBadRequest).AddCode(code.InvalidBody).AddErrorMetaData(errors.Errorf("invalid limit: %s", limit))
		}
	}
	return req, nil
}

func MakeRecordsGetEndpoint(svc domain.OCRUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(recordsGetRequest)
		records, err := svc.GetRecords(ctx, httpKit.GetUserID(ctx), req.From, req.To, req.Limit)
		if err != nil {
			return nil, errors.Wrap(err, "get records failed")
		}
		if records == nil {
			records = []*domain.ProcessedRecord{}
		}
		return &recordsGetResponse{Records: records}, nil
	}
}
