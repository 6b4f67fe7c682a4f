package http

import (
	"context"
	"net/http"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/pharmacy-ocr/domain"
	"github.com/superj80820/pharmacy-ocr/kit/code"
	httpMiddlewareKit "github.com/superj80820/pharmacy-ocr/kit/http/middleware"
	httpTransportKit "github.com/superj80820/pharmacy-ocr/kit/http/transport"
)

var (
	DecodeAccountRegisterRequest  = httpTransportKit.DecodeJsonRequest[accountRegisterRequest]
	EncodeAccountRegisterResponse = httpMiddlewareKit.EncodeResponseSetSuccessHTTPCode(httpTransportKit.EncodeJsonResponse)
)

type accountRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func MakeAccountRegisterEndpoint(svc domain.AuthUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(accountRegisterRequest)
		account, err := svc.Register(ctx, req.Email, req.Password)
		if err != nil {
			return nil, err
		}
		return code.SuccessCode{HTTPCode: http.StatusCreated, Data: account}, nil
	}
}
