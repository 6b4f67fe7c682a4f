package http

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/superj80820/pharmacy-ocr/domain"
	httpTransportKit "github.com/superj80820/pharmacy-ocr/kit/http/transport"
)

var (
	DecodeAuthTokenRequest  = httpTransportKit.DecodeJsonRequest[authTokenRequest]
	EncodeAuthTokenResponse = httpTransportKit.EncodeJsonResponse
)

type authTokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func MakeAuthTokenEndpoint(svc domain.AuthUseCase) endpoint.Endpoint {
	return func(ctx context.Context, request interface{}) (response interface{}, err error) {
		req := request.(authTokenRequest)
		return svc.Login(ctx, req.Email, req.Password)
	}
}
