package middleware

import (
	"context"

	"github.com/go-kit/kit/endpoint"
	"github.com/pkg/errors"
	httpKit "github.com/superj80820/pharmacy-ocr/kit/http"
)

func CreateAuthMiddleware(authFunc func(ctx context.Context, token string) (userID string, err error)) endpoint.Middleware {
	return func(e endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			userID, err := authFunc(ctx, httpKit.GetToken(ctx))
			if err != nil {
				return nil, errors.Wrap(err, "auth failed")
			}
			ctx = httpKit.AddUserID(ctx, userID)
			return e(ctx, request)
		}
	}
}
