package domain

import (
	"context"
	"time"
)

type AccessToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpireAt    time.Time `json:"expire_at"`
}

type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*Account, error)
	Login(ctx context.Context, email, password string) (*AccessToken, error)
	Verify(ctx context.Context, accessToken string) (userID string, err error)
}
