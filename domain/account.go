package domain

import (
	"context"
	"time"
)

type Account struct {
	ID       int64  `json:"id,string"`
	Email    string `json:"email"`
	Password string `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

type AccountRepo interface {
	Create(ctx context.Context, email, hashedPassword string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
}
