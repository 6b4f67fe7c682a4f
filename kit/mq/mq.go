package mq

import (
	"context"
)

type Message interface {
	GetKey() string
	Marshal() ([]byte, error)
}

type Producer interface {
	Produce(ctx context.Context, messages ...Message) error
	Close() error
}
