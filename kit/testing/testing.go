package testing

import "context"

type Container interface {
	GetURI() string
	Terminate(context.Context) error
}

type RedisContainer = Container

type KafkaContainer = Container

type PostgresContainer = Container
