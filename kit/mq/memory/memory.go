package memory

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/superj80820/pharmacy-ocr/kit/mq"
)

// Producer keeps produced payloads in memory and hands them to subscribers synchronously.
type Producer struct {
	lock        sync.Mutex
	messages    [][]byte
	subscribers []func(key string, message []byte)
	closed      bool
}

var _ mq.Producer = (*Producer)(nil)

func CreateProducer() *Producer {
	return &Producer{}
}

func (p *Producer) Subscribe(notify func(key string, message []byte)) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.subscribers = append(p.subscribers, notify)
}

func (p *Producer) Produce(ctx context.Context, messages ...mq.Message) error {
	p.lock.Lock()
	defer p.lock.Unlock()

	if p.closed {
		return errors.New("producer closed")
	}
	for _, message := range messages {
		marshal, err := message.Marshal()
		if err != nil {
			return errors.Wrap(err, "marshal message failed")
		}
		p.messages = append(p.messages, marshal)
		for _, notify := range p.subscribers {
			notify(message.GetKey(), marshal)
		}
	}
	return nil
}

func (p *Producer) Messages() [][]byte {
	p.lock.Lock()
	defer p.lock.Unlock()

	cloneMessages := make([][]byte, len(p.messages))
	copy(cloneMessages, p.messages)
	return cloneMessages
}

func (p *Producer) Close() error {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.closed = true
	return nil
}
