package kafka

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
	"github.com/superj80820/pharmacy-ocr/kit/mq"
)

type (
	WriterBalancer = kafka.Balancer

	Hash       = kafka.Hash
	RoundRobin = kafka.RoundRobin
)

type producerConfig struct {
	writerBalancer WriterBalancer
	writeTimeout   time.Duration

	isCreateTopic                bool
	createTopicNumPartitions     int
	createTopicReplicationFactor int
}

type ProducerOption func(*producerConfig)

func ProduceWay(balancer WriterBalancer) ProducerOption {
	return func(pc *producerConfig) {
		pc.writerBalancer = balancer
	}
}

func WriteTimeout(timeout time.Duration) ProducerOption {
	return func(pc *producerConfig) {
		pc.writeTimeout = timeout
	}
}

func CreateTopic(numPartitions, replicationFactor int) ProducerOption {
	return func(pc *producerConfig) {
		pc.isCreateTopic = true
		pc.createTopicNumPartitions = numPartitions
		pc.createTopicReplicationFactor = replicationFactor
	}
}

type producer struct {
	writer *kafka.Writer
}

var _ mq.Producer = (*producer)(nil)

func CreateProducer(brokers []string, topic string, options ...ProducerOption) (mq.Producer, error) {
	config := &producerConfig{
		writerBalancer: &kafka.Hash{},
		writeTimeout:   10 * time.Second,
	}
	for _, option := range options {
		option(config)
	}
	if len(brokers) == 0 {
		return nil, errors.New("no kafka brokers")
	}

	if config.isCreateTopic {
		if err := createTopic(brokers[0], topic, config.createTopicNumPartitions, config.createTopicReplicationFactor); err != nil {
			return nil, errors.Wrap(err, "create topic failed")
		}
	}

	return &producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               config.writerBalancer,
			WriteTimeout:           config.writeTimeout,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}, nil
}

func (p *producer) Produce(ctx context.Context, messages ...mq.Message) error {
	kafkaMessages := make([]kafka.Message, len(messages))
	for idx, message := range messages {
		marshal, err := message.Marshal()
		if err != nil {
			return errors.Wrap(err, "marshal message failed")
		}
		kafkaMessages[idx] = kafka.Message{
			Key:   []byte(message.GetKey()),
			Value: marshal,
		}
	}
	if err := p.writer.WriteMessages(ctx, kafkaMessages...); err != nil {
		return errors.Wrap(err, "write messages failed")
	}
	return nil
}

func (p *producer) Close() error {
	return p.writer.Close()
}

func createTopic(url, topic string, numPartitions, replicationFactor int) error {
	conn, err := kafka.Dial("tcp", url)
	if err != nil {
		return errors.Wrap(err, "dial kafka failed")
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return errors.Wrap(err, "get controller failed")
	}
	controllerConn, err := kafka.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	if err != nil {
		return errors.Wrap(err, "dial controller failed")
	}
	defer controllerConn.Close()

	if err := controllerConn.CreateTopics(kafka.TopicConfig{
		Topic:             topic,
		NumPartitions:     numPartitions,
		ReplicationFactor: replicationFactor,
	}); err != nil {
		return errors.Wrap(err, "create topics failed")
	}
	return nil
}
