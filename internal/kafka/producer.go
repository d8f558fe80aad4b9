package kafka

import (
	"context"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type Producer interface {
	SendMessage(ctx context.Context, key, value []byte) error
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(brokers []string, topic string) Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	zap.S().Infof("kafka: producer initialized for topic %s on %v", topic, brokers)
	return &KafkaProducer{writer: writer}
}

func (p *KafkaProducer) SendMessage(ctx context.Context, key, value []byte) error {
	return p.writer.WriteMessages(ctx, kafka.Message{Key: key, Value: value})
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

// ConsoleProducer prints events instead of publishing them; used when
// no brokers are configured.
type ConsoleProducer struct{}

func NewConsoleProducer() Producer {
	zap.S().Info("kafka: initialized console producer")
	return &ConsoleProducer{}
}

func (p *ConsoleProducer) SendMessage(ctx context.Context, key, value []byte) error {
	zap.S().Infof("kafka (console): key=%s value=%s", string(key), string(value))
	return nil
}

func (p *ConsoleProducer) Close() error {
	return nil
}
