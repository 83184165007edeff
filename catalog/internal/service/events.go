package service

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/pkg/circuit_breaker"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

type kafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	cb       circuit_breaker.CircuitBreaker
	log      *zap.Logger
}

// NewKafkaPublisher sends catalog events through producer; a run of failed sends
// opens the breaker so requests stop waiting on an unreachable broker.
func NewKafkaPublisher(producer sarama.SyncProducer, log *zap.Logger) Publisher {
	return &kafkaPublisher{
		producer: producer,
		topic:    kafka.CatalogEventsTopic,
		cb: circuit_breaker.New(circuit_breaker.Config{
			Window:       20,
			Cooldown:     10 * time.Second,
			FailureRatio: 0.5,
			Recovery:     2,
		}),
		log: log.Named("events"),
	}
}

func (p *kafkaPublisher) Publish(_ context.Context, event kafka.EventCatalog) error {
	data, err := jsoniter.ConfigFastest.Marshal(event)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.EventType),
		Value: sarama.ByteEncoder(data),
	}
	return p.cb.Call(func() error {
		partition, offset, err := p.producer.SendMessage(msg)
		if err != nil {
			return err
		}
		p.log.Debug("event sent", zap.String("type", string(event.EventType)),
			zap.Int32("partition", partition), zap.Int64("offset", offset))
		return nil
	})
}

type noopPublisher struct{}

// NewNoopPublisher drops every event; used when Kafka is disabled.
func NewNoopPublisher() Publisher {
	return noopPublisher{}
}

func (noopPublisher) Publish(context.Context, kafka.EventCatalog) error {
	return nil
}
