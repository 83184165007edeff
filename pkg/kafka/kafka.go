package kafka

import (
	"context"
	"errors"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	CatalogEventsTopic   = "catalog.events"
	InstanceStatusTopic  = "catalog.instance-status"
	CatalogConsumerGroup = "catalog"
	StatsConsumerGroup   = "catalog-stats"
)

type Config struct {
	Enable bool     `yaml:"enable" envconfig:"KAFKA_ENABLE"`
	Addrs  []string `yaml:"addrs" envconfig:"KAFKA_ADDRS" default:"localhost:9092"`
}

func NewSyncProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true
	defaultCfg.Producer.Retry.Max = 3

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume runs the consumer-group session loop until ctx is done.
func Consume(ctx context.Context, consumer sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := consumer.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("consumer.Consume", zap.Error(err))
			time.Sleep(time.Second)
		}
		if ctx.Err() != nil {
			return
		}
	}
}

type EventType string

const (
	EventInstanceRenewed EventType = "instance_renewed"
	EventAuthorCreated   EventType = "author_created"
	EventAuthorUpdated   EventType = "author_updated"
	EventAuthorDeleted   EventType = "author_deleted"
)

// EventCatalog is published on CatalogEventsTopic after every successful write.
type EventCatalog struct {
	Timestamp  time.Time `json:"timestamp"`
	EventType  EventType `json:"event_type" validate:"required"`
	UserName   string    `json:"username"`
	InstanceID string    `json:"instance_id,omitempty"`
	AuthorID   int       `json:"author_id,omitempty"`
	DueBack    string    `json:"due_back,omitempty"`
}
