package handler

import (
	"context"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

// Consumer decodes JSON messages of type T and hands each valid one to apply.
type Consumer[T any] struct {
	apply    func(ctx context.Context, msg T) error
	validate *validator.Validate
	timeout  time.Duration
	log      *zap.Logger
	ready    chan bool
}

func NewConsumer[T any](apply func(ctx context.Context, msg T) error, log *zap.Logger) *Consumer[T] {
	return &Consumer[T]{
		apply:    apply,
		validate: validator.New(),
		timeout:  5 * time.Second,
		log:      log.Named("consumer"),
		ready:    make(chan bool),
	}
}

// Ready is closed once the first session is set up.
func (consumer *Consumer[T]) Ready() <-chan bool {
	return consumer.ready
}

func (consumer *Consumer[T]) Setup(sarama.ConsumerGroupSession) error {
	select {
	case <-consumer.ready:
	default:
		close(consumer.ready)
	}
	return nil
}

// Cleanup is run at the end of a session, once all ConsumeClaim goroutines have exited.
func (consumer *Consumer[T]) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *Consumer[T]) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handle(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle applies one message; malformed or unappliable messages are logged and skipped.
func (consumer *Consumer[T]) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	fields := []zap.Field{zap.String("topic", message.Topic), zap.Int64("offset", message.Offset)}

	var msg T
	if err := jsoniter.Unmarshal(message.Value, &msg); err != nil {
		consumer.log.Error("decode message", append(fields, zap.Error(err))...)
		return
	}
	if err := consumer.validate.Struct(msg); err != nil {
		consumer.log.Error("invalid message", append(fields, zap.Error(err))...)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, consumer.timeout)
	defer cancel()
	if err := consumer.apply(ctx, msg); err != nil {
		consumer.log.Error("apply message", append(fields, zap.Error(err))...)
		return
	}
	consumer.log.Debug("Message claimed:", append(fields, zap.Time("timestamp", message.Timestamp))...)
}
