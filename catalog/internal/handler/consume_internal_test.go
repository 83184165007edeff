package handler

import (
	"context"
	"testing"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Astemirdum/local-library/catalog/internal/model"
	"github.com/Astemirdum/local-library/pkg/kafka"
)

func TestConsumer_handle(t *testing.T) {
	t.Parallel()
	id := uuid.MustParse("3b0b6cb4-5b2b-4cde-8d36-0d4d0c2a9e11")

	tests := []struct {
		name    string
		value   string
		applied bool
	}{
		{
			name:    "ok. on loan",
			value:   `{"instance_id":"3b0b6cb4-5b2b-4cde-8d36-0d4d0c2a9e11","status":"o","borrower":"reader","due_back":"2024-03-20"}`,
			applied: true,
		},
		{
			name:    "ok. returned",
			value:   `{"instance_id":"3b0b6cb4-5b2b-4cde-8d36-0d4d0c2a9e11","status":"a"}`,
			applied: true,
		},
		{
			name:  "err. status out of enum",
			value: `{"instance_id":"3b0b6cb4-5b2b-4cde-8d36-0d4d0c2a9e11","status":"d"}`,
		},
		{
			name:  "err. no instance",
			value: `{"status":"a"}`,
		},
		{
			name:  "err. not json",
			value: `status=a`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var got []model.InstanceStatusUpdate
			consumer := NewConsumer(func(_ context.Context, upd model.InstanceStatusUpdate) error {
				got = append(got, upd)
				return nil
			}, zap.NewNop())

			consumer.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(tt.value)})

			if !tt.applied {
				require.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			require.Equal(t, id, got[0].InstanceID)
		})
	}
}

func TestConsumer_handleCatalogEvent(t *testing.T) {
	t.Parallel()
	var got []kafka.EventCatalog
	consumer := NewConsumer(func(_ context.Context, ev kafka.EventCatalog) error {
		got = append(got, ev)
		return nil
	}, zap.NewNop())

	consumer.handle(context.Background(), &sarama.ConsumerMessage{
		Value: []byte(`{"timestamp":"2024-03-10T12:00:00Z","event_type":"author_deleted","username":"reader","author_id":7}`),
	})
	consumer.handle(context.Background(), &sarama.ConsumerMessage{Value: []byte(`{"username":"reader"}`)})

	require.Len(t, got, 1)
	require.Equal(t, kafka.EventAuthorDeleted, got[0].EventType)
	require.Equal(t, 7, got[0].AuthorID)
}

func TestConsumer_Ready(t *testing.T) {
	t.Parallel()
	consumer := NewConsumer(func(context.Context, kafka.EventCatalog) error { return nil }, zap.NewNop())

	select {
	case <-consumer.Ready():
		t.Fatal("ready before the first session")
	default:
	}

	require.NoError(t, consumer.Setup(nil))
	require.NoError(t, consumer.Setup(nil))
	_, open := <-consumer.Ready()
	require.False(t, open)
}
