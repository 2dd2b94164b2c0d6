package event

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Kafka message header names
const (
	HeaderEventID       = "event_id"
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
)

// messageWriter is the subset of *kafka.Writer the bus needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventBus publishes domain events to a Kafka topic. Messages are keyed
// by aggregate id so all events of one account land on the same partition
// in order.
type KafkaEventBus struct {
	writer     messageWriter
	serializer *EventSerializer
	topic      string
	logger     *zap.Logger
}

// NewKafkaEventBus creates a bus writing to cfg.Topic on cfg.Brokers
func NewKafkaEventBus(cfg config.KafkaConfig, serializer *EventSerializer, logger *zap.Logger) *KafkaEventBus {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		WriteTimeout:           cfg.WriteTimeout,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
	return newKafkaEventBus(writer, cfg.Topic, serializer, logger)
}

func newKafkaEventBus(w messageWriter, topic string, serializer *EventSerializer, logger *zap.Logger) *KafkaEventBus {
	return &KafkaEventBus{writer: w, serializer: serializer, topic: topic, logger: logger}
}

// Publish writes events synchronously; an error means none of the batch is
// known to be delivered and the outbox will retry it.
func (b *KafkaEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		payload, err := b.serializer.Serialize(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.AggregateID().String()),
			Value: payload,
			Time:  event.OccurredAt(),
			Headers: []kafka.Header{
				{Key: HeaderEventID, Value: []byte(event.EventID().String())},
				{Key: HeaderEventType, Value: []byte(event.EventType())},
				{Key: HeaderAggregateType, Value: []byte(event.AggregateType())},
			},
		})
	}

	if err := b.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d message(s) to kafka topic %s: %w", len(msgs), b.topic, err)
	}
	return nil
}

// Start implements shared.EventBus
func (b *KafkaEventBus) Start(context.Context) error {
	b.logger.Info("kafka event bus started", zap.String("topic", b.topic))
	return nil
}

// Stop flushes pending writes and closes the writer
func (b *KafkaEventBus) Stop(context.Context) error {
	if err := b.writer.Close(); err != nil {
		return fmt.Errorf("failed to close kafka writer: %w", err)
	}
	b.logger.Info("kafka event bus stopped")
	return nil
}

// NewEventBus returns the bus selected by event.publisher
func NewEventBus(cfg *config.Config, serializer *EventSerializer, logger *zap.Logger) shared.EventBus {
	if cfg.Event.Publisher == config.PublisherKafka {
		return NewKafkaEventBus(cfg.Kafka, serializer, logger)
	}
	bus := NewInMemoryEventBus(logger)
	bus.Subscribe(NewLogHandler(logger))
	return bus
}

var _ shared.EventBus = (*KafkaEventBus)(nil)
