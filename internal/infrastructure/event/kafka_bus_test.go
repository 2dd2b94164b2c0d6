package event

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wallet/withdrawal/internal/infrastructure/config"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func headerMap(msg kafka.Message) map[string]string {
	h := make(map[string]string, len(msg.Headers))
	for _, header := range msg.Headers {
		h[header.Key] = string(header.Value)
	}
	return h
}

func TestKafkaEventBus_Publish(t *testing.T) {
	w := &fakeWriter{}
	bus := newKafkaEventBus(w, "wallet.withdrawals", NewEventSerializer(), zap.NewNop())
	event := newTestEvent("WithdrawalCompleted")

	require.NoError(t, bus.Publish(context.Background(), event))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, event.AggregateID().String(), string(msg.Key))
	assert.Contains(t, string(msg.Value), `"data":"test data"`)
	assert.Equal(t, map[string]string{
		HeaderEventID:       event.EventID().String(),
		HeaderEventType:     "WithdrawalCompleted",
		HeaderAggregateType: "TestAggregate",
	}, headerMap(msg))
}

func TestKafkaEventBus_PublishError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	bus := newKafkaEventBus(w, "wallet.withdrawals", NewEventSerializer(), zap.NewNop())

	err := bus.Publish(context.Background(), newTestEvent("E"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "wallet.withdrawals")
	assert.ErrorIs(t, err, w.err)
}

func TestKafkaEventBus_NoEventsAndStop(t *testing.T) {
	w := &fakeWriter{}
	bus := newKafkaEventBus(w, "t", NewEventSerializer(), zap.NewNop())

	require.NoError(t, bus.Publish(context.Background()))
	assert.Empty(t, w.msgs)

	require.NoError(t, bus.Start(context.Background()))
	require.NoError(t, bus.Stop(context.Background()))
	assert.True(t, w.closed)
}

func TestNewEventBus(t *testing.T) {
	cfg := &config.Config{}
	cfg.Event.Publisher = config.PublisherLog
	_, isMemory := NewEventBus(cfg, NewEventSerializer(), zap.NewNop()).(*InMemoryEventBus)
	assert.True(t, isMemory)

	cfg.Event.Publisher = config.PublisherKafka
	cfg.Kafka = config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}
	bus := NewEventBus(cfg, NewEventSerializer(), zap.NewNop())
	_, isKafka := bus.(*KafkaEventBus)
	assert.True(t, isKafka)
}
