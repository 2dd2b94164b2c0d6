package event

import (
	"context"

	"github.com/wallet/withdrawal/internal/domain/shared"
	"github.com/wallet/withdrawal/internal/domain/wallet"
	"go.uber.org/zap"
)

// LogHandler writes every relayed event to the log. It is subscribed to the
// in-memory bus when event.publisher is "log".
type LogHandler struct {
	logger *zap.Logger
}

// NewLogHandler creates a LogHandler
func NewLogHandler(logger *zap.Logger) *LogHandler {
	return &LogHandler{logger: logger}
}

// Handle implements shared.EventHandler
func (h *LogHandler) Handle(_ context.Context, event shared.DomainEvent) error {
	fields := []zap.Field{
		zap.String("event_id", event.EventID().String()),
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
		zap.Time("occurred_at", event.OccurredAt()),
	}
	if w, ok := event.(*wallet.WithdrawalCompletedEvent); ok {
		fields = append(fields,
			zap.String("idempotency_token", w.IdempotencyToken),
			zap.String("amount", w.Amount.String()),
			zap.String("balance_after", w.BalanceAfter.String()),
		)
	}
	h.logger.Info("domain event relayed", fields...)
	return nil
}

// EventTypes implements shared.EventHandler; empty means all events
func (h *LogHandler) EventTypes() []string {
	return nil
}
