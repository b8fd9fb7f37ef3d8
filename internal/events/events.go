package events

import (
	"context"

	"go.uber.org/zap"
)

// Event kinds consumed by the notification dispatcher.
const (
	KindOrderCompleted = "order.completed"
	KindOrderFailed    = "order.failed"
	KindOrderCancelled = "order.cancelled"
	KindPaymentPaid    = "payment.paid"
)

type Event struct {
	UserID  int            `json:"user_id"`
	Kind    string         `json:"kind"`
	Payload map[string]any `json:"payload"`
}

// Publisher hands terminal order states and payment confirmations to the
// notification layer. Delivery and rendering happen outside the core.
type Publisher interface {
	Publish(ctx context.Context, event Event)
}

// LogPublisher is the default sink: it records events in the log so the
// core works without a wired dispatcher.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(_ context.Context, event Event) {
	zap.L().Info("event published",
		zap.Int("userID", event.UserID),
		zap.String("kind", event.Kind),
		zap.Any("payload", event.Payload),
	)
}

// NopPublisher discards events. Used in tests.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) {}
