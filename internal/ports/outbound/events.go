package outbound

import (
	"context"

	"restaurant_service/internal/core/domain"
)

// EventPublisher announces order lifecycle changes. Publishing is
// fire-and-forget: failures are the publisher's problem to log, never the
// caller's to handle.
type EventPublisher interface {
	OrderCreated(ctx context.Context, order domain.Order)
	OrderItemAdded(ctx context.Context, orderID int, item domain.LineItem)
	OrderDeleted(ctx context.Context, orderID int)
}

// NopEventPublisher is used when no broker is configured.
type NopEventPublisher struct{}

func (NopEventPublisher) OrderCreated(context.Context, domain.Order)           {}
func (NopEventPublisher) OrderItemAdded(context.Context, int, domain.LineItem) {}
func (NopEventPublisher) OrderDeleted(context.Context, int)                    {}

var _ EventPublisher = NopEventPublisher{}
