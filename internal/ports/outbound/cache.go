package outbound

import (
	"context"

	"restaurant_service/internal/core/domain"
)

// OrderCache is the in-process mirror of persisted orders. Implementations
// must return snapshot copies from Get, never live aliases.
type OrderCache interface {
	Get(ctx context.Context, orderID int) (domain.Order, bool)
	Set(ctx context.Context, order domain.Order)
	BulkSet(ctx context.Context, orders []domain.Order)
	Delete(ctx context.Context, orderID int)
	Len(ctx context.Context) int
}
