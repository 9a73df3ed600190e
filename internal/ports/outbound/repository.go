package outbound

import (
	"context"

	"restaurant_service/internal/core/domain"
)

// OrderRepository is the only write/read path to persisted orders. Ids are
// assigned by storage on Create, never by callers.
type OrderRepository interface {
	Create(ctx context.Context, customerName string) (int, error)
	AppendItem(ctx context.Context, orderID int, item domain.LineItem) error
	Get(ctx context.Context, orderID int) (domain.Order, error)
	// List returns orders newest first for display.
	List(ctx context.Context) ([]domain.Order, error)
	// ReconstructAll returns orders oldest first for deterministic startup replay.
	ReconstructAll(ctx context.Context) ([]domain.Order, error)
	Delete(ctx context.Context, orderID int) error
	// ReconcileIDSequence realigns the id generator so the next insert yields
	// MAX(live id)+1. Idempotent; safe to call redundantly.
	ReconcileIDSequence(ctx context.Context) error
}

type MenuRepository interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (int, error)
	Update(ctx context.Context, item domain.MenuItem) error
	Delete(ctx context.Context, id int) error
}
