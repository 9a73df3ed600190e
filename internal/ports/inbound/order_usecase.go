package inbound

import (
	"context"

	"restaurant_service/internal/core/domain"
)

// ItemRequest references a catalog entry by id; the snapshot fields are
// resolved by the use case at add time.
type ItemRequest struct {
	MenuItemID int
	Quantity   int
}

type OrderUseCase interface {
	Create(ctx context.Context, customerName string, items []ItemRequest) (domain.Order, error)
	AddItem(ctx context.Context, orderID, menuItemID, quantity int) (domain.Order, error)
	Get(ctx context.Context, orderID int) (domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Delete(ctx context.Context, orderID int) error
	// ReloadMirror rebuilds the in-memory mirror from storage; returns the
	// number of orders loaded. Meant for process start.
	ReloadMirror(ctx context.Context) (int, error)
	SyncIDSequence(ctx context.Context) error
}

type MenuUseCase interface {
	List(ctx context.Context) ([]domain.MenuItem, error)
	Get(ctx context.Context, id int) (domain.MenuItem, error)
	Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error)
	Update(ctx context.Context, item domain.MenuItem) error
	Delete(ctx context.Context, id int) error
}
