package service

import (
	"context"
	"fmt"
	"sync"

	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/inbound"
	"restaurant_service/internal/ports/outbound"

	"go.uber.org/zap"
)

type OrderService struct {
	repo   outbound.OrderRepository
	menu   outbound.MenuRepository
	cache  outbound.OrderCache
	events outbound.EventPublisher
	logger *zap.Logger

	// One mutex per order id: the append read-modify-write span is only safe
	// with a single writer per order.
	mu    sync.Mutex
	locks map[int]*sync.Mutex
}

func NewOrderService(
	repo outbound.OrderRepository,
	menu outbound.MenuRepository,
	cache outbound.OrderCache,
	events outbound.EventPublisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		repo:   repo,
		menu:   menu,
		cache:  cache,
		events: events,
		logger: logger,
		locks:  make(map[int]*sync.Mutex),
	}
}

// Create inserts an empty order, then appends the requested items one at a
// time. The id always comes from storage; if the insert fails nothing is
// appended under a guessed id.
func (s *OrderService) Create(ctx context.Context, customerName string, items []inbound.ItemRequest) (domain.Order, error) {
	id, err := s.repo.Create(ctx, customerName)
	if err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	for _, req := range items {
		if err := s.appendLocked(ctx, id, s.snapshot(ctx, req)); err != nil {
			return domain.Order{}, fmt.Errorf("append item to order %d: %w", id, err)
		}
	}

	order, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("reload order %d: %w", id, err)
	}

	s.cache.Set(ctx, order)
	s.events.OrderCreated(ctx, order)
	s.logger.Info("order created",
		zap.Int("order_id", id),
		zap.String("customer", customerName),
		zap.Int("item_count", order.ItemCount))
	return order, nil
}

func (s *OrderService) AddItem(ctx context.Context, orderID, menuItemID, quantity int) (domain.Order, error) {
	item := s.snapshot(ctx, inbound.ItemRequest{MenuItemID: menuItemID, Quantity: quantity})

	if err := s.appendLocked(ctx, orderID, item); err != nil {
		return domain.Order{}, err
	}

	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		// The append stood; drop the stale mirror entry and let the caller
		// re-query.
		s.cache.Delete(ctx, orderID)
		return domain.Order{}, fmt.Errorf("reload order %d: %w", orderID, err)
	}

	s.cache.Set(ctx, order)
	s.events.OrderItemAdded(ctx, orderID, item)
	return order, nil
}

func (s *OrderService) Get(ctx context.Context, orderID int) (domain.Order, error) {
	if orderID <= 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}

	if o, ok := s.cache.Get(ctx, orderID); ok {
		return o, nil
	}

	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	s.cache.Set(ctx, o)
	return o, nil
}

// List reads straight from storage, newest first. The mirror is only a point
// lookup cache.
func (s *OrderService) List(ctx context.Context) ([]domain.Order, error) {
	return s.repo.List(ctx)
}

// ReloadMirror replays all orders oldest first into the in-memory mirror.
func (s *OrderService) ReloadMirror(ctx context.Context) (int, error) {
	orders, err := s.repo.ReconstructAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("reconstruct orders: %w", err)
	}
	s.cache.BulkSet(ctx, orders)
	return len(orders), nil
}

func (s *OrderService) Delete(ctx context.Context, orderID int) error {
	if err := s.repo.Delete(ctx, orderID); err != nil {
		return err
	}

	s.cache.Delete(ctx, orderID)
	s.reconcileAfterDelete(ctx, orderID)
	s.events.OrderDeleted(ctx, orderID)
	s.logger.Info("order deleted", zap.Int("order_id", orderID))
	return nil
}

func (s *OrderService) SyncIDSequence(ctx context.Context) error {
	return s.repo.ReconcileIDSequence(ctx)
}

// reconcileAfterDelete realigns the id generator. Failure is logged and
// swallowed: reconciliation improves consistency but is not a precondition
// for the delete that triggered it.
func (s *OrderService) reconcileAfterDelete(ctx context.Context, orderID int) {
	if err := s.repo.ReconcileIDSequence(ctx); err != nil {
		s.logger.Warn("id sequence reconcile failed",
			zap.Int("deleted_order_id", orderID),
			zap.Error(err))
	}
}

// snapshot copies name and price from the catalog at add time. An unknown
// catalog id gets a placeholder snapshot; catalog validity is not enforced at
// this layer.
func (s *OrderService) snapshot(ctx context.Context, req inbound.ItemRequest) domain.LineItem {
	mi, err := s.menu.Get(ctx, req.MenuItemID)
	if err != nil {
		s.logger.Warn("menu item not in catalog, recording placeholder",
			zap.Int("menu_item_id", req.MenuItemID),
			zap.Error(err))
		mi = domain.MenuItem{
			ID:    req.MenuItemID,
			Name:  fmt.Sprintf("Item #%d", req.MenuItemID),
			Price: 0,
		}
	}
	return domain.LineItem{
		MenuItemID: req.MenuItemID,
		Name:       mi.Name,
		Price:      mi.Price,
		Quantity:   req.Quantity,
	}
}

func (s *OrderService) appendLocked(ctx context.Context, orderID int, item domain.LineItem) error {
	l := s.lockFor(orderID)
	l.Lock()
	defer l.Unlock()
	return s.repo.AppendItem(ctx, orderID, item)
}

func (s *OrderService) lockFor(orderID int) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[orderID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[orderID] = l
	}
	return l
}

var _ inbound.OrderUseCase = (*OrderService)(nil)
