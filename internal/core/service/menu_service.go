package service

import (
	"context"
	"fmt"

	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/inbound"
	"restaurant_service/internal/ports/outbound"

	"go.uber.org/zap"
)

type MenuService struct {
	repo   outbound.MenuRepository
	orders outbound.OrderRepository
	logger *zap.Logger
}

func NewMenuService(repo outbound.MenuRepository, orders outbound.OrderRepository, logger *zap.Logger) *MenuService {
	return &MenuService{repo: repo, orders: orders, logger: logger}
}

func (s *MenuService) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *MenuService) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, item domain.MenuItem) (domain.MenuItem, error) {
	id, err := s.repo.Create(ctx, item)
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("create menu item: %w", err)
	}
	item.ID = id
	s.logger.Info("menu item created", zap.Int("menu_item_id", id), zap.String("name", item.Name))
	return item, nil
}

func (s *MenuService) Update(ctx context.Context, item domain.MenuItem) error {
	// Updates never touch existing orders; their snapshots are historical.
	return s.repo.Update(ctx, item)
}

func (s *MenuService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	// Catalog deletes also realign the order id generator. Failure never
	// blocks the delete.
	if err := s.orders.ReconcileIDSequence(ctx); err != nil {
		s.logger.Warn("id sequence reconcile failed",
			zap.Int("deleted_menu_item_id", id),
			zap.Error(err))
	}

	s.logger.Info("menu item deleted", zap.Int("menu_item_id", id))
	return nil
}

var _ inbound.MenuUseCase = (*MenuService)(nil)
