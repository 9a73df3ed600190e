package postgres

import (
	"context"
	"errors"

	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/outbound"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuRepository struct {
	pool *pgxpool.Pool
}

func NewMenuRepository(pool *pgxpool.Pool) *MenuRepository {
	return &MenuRepository{pool: pool}
}

func (r *MenuRepository) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, description, price, category FROM menu_items ORDER BY id
	`)
	if err != nil {
		return nil, storageErr("query menu", err)
	}
	defer rows.Close()

	out := make([]domain.MenuItem, 0)
	for rows.Next() {
		var m domain.MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category); err != nil {
			return nil, storageErr("scan menu item", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("menu rows", err)
	}
	return out, nil
}

func (r *MenuRepository) Get(ctx context.Context, id int) (domain.MenuItem, error) {
	var m domain.MenuItem
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, price, category FROM menu_items WHERE id = $1
	`, id).Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.Category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.MenuItem{}, domain.ErrMenuItemNotFound
		}
		return domain.MenuItem{}, storageErr("select menu item", err)
	}
	return m, nil
}

func (r *MenuRepository) Create(ctx context.Context, item domain.MenuItem) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO menu_items (name, description, price, category)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, item.Name, item.Description, item.Price, item.Category).Scan(&id)
	if err != nil {
		return 0, storageErr("insert menu item", err)
	}
	return id, nil
}

func (r *MenuRepository) Update(ctx context.Context, item domain.MenuItem) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE menu_items SET name = $1, description = $2, price = $3, category = $4 WHERE id = $5
	`, item.Name, item.Description, item.Price, item.Category, item.ID)
	if err != nil {
		return storageErr("update menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete menu item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

var _ outbound.MenuRepository = (*MenuRepository)(nil)
