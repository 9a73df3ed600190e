package postgres

import (
	"context"
	"errors"
	"fmt"

	"restaurant_service/internal/core/codec"
	"restaurant_service/internal/core/domain"
	"restaurant_service/internal/ports/outbound"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRepository persists orders as single rows whose line items live in the
// items text column as an encoded JSON array.
type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

const orderColumns = `id, customer_name, order_date, items, total_price, item_count`

func (r *OrderRepository) Create(ctx context.Context, customerName string) (int, error) {
	var id int
	err := r.pool.QueryRow(ctx, `
		INSERT INTO orders (customer_name, order_date, items, total_price, item_count)
		VALUES ($1, now(), '[]', 0.0, 0)
		RETURNING id
	`, customerName).Scan(&id)
	if err != nil {
		return 0, storageErr("insert order", err)
	}
	return id, nil
}

// AppendItem is a read-modify-write: the current array, total and count are
// read, the new fragment is appended, and all three columns are written back
// in one UPDATE so readers never see a half-applied aggregate. Callers must
// serialize concurrent appends to the same order.
func (r *OrderRepository) AppendItem(ctx context.Context, orderID int, item domain.LineItem) error {
	var (
		itemsText string
		total     float64
		count     int
	)
	err := r.pool.QueryRow(ctx, `
		SELECT items, total_price, item_count FROM orders WHERE id = $1
	`, orderID).Scan(&itemsText, &total, &count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrOrderNotFound
		}
		return storageErr("read order", err)
	}

	frags := codec.SplitTopLevelArray(itemsText)
	frags = append(frags, domain.EncodeLineItem(item))

	tag, err := r.pool.Exec(ctx, `
		UPDATE orders SET items = $1, total_price = $2, item_count = $3 WHERE id = $4
	`, codec.EncodeArray(frags),
		total+item.Price*float64(item.Quantity),
		count+item.Quantity,
		orderID)
	if err != nil {
		return storageErr("update order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, orderID int) (domain.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, orderID)
	o, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrOrderNotFound
		}
		return domain.Order{}, storageErr("select order", err)
	}
	return o, nil
}

// List returns all orders newest first.
func (r *OrderRepository) List(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id DESC`)
}

// ReconstructAll returns all orders oldest first, the replay order the
// startup mirror wants.
func (r *OrderRepository) ReconstructAll(ctx context.Context) ([]domain.Order, error) {
	return r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY id ASC`)
}

func (r *OrderRepository) Delete(ctx context.Context, orderID int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return storageErr("delete order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, sql string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, sql)
	if err != nil {
		return nil, storageErr("query orders", err)
	}
	defer rows.Close()

	out := make([]domain.Order, 0)
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storageErr("scan order", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("orders rows", err)
	}
	return out, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o         domain.Order
		itemsText string
	)
	if err := row.Scan(&o.ID, &o.CustomerName, &o.CreatedAt, &itemsText, &o.TotalPrice, &o.ItemCount); err != nil {
		return domain.Order{}, err
	}
	o.Items = domain.DecodeLineItems(itemsText)
	return o, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorageUnavailable, err)
}

var _ outbound.OrderRepository = (*OrderRepository)(nil)
