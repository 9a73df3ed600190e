package postgres

import (
	"context"
	"fmt"

	"restaurant_service/internal/core/domain"
)

// ReconcileIDSequence realigns the orders id generator after out-of-band
// deletes. setval with is_called=false makes the next nextval() return
// exactly COALESCE(MAX(id),0)+1, so an empty table starts over at 1 and a
// repeated call is a no-op.
func (r *OrderRepository) ReconcileIDSequence(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		SELECT setval(
			pg_get_serial_sequence('orders', 'id'),
			COALESCE((SELECT MAX(id) FROM orders), 0) + 1,
			false
		)
	`)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrReconcileFailed, err)
	}
	return nil
}
