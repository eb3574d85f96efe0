package orders

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/jackc/pgx/v5"
)

// UpdateStatus moves an order along the status graph. Cancelling returns
// every line's quantity to stock in the same transaction.
func (r *Repo) UpdateStatus(ctx context.Context, actor, id string, to Status) (Order, Status, error) {
	var from Status
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 FOR UPDATE`, id).Scan(&from); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if !CanTransition(from, to) {
			return ErrInvalidTransition
		}
		if to == StatusCancelled {
			if err := restock(ctx, tx, id); err != nil {
				return err
			}
		}
		if _, err := tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, id, to); err != nil {
			return err
		}
		return audit.Record(ctx, tx, actor, audit.ActionOrderStatusUpdate, audit.EntityOrder, id,
			audit.Change{Before: from, After: to})
	})
	if err != nil {
		return Order{}, "", err
	}
	o, err := r.Get(ctx, id)
	return o, from, err
}

// restock puts the order's item quantities back on their SKUs.
func restock(ctx context.Context, tx pgx.Tx, orderID string) error {
	rows, err := tx.Query(ctx, `SELECT sku_id, quantity FROM order_items WHERE order_id=$1 ORDER BY sku_id`, orderID)
	if err != nil {
		return err
	}
	type rec struct {
		skuID string
		qty   int
	}
	var recs []rec
	for rows.Next() {
		var x rec
		if err := rows.Scan(&x.skuID, &x.qty); err != nil {
			rows.Close()
			return err
		}
		recs = append(recs, x)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, x := range recs {
		if _, err := tx.Exec(ctx, `UPDATE skus SET quantity = quantity + $2, updated_at = now() WHERE id=$1`, x.skuID, x.qty); err != nil {
			return err
		}
	}
	return nil
}
