package analytics

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"time"
)

// Repo runs the read-only aggregate queries.
type Repo struct{ DB *pgxpool.Pool }

// Orders returns orders created in [from, to], newest first. limit <= 0
// means all.
func (r *Repo) Orders(ctx context.Context, from, to *time.Time, limit int) ([]OrderRow, error) {
	where, args := orders.Where("", from, to)
	sql := `SELECT o.id, o.customer_name, o.status, o.total_sales, o.total_cost, o.created_at
		FROM orders o ` + where + ` ORDER BY o.created_at DESC, o.id`
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []OrderRow{}
	for rows.Next() {
		var o OrderRow
		if err := rows.Scan(&o.ID, &o.CustomerName, &o.Status, &o.TotalSales, &o.TotalCost, &o.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Items returns order lines of orders created in [from, to]. limit <= 0
// means all.
func (r *Repo) Items(ctx context.Context, from, to *time.Time, limit int) ([]ItemRow, error) {
	where, args := orders.Where("", from, to)
	sql := `SELECT s.name, i.quantity, i.unit_price
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		JOIN skus s ON s.id = i.sku_id ` + where + ` ORDER BY o.created_at DESC, i.id`
	if limit > 0 {
		args = append(args, limit)
		sql += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []ItemRow{}
	for rows.Next() {
		var it ItemRow
		if err := rows.Scan(&it.SKUName, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) Quantities(ctx context.Context) ([]int, error) {
	rows, err := r.DB.Query(ctx, `SELECT quantity FROM skus`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []int{}
	for rows.Next() {
		var q int
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (r *Repo) ClientCount(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&n)
	return n, err
}

// Totals sums every order ever placed.
func (r *Repo) Totals(ctx context.Context) (sales, cost decimal.Decimal, count int, err error) {
	err = r.DB.QueryRow(ctx, `SELECT COALESCE(SUM(total_sales), 0), COALESCE(SUM(total_cost), 0), COUNT(*) FROM orders`).
		Scan(&sales, &cost, &count)
	return sales, cost, count, err
}

// Customers groups orders by customer email.
func (r *Repo) Customers(ctx context.Context) ([]CustomerActivity, error) {
	rows, err := r.DB.Query(ctx, `SELECT customer_email, MAX(created_at), COUNT(*)
		FROM orders GROUP BY customer_email ORDER BY MAX(created_at) ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []CustomerActivity{}
	for rows.Next() {
		var c CustomerActivity
		if err := rows.Scan(&c.Email, &c.LastOrder, &c.Orders); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
