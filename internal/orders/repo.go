package orders

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"strings"
	"time"
)

const orderColumns = `o.id, COALESCE(o.external_id, ''), o.user_id, o.client_id, o.customer_name, o.customer_email,
	COALESCE(o.customer_phone, ''), o.status, o.total_sales, o.total_cost, o.created_at, o.updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanOrder(row pgx.Row, extra ...any) (Order, error) {
	var o Order
	dest := []any{&o.ID, &o.ExternalID, &o.UserID, &o.ClientID, &o.CustomerName, &o.CustomerEmail,
		&o.CustomerPhone, &o.Status, &o.TotalSales, &o.TotalCost, &o.CreatedAt, &o.UpdatedAt}
	err := row.Scan(append(dest, extra...)...)
	return o, err
}

// CreateOrderTx places an order: lock SKUs, check stock, decrement, freeze
// prices, insert order + items and the audit entry, all in one transaction.
// A repeated external id returns the existing order with existed=true.
func (r *Repo) CreateOrderTx(ctx context.Context, in CreateInput) (order Order, existed bool, err error) {
	if in.ExternalID != "" {
		if o, err := r.GetByExternalID(ctx, in.ExternalID); err == nil {
			return o, true, nil
		} else if !errors.Is(err, ErrNotFound) {
			return Order{}, false, err
		}
	}

	items := MergeItems(in.Items)
	if len(items) == 0 {
		return Order{}, false, ErrNoItems
	}

	err = postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		// lock in sku id order (MergeItems sorts) so concurrent orders can't deadlock
		stock := make(map[string]StockSnapshot, len(items))
		for _, it := range items {
			s, err := inventory.Get(ctx, tx, it.SKUID, true)
			if errors.Is(err, inventory.ErrNotFound) {
				return &InsufficientStockError{SKUID: it.SKUID, Requested: it.Quantity}
			}
			if err != nil {
				return err
			}
			stock[s.ID] = StockSnapshot{ID: s.ID, Name: s.Name, Quantity: s.Quantity, SellPrice: s.SellPrice, CostPrice: s.CostPrice}
		}

		lines, totals, err := PriceLines(items, stock)
		if err != nil {
			return err
		}

		for _, ln := range lines {
			ct, err := tx.Exec(ctx, `UPDATE skus SET quantity = quantity - $2, updated_at = now()
				WHERE id = $1 AND quantity >= $2`, ln.SKUID, ln.Quantity)
			if err != nil {
				return err
			}
			if ct.RowsAffected() != 1 {
				s := stock[ln.SKUID]
				return &InsufficientStockError{SKUID: s.ID, Name: s.Name, Requested: ln.Quantity, Available: s.Quantity}
			}
		}

		var clientID *string
		if in.ClientID != "" {
			clientID = &in.ClientID
		}
		var externalID *string
		if in.ExternalID != "" {
			externalID = &in.ExternalID
		}

		order, err = scanOrder(tx.QueryRow(ctx, `
			INSERT INTO orders AS o (id, external_id, user_id, client_id, customer_name, customer_email, customer_phone,
			                         status, total_sales, total_cost)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+orderColumns,
			uuid.NewString(), externalID, in.UserID, clientID, in.CustomerName, in.CustomerEmail, in.CustomerPhone,
			StatusPending, totals.Sales, totals.Cost))
		if err != nil {
			return err
		}

		for i := range lines {
			lines[i].ID = uuid.NewString()
			lines[i].OrderID = order.ID
			if _, err := tx.Exec(ctx, `
				INSERT INTO order_items(id, order_id, sku_id, quantity, unit_price, unit_cost)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				lines[i].ID, order.ID, lines[i].SKUID, lines[i].Quantity, lines[i].UnitPrice, lines[i].UnitCost); err != nil {
				return err
			}
		}
		order.Items = lines

		return audit.Record(ctx, tx, in.UserID, audit.ActionOrderCreate, audit.EntityOrder, order.ID, map[string]any{
			"totalSales": totals.Sales,
			"itemCount":  len(in.Items),
		})
	})
	if err != nil {
		// lost an idempotency race: the other request committed first
		if name, ok := postgres.UniqueViolation(err); ok && name == "orders_external_id_key" {
			o, gerr := r.GetByExternalID(ctx, in.ExternalID)
			if gerr != nil {
				return Order{}, false, gerr
			}
			return o, true, nil
		}
		return Order{}, false, err
	}
	return order, false, nil
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	return r.getWhere(ctx, `o.id = $1`, id)
}

func (r *Repo) GetByExternalID(ctx context.Context, externalID string) (Order, error) {
	return r.getWhere(ctx, `o.external_id = $1`, externalID)
}

func (r *Repo) getWhere(ctx context.Context, cond string, arg any) (Order, error) {
	var name, email, role *string
	o, err := scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderColumns+`, u.name, u.email, u.role
		FROM orders o LEFT JOIN users u ON u.id = o.user_id
		WHERE `+cond, arg), &name, &email, &role)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, ErrNotFound
	}
	if err != nil {
		return Order{}, err
	}
	o.User = creator(name, email, role)

	list := []Order{o}
	if err := LoadItems(ctx, r.DB, list); err != nil {
		return Order{}, err
	}
	return list[0], nil
}

func (r *Repo) List(ctx context.Context, p ListParams) ([]Order, int, error) {
	p.Page, p.PageSize = listing.Normalize(p.Page, p.PageSize, listing.DefaultPageSize)
	where, args := Where(p.Status, p.StartDate, p.EndDate)

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM orders o `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col := listing.Column(p.SortBy, sortColumns, "o.created_at")
	args = append(args, p.PageSize, listing.Offset(p.Page, p.PageSize))
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`
		SELECT %s, u.name, u.email, u.role
		FROM orders o LEFT JOIN users u ON u.id = o.user_id
		%s
		ORDER BY %s %s, o.id
		LIMIT $%d OFFSET $%d`, orderColumns, where, col, listing.Direction(p.Order), len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var name, email, role *string
		o, err := scanOrder(rows, &name, &email, &role)
		if err != nil {
			return nil, 0, err
		}
		o.User = creator(name, email, role)
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	if err := LoadItems(ctx, r.DB, out); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Where builds the shared status/date filter over orders aliased "o".
func Where(status string, from, to *time.Time) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if st, ok := ParseStatus(status); ok {
		args = append(args, st)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		conds = append(conds, fmt.Sprintf("o.created_at >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conds = append(conds, fmt.Sprintf("o.created_at <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// LoadItems fills Items (with SKU code/name) for every order in one query.
func LoadItems(ctx context.Context, q postgres.Querier, list []Order) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]string, len(list))
	idx := make(map[string]int, len(list))
	for i, o := range list {
		ids[i] = o.ID
		idx[o.ID] = i
		list[i].Items = []OrderItem{}
	}
	rows, err := q.Query(ctx, `
		SELECT i.id, i.order_id, i.sku_id, s.code, s.name, i.quantity, i.unit_price, i.unit_cost
		FROM order_items i JOIN skus s ON s.id = i.sku_id
		WHERE i.order_id = ANY($1)
		ORDER BY s.name`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.SKUID, &it.SKUCode, &it.SKUName, &it.Quantity, &it.UnitPrice, &it.UnitCost); err != nil {
			return err
		}
		i := idx[it.OrderID]
		list[i].Items = append(list[i].Items, it)
	}
	return rows.Err()
}

func creator(name, email, role *string) *Creator {
	if name == nil {
		return nil
	}
	c := &Creator{Name: *name}
	if email != nil {
		c.Email = *email
	}
	if role != nil {
		c.Role = *role
	}
	return c
}
