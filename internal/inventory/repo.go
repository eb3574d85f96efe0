package inventory

import (
	"context"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const skuColumns = `id, code, name, COALESCE(description, ''), quantity, cost_price, sell_price, created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanSKU(row pgx.Row) (SKU, error) {
	var s SKU
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Description, &s.Quantity, &s.CostPrice, &s.SellPrice, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func collect(rows pgx.Rows) ([]SKU, error) {
	defer rows.Close()
	out := []SKU{}
	for rows.Next() {
		s, err := scanSKU(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if _, ok := postgres.UniqueViolation(err); ok {
		return ErrDuplicateCode
	}
	return err
}

// Get loads one SKU. With forUpdate the row stays locked until q's
// transaction ends.
func Get(ctx context.Context, q postgres.Querier, id string, forUpdate bool) (SKU, error) {
	sql := `SELECT ` + skuColumns + ` FROM skus WHERE id=$1`
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	s, err := scanSKU(q.QueryRow(ctx, sql, id))
	return s, mapErr(err)
}

func (r *Repo) Get(ctx context.Context, id string) (SKU, error) {
	return Get(ctx, r.DB, id, false)
}

func (r *Repo) Create(ctx context.Context, actor string, in Input) (SKU, error) {
	var out SKU
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		out, err = scanSKU(tx.QueryRow(ctx, `
			INSERT INTO skus(id, code, name, description, quantity, cost_price, sell_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+skuColumns,
			uuid.NewString(), in.Code, in.Name, in.Description, in.Quantity, in.CostPrice, in.SellPrice))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionProductCreate, audit.EntitySKU, out.ID,
			map[string]any{"product": out})
	})
	return out, err
}

func (r *Repo) Update(ctx context.Context, actor, id string, in Input) (SKU, error) {
	var out SKU
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		before, err := Get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		out, err = scanSKU(tx.QueryRow(ctx, `
			UPDATE skus SET code=$2, name=$3, description=$4, quantity=$5, cost_price=$6, sell_price=$7, updated_at=now()
			WHERE id=$1
			RETURNING `+skuColumns,
			id, in.Code, in.Name, in.Description, in.Quantity, in.CostPrice, in.SellPrice))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionProductUpdate, audit.EntitySKU, id,
			audit.Change{Before: before, After: out})
	})
	return out, err
}

func (r *Repo) UpdateStock(ctx context.Context, actor, id string, quantity int) (SKU, error) {
	if quantity < 0 {
		return SKU{}, ErrNegativeStock
	}
	var out SKU
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		before, err := Get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		out, err = scanSKU(tx.QueryRow(ctx,
			`UPDATE skus SET quantity=$2, updated_at=now() WHERE id=$1 RETURNING `+skuColumns, id, quantity))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionStockUpdate, audit.EntitySKU, id,
			map[string]any{"before": before.Quantity, "newQuantity": quantity})
	})
	return out, err
}

func (r *Repo) List(ctx context.Context, p ListParams) ([]SKU, int, error) {
	p.Page, p.PageSize = listing.Normalize(p.Page, p.PageSize, listing.DefaultPageSize)
	where, args := "", []any{}
	if p.Search != "" {
		args = append(args, listing.Contains(p.Search))
		where = `WHERE name ILIKE $1 ESCAPE '\' OR code ILIKE $1 ESCAPE '\' OR description ILIKE $1 ESCAPE '\'`
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM skus `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	col := listing.Column(p.SortBy, sortColumns, "created_at")
	args = append(args, p.PageSize, listing.Offset(p.Page, p.PageSize))
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`SELECT %s FROM skus %s ORDER BY %s %s NULLS LAST, id LIMIT $%d OFFSET $%d`,
		skuColumns, where, col, listing.Direction(p.Order), len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	out, err := collect(rows)
	return out, total, err
}

// Search returns up to 10 in-stock SKUs for the order form.
func (r *Repo) Search(ctx context.Context, query string) ([]SKU, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+skuColumns+` FROM skus
		WHERE (name ILIKE $1 ESCAPE '\' OR code ILIKE $1 ESCAPE '\') AND quantity > 0
		ORDER BY name LIMIT 10`, listing.Contains(query))
	if err != nil {
		return nil, err
	}
	return collect(rows)
}

// All returns every SKU; the catalogue is small enough for in-process
// aggregation.
func (r *Repo) All(ctx context.Context) ([]SKU, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+skuColumns+` FROM skus ORDER BY code`)
	if err != nil {
		return nil, err
	}
	return collect(rows)
}
