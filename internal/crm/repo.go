package crm

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"strconv"
)

const clientColumns = `id, name, email, COALESCE(phone, ''), COALESCE(address, ''), created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func mapErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if _, ok := postgres.UniqueViolation(err); ok {
		return ErrDuplicateEmail
	}
	return err
}

func Get(ctx context.Context, q postgres.Querier, id string) (Client, error) {
	c, err := scanClient(q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id=$1`, id))
	return c, mapErr(err)
}

func (r *Repo) Get(ctx context.Context, id string) (Client, error) {
	return Get(ctx, r.DB, id)
}

func (r *Repo) Create(ctx context.Context, actor string, in Input) (Client, error) {
	var out Client
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		out, err = scanClient(tx.QueryRow(ctx, `
			INSERT INTO clients(id, name, email, phone, address) VALUES ($1, $2, $3, $4, $5)
			RETURNING `+clientColumns,
			uuid.NewString(), in.Name, in.Email, in.Phone, in.Address))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionClientCreate, audit.EntityClient, out.ID,
			map[string]any{"client": out})
	})
	return out, err
}

func (r *Repo) Update(ctx context.Context, actor, id string, in Input) (Client, error) {
	var out Client
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		before, err := Get(ctx, tx, id)
		if err != nil {
			return err
		}
		out, err = scanClient(tx.QueryRow(ctx, `
			UPDATE clients SET name=$2, email=$3, phone=$4, address=$5, updated_at=now()
			WHERE id=$1 RETURNING `+clientColumns,
			id, in.Name, in.Email, in.Phone, in.Address))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionClientUpdate, audit.EntityClient, id,
			audit.Change{Before: before, After: out})
	})
	return out, err
}

// List returns clients by name with order count and lifetime value.
func (r *Repo) List(ctx context.Context, p ListParams) ([]Client, int, error) {
	p.Page, p.PageSize = listing.Normalize(p.Page, p.PageSize, listing.DefaultPageSize)
	where, args := "", []any{}
	if p.Search != "" {
		args = append(args, listing.Contains(p.Search))
		where = `WHERE c.name ILIKE $1 ESCAPE '\' OR c.email ILIKE $1 ESCAPE '\' OR c.phone ILIKE $1 ESCAPE '\'`
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM clients c `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.PageSize, listing.Offset(p.Page, p.PageSize))
	n := len(args)
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.name, c.email, COALESCE(c.phone, ''), COALESCE(c.address, ''), c.created_at, c.updated_at,
		       COUNT(o.id), COALESCE(SUM(o.total_sales), 0)
		FROM clients c
		LEFT JOIN orders o ON o.client_id = c.id
		`+where+`
		GROUP BY c.id
		ORDER BY c.name ASC
		LIMIT $`+strconv.Itoa(n-1)+` OFFSET $`+strconv.Itoa(n), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Client{}
	for rows.Next() {
		var c Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt,
			&c.OrderCount, &c.LTV); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

func (r *Repo) Search(ctx context.Context, query string) ([]Client, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE name ILIKE $1 ESCAPE '\' OR email ILIKE $1 ESCAPE '\' OR phone ILIKE $1 ESCAPE '\'
		ORDER BY name LIMIT 5`, listing.Contains(query))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
