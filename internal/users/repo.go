package users

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, role, password, permissions, created_at, updated_at`

type Repo struct{ DB *pgxpool.Pool }

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.Password, &u.Permissions, &u.CreatedAt, &u.UpdatedAt)
	if u.Permissions == nil {
		u.Permissions = []string{}
	}
	return u, err
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case postgres.ForeignKeyViolation(err):
		return ErrInUse
	}
	if _, ok := postgres.UniqueViolation(err); ok {
		return ErrDuplicateEmail
	}
	return err
}

func get(ctx context.Context, q postgres.Querier, cond string, arg any, forUpdate bool) (User, error) {
	sql := `SELECT ` + userColumns + ` FROM users WHERE ` + cond
	if forUpdate {
		sql += ` FOR UPDATE`
	}
	u, err := scanUser(q.QueryRow(ctx, sql, arg))
	return u, mapErr(err)
}

func (r *Repo) Get(ctx context.Context, id string) (User, error) {
	return get(ctx, r.DB, `id=$1`, id, false)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (User, error) {
	return get(ctx, r.DB, `lower(email)=lower($1)`, email, false)
}

func (r *Repo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Create stores u (Password already hashed). An empty ID gets a new uuid.
func (r *Repo) Create(ctx context.Context, actor string, u User) (User, error) {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	var out User
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var err error
		out, err = scanUser(tx.QueryRow(ctx, `
			INSERT INTO users(id, name, email, role, password, permissions) VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.Role, u.Password, u.Permissions))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionUserCreate, audit.EntityUser, out.ID, map[string]any{
			"name":        out.Name,
			"email":       out.Email,
			"role":        out.Role,
			"permissions": out.Permissions,
		})
	})
	return out, err
}

// Update rewrites the profile; the password only changes when u.Password
// is non-empty.
func (r *Repo) Update(ctx context.Context, actor string, u User) (User, error) {
	var out User
	err := postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		before, err := get(ctx, tx, `id=$1`, u.ID, true)
		if err != nil {
			return err
		}
		out, err = scanUser(tx.QueryRow(ctx, `
			UPDATE users SET name=$2, email=$3, role=$4, permissions=$5,
			       password=COALESCE(NULLIF($6, ''), password), updated_at=now()
			WHERE id=$1
			RETURNING `+userColumns,
			u.ID, u.Name, u.Email, u.Role, u.Permissions, u.Password))
		if err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionUserUpdate, audit.EntityUser, u.ID,
			audit.Change{Before: before, After: out})
	})
	return out, err
}

func (r *Repo) Delete(ctx context.Context, actor, id string) error {
	return postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		before, err := get(ctx, tx, `id=$1`, id, true)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, id); err != nil {
			return mapErr(err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionUserDelete, audit.EntityUser, id,
			map[string]any{"before": before})
	})
}
