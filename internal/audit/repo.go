package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"strings"
)

type Repo struct{ DB *pgxpool.Pool }

// Record appends an entry through q, which is normally the transaction
// carrying the audited mutation.
func Record(ctx context.Context, q postgres.Querier, userID, action, entityType, entityID string, metadata any) error {
	if userID == "" {
		userID = SystemUser
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO audit_logs(id, user_id, action, entity_type, entity_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.NewString(), userID, action, entityType, entityID, b,
	)
	if err != nil {
		return fmt.Errorf("insert audit log %s: %w", action, err)
	}
	return nil
}

func (r *Repo) Record(ctx context.Context, userID, action, entityType, entityID string, metadata any) error {
	return Record(ctx, r.DB, userID, action, entityType, entityID, metadata)
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Entry, int, error) {
	f.Page, f.PageSize = listing.Normalize(f.Page, f.PageSize, listing.DefaultPageSize)
	var (
		conds []string
		args  []any
	)
	if f.Action != "" && f.Action != "ALL" {
		args = append(args, f.Action)
		conds = append(conds, fmt.Sprintf("a.action = $%d", len(args)))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		conds = append(conds, fmt.Sprintf("a.created_at >= $%d", len(args)))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		conds = append(conds, fmt.Sprintf("a.created_at <= $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.DB.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs a `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.PageSize, listing.Offset(f.Page, f.PageSize))
	rows, err := r.DB.Query(ctx, fmt.Sprintf(`
		SELECT a.id, a.user_id, a.action, a.entity_type, a.entity_id, a.metadata, a.created_at,
		       u.name, u.role, u.email
		FROM audit_logs a
		LEFT JOIN users u ON u.id = a.user_id
		%s
		ORDER BY a.created_at DESC
		LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args)), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var (
			e                 Entry
			name, role, email *string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Metadata, &e.CreatedAt,
			&name, &role, &email); err != nil {
			return nil, 0, err
		}
		if name != nil {
			e.User = &Actor{Name: *name, Role: deref(role), Email: deref(email)}
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Recent returns the newest n entries without user details.
func (r *Repo) Recent(ctx context.Context, n int) ([]Entry, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, action, entity_type, entity_id, metadata, created_at
		FROM audit_logs ORDER BY created_at DESC LIMIT $1`, n)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID, &e.Metadata, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repo) Actions(ctx context.Context) ([]string, error) {
	rows, err := r.DB.Query(ctx, `SELECT DISTINCT action FROM audit_logs ORDER BY action`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
