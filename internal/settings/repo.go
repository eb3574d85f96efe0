package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"time"
)

type Repo struct{ DB *pgxpool.Pool }

// Get returns the stored settings, or an empty set before the first update.
func (r *Repo) Get(ctx context.Context) (Settings, error) {
	var (
		raw []byte
		s   Settings
	)
	err := r.DB.QueryRow(ctx, `SELECT "values", updated_at FROM system_settings WHERE id = $1`, GlobalID).
		Scan(&raw, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Settings{Values: map[string]any{}}, nil
	}
	if err != nil {
		return Settings{}, err
	}
	if err := json.Unmarshal(raw, &s.Values); err != nil {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Update merges fields into the stored object; keys not named keep their value.
func (r *Repo) Update(ctx context.Context, actor string, fields map[string]any) (Settings, error) {
	patch, err := json.Marshal(fields)
	if err != nil {
		return Settings{}, fmt.Errorf("encode settings: %w", err)
	}

	var s Settings
	err = postgres.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		var raw []byte
		if err := tx.QueryRow(ctx, `
			INSERT INTO system_settings AS s (id, "values", updated_at) VALUES ($1, $2, now())
			ON CONFLICT (id) DO UPDATE SET "values" = s."values" || EXCLUDED."values", updated_at = now()
			RETURNING "values", updated_at`, GlobalID, patch).Scan(&raw, &s.UpdatedAt); err != nil {
			return err
		}
		if err := json.Unmarshal(raw, &s.Values); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		return audit.Record(ctx, tx, actor, audit.ActionSystemSettingsUpdate, audit.EntitySystem, GlobalID, auditPayload{
			UpdatedFields: fields,
			Timestamp:     s.UpdatedAt.UTC().Format(time.RFC3339Nano),
			Status:        statusCommitted,
		})
	})
	if err != nil {
		return Settings{}, err
	}
	return s, nil
}
