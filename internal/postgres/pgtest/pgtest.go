// Package pgtest gives repository tests a private, migrated schema in the
// database named by POSTGRES_TEST_DSN. Tests skip when it is unset.
package pgtest

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
)

const EnvDSN = "POSTGRES_TEST_DSN"

// Open creates a schema, points a pool's search_path at it and applies the
// migrations. The schema is dropped when t finishes, so packages can run
// against one database in parallel.
func Open(t testing.TB) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv(EnvDSN)
	if dsn == "" {
		t.Skipf("%s not set", EnvDSN)
	}
	ctx := context.Background()
	schema := "test_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	admin, err := pgx.Connect(ctx, dsn)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)

	cfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
		_, _ = admin.Exec(ctx, "DROP SCHEMA "+schema+" CASCADE")
		_ = admin.Close(ctx)
	})
	require.NoError(t, postgres.Migrate(ctx, pool))
	return pool
}

// User inserts an account so orders and audit joins have an actor.
func User(t testing.TB, pool *pgxpool.Pool, id, role string) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO users(id, name, email, role, password) VALUES ($1, $2, $3, $4, 'x')`,
		id, "User "+id, id+"@nexis.test", role)
	require.NoError(t, err)
}

// AuditCount counts audit rows of action written for entityID.
func AuditCount(t testing.TB, pool *pgxpool.Pool, action, entityID string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM audit_logs WHERE action=$1 AND entity_id=$2`, action, entityID).Scan(&n)
	require.NoError(t, err)
	return n
}

// Quantity reads a SKU's stock straight from the table.
func Quantity(t testing.TB, pool *pgxpool.Pool, skuID string) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(), `SELECT quantity FROM skus WHERE id=$1`, skuID).Scan(&n)
	require.NoError(t, err)
	return n
}
