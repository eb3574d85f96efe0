package audit

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ariefcatur/go-erp-dashboard/internal/postgres/pgtest"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	sql  string
	args []any
}

type recordingQuerier struct{ calls []execCall }

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.calls = append(q.calls, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row       { return nil }

func TestRecordDefaultsToSystemActor(t *testing.T) {
	q := &recordingQuerier{}
	err := Record(context.Background(), q, "", ActionStockUpdate, EntitySKU, "sku-1", map[string]int{"newQuantity": 4})
	require.NoError(t, err)
	require.Len(t, q.calls, 1)

	args := q.calls[0].args
	require.Len(t, args, 6)
	require.Equal(t, SystemUser, args[1])
	require.Equal(t, ActionStockUpdate, args[2])
	require.Equal(t, EntitySKU, args[3])
	require.Equal(t, "sku-1", args[4])
	require.JSONEq(t, `{"newQuantity":4}`, string(args[5].([]byte)))
}

func TestRecordChangeSnapshot(t *testing.T) {
	q := &recordingQuerier{}
	change := Change{Before: map[string]string{"status": "PENDING"}, After: map[string]string{"status": "COMPLETED"}}
	require.NoError(t, Record(context.Background(), q, "u-1", ActionOrderStatusUpdate, EntityOrder, "o-1", change))

	var got map[string]map[string]string
	require.NoError(t, json.Unmarshal(q.calls[0].args[5].([]byte), &got))
	require.Equal(t, "PENDING", got["before"]["status"])
	require.Equal(t, "COMPLETED", got["after"]["status"])
	require.Equal(t, "u-1", q.calls[0].args[1])
}

func TestRecordRejectsUnmarshalableMetadata(t *testing.T) {
	q := &recordingQuerier{}
	err := Record(context.Background(), q, "u-1", ActionUserUpdate, EntityUser, "x", map[string]any{"ch": make(chan int)})
	require.Error(t, err)
	require.Empty(t, q.calls)
}

func TestListEmptyAndPaged(t *testing.T) {
	pool := pgtest.Open(t)
	pgtest.User(t, pool, "u-1", "ADMIN")
	repo := &Repo{DB: pool}
	ctx := context.Background()

	list, total, err := repo.List(ctx, Filter{})
	require.NoError(t, err)
	assert.Zero(t, total)
	require.NotNil(t, list)
	b, err := json.Marshal(list)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(b))

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Record(ctx, "u-1", ActionStockUpdate, EntitySKU, "sku-1", map[string]int{"newQuantity": i}))
	}
	require.NoError(t, repo.Record(ctx, "", ActionLowStockAlert, EntitySKU, "sku-1", nil))

	list, total, err = repo.List(ctx, Filter{Page: 0, PageSize: 2, Action: ActionStockUpdate})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, list, 2, "page 0 is read as page 1")
	require.NotNil(t, list[0].User)
	assert.Equal(t, "ADMIN", list[0].User.Role)

	list, _, err = repo.List(ctx, Filter{Action: ActionLowStockAlert})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, SystemUser, list[0].UserID)
	assert.Nil(t, list[0].User)

	actions, err := repo.Actions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{ActionLowStockAlert, ActionStockUpdate}, actions)
}
