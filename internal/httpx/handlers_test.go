package httpx

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/ariefcatur/go-erp-dashboard/internal/analytics"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/oracle"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleManager)
	body := map[string]any{
		"customerName":  "Tyrell Corp",
		"customerEmail": "buyer@tyrell.io",
		"items":         []map[string]any{{"skuId": "sku-1", "quantity": 2}},
	}

	rec := f.do(t, http.MethodPost, "/orders", tok, body, "Idempotency-Key", "checkout-42", "X-Request-Id", "req-7")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out CreateOrderResp
	require.NoError(t, json.Unmarshal(parse(t, rec).Data, &out))
	assert.False(t, out.Idempotent)
	assert.Equal(t, "checkout-42", f.orders.placed.ExternalID)
	assert.Equal(t, "u-MANAGER", f.orders.placed.UserID)
	assert.Equal(t, "req-7", f.orders.traceID)

	f.orders.existed = true
	rec = f.do(t, http.MethodPost, "/orders", tok, body, "Idempotency-Key", "checkout-42")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(parse(t, rec).Data, &out))
	assert.True(t, out.Idempotent)
}

func TestCreateOrderRejections(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAdmin)

	rec := f.do(t, http.MethodPost, "/orders", tok, map[string]any{"customerName": "X", "customerEmail": "x@y.io"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", parse(t, rec).Fields["Items"])

	rec = f.do(t, http.MethodPost, "/orders", tok, map[string]any{
		"customerName": "X", "customerEmail": "x@y.io",
		"items": []map[string]any{{"skuId": "sku-1", "quantity": 0}},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "gt", parse(t, rec).Fields["Quantity"])

	f.orders.err = &orders.InsufficientStockError{SKUID: "sku-1", Name: "Ion Drive", Requested: 5, Available: 1}
	rec = f.do(t, http.MethodPost, "/orders", tok, map[string]any{
		"customerName": "X", "customerEmail": "x@y.io",
		"items": []map[string]any{{"skuId": "sku-1", "quantity": 5}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Insufficient stock for Ion Drive", parse(t, rec).Error)
}

func TestOrderStatus(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAdmin)

	rec := f.do(t, http.MethodPatch, "/orders/o-1/status", tok, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orders.StatusCompleted, f.orders.moved)

	rec = f.do(t, http.MethodPatch, "/orders/o-1/status", tok, map[string]string{"status": "SHIPPED"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/orders/o-1/status", tok, map[string]string{"status": "PENDING"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "invalid status transition", parse(t, rec).Error)
}

func TestGetOrderAndFinancials(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAnalyst)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/orders/o-1", tok, nil).Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/orders/o-2", tok, nil).Code)

	rec := f.do(t, http.MethodGet, "/orders/financials", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fin analytics.Financials
	require.NoError(t, json.Unmarshal(parse(t, rec).Data, &fin))
	assert.Equal(t, "25.00%", fin.NetMargin)
	assert.Equal(t, 4, fin.OrderCount)
}

func TestInventoryList(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/inventory?page=3&pageSize=5&search=ion&sortBy=margin&order=asc", f.token(t, users.RoleManager), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, f.skus.listed.Page)
	assert.Equal(t, 5, f.skus.listed.PageSize)
	assert.Equal(t, "ion", f.skus.listed.Search)
	assert.Equal(t, "margin", f.skus.listed.SortBy)

	r := parse(t, rec)
	var page listing.Page
	require.NoError(t, json.Unmarshal(r.Pagination, &page))
	assert.Equal(t, listing.Page{Total: 21, PageCount: 5, CurrentPage: 3, PageSize: 5}, page)

	var list []map[string]any
	require.NoError(t, json.Unmarshal(r.Data, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "25.00", list[0]["margin"])
	assert.Equal(t, "Ion Drive", list[0]["name"])
}

func TestInventoryWrites(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleManager)

	rec := f.do(t, http.MethodPost, "/inventory", tok, map[string]any{"code": "ION-1", "name": "Ion Drive", "sellPrice": "10", "costPrice": "4"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/inventory", tok, map[string]any{"name": "No Code"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "required", parse(t, rec).Fields["Code"])

	rec = f.do(t, http.MethodPatch, "/inventory/sku-1/stock", tok, map[string]any{"quantity": -1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "quantity cannot be negative", parse(t, rec).Error)

	rec = f.do(t, http.MethodPatch, "/inventory/sku-1/stock", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPatch, "/inventory/sku-1/stock", tok, map[string]any{"quantity": 0})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDuplicateClient(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodPost, "/clients", f.token(t, users.RoleManager), map[string]string{"name": "Acme", "email": "taken@acme.io"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Email already registered", parse(t, rec).Error)
}

func TestRevenueExport(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAnalyst)

	rec := f.do(t, http.MethodGet, "/revenue/export?startDate=2026-01-01&endDate=2026-03-31", tok, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="revenue-2026-10-18.xlsx"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "PK", rec.Body.String())

	rec = f.do(t, http.MethodGet, "/revenue?startDate=yesterday", tok, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuditFilter(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/audit?action=STOCK_UPDATE&endDate=2026-10-01", f.token(t, users.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "STOCK_UPDATE", f.trail.filter.Action)
	require.NotNil(t, f.trail.filter.EndDate)
	assert.Equal(t, 23, f.trail.filter.EndDate.Hour())
	assert.Equal(t, 1, f.trail.filter.Page)
}

func TestUsers(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAdmin)

	rec := f.do(t, http.MethodPost, "/users", tok, map[string]any{
		"name": "Ana", "email": "ana@nexis.io", "role": "ANALYST", "password": "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")

	rec = f.do(t, http.MethodPost, "/users", tok, map[string]any{
		"name": "Ana", "email": "ana@nexis.io", "role": "ROOT", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, map[string]string{"Role": "oneof", "Password": "min"}, parse(t, rec).Fields)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, "/users/system", tok, nil).Code)
	assert.Equal(t, http.StatusOK, f.do(t, http.MethodDelete, "/users/u-2", tok, nil).Code)
	assert.Equal(t, []string{"u-2"}, f.accounts.deleted)
}

func TestSettings(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAnalyst)

	assert.Equal(t, http.StatusOK, f.do(t, http.MethodGet, "/settings", tok, nil).Code)

	rec := f.do(t, http.MethodPut, "/settings", tok, map[string]any{"currency": "EUR"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-ANALYST", f.settings.actor)

	rec = f.do(t, http.MethodPut, "/settings", tok, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOracleAudit(t *testing.T) {
	f := newFixture(t)
	tok := f.token(t, users.RoleAnalyst)

	rec := f.do(t, http.MethodPost, "/oracle/audit", tok, map[string]string{"query": "how is revenue?"})
	require.Equal(t, http.StatusOK, rec.Code)
	var res oracle.Result
	require.NoError(t, json.Unmarshal(parse(t, rec).Data, &res))
	assert.Equal(t, oracle.TypeRevenue, res.Type)

	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPost, "/oracle/audit", f.token(t, users.RoleManager), map[string]string{"query": "q"}).Code)
}

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	rec := f.do(t, http.MethodGet, "/dashboard/stats", f.token(t, users.RoleAdmin), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var s analytics.DashboardStats
	require.NoError(t, json.Unmarshal(parse(t, rec).Data, &s))
	assert.Equal(t, 7, s.TotalClients)
	assert.Equal(t, int64(31), s.GrossMargin)
}
