package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/analytics"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
	"strings"
)

type Orders interface {
	Place(ctx context.Context, in orders.CreateInput, traceID string) (orders.Order, bool, error)
	Get(ctx context.Context, id string) (orders.Order, error)
	List(ctx context.Context, p orders.ListParams) ([]orders.Order, int, error)
	ChangeStatus(ctx context.Context, actor, id string, to orders.Status, traceID string) (orders.Order, error)
}

type Financials interface {
	Financials(ctx context.Context) (analytics.Financials, error)
}

type OrdersHandler struct {
	Orders     Orders
	Financials Financials
	Log        *logrus.Logger
}

type CreateOrderResp struct {
	Order      orders.Order `json:"order"`
	Idempotent bool         `json:"idempotent"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

func (h *OrdersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionOrders))
		r.Get("/orders", h.list)
		r.Post("/orders", h.createOrder)
		r.Get("/orders/financials", h.financials)
		r.Get("/orders/{id}", h.getOrder)
		r.Patch("/orders/{id}/status", h.updateStatus)
	})
}

// createOrder treats the Idempotency-Key header as the order's external id.
func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.CreateInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "createOrder", "Failed to process order.", err)
		return
	}
	in.ExternalID = strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	in.UserID = actor(r)

	o, existed, err := h.Orders.Place(r.Context(), in, requestID(r))
	if err != nil {
		writeError(w, r, h.Log, "createOrder", "Failed to process order.", err)
		return
	}
	code := http.StatusCreated
	if existed {
		code = http.StatusOK
	}
	ok(w, code, CreateOrderResp{Order: o, Idempotent: existed})
}

func (h *OrdersHandler) list(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, h.Log, "listOrders", "Failed to fetch orders.", err)
		return
	}
	page, size := pageParams(r)
	q := r.URL.Query()
	list, total, err := h.Orders.List(r.Context(), orders.ListParams{
		Page: page, PageSize: size, SortBy: q.Get("sortBy"), Order: q.Get("order"),
		Status: q.Get("status"), StartDate: from, EndDate: to,
	})
	if err != nil {
		writeError(w, r, h.Log, "listOrders", "Failed to fetch orders.", err)
		return
	}
	okPage(w, list, listing.NewPage(total, page, size))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Orders.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, h.Log, "getOrder", "Failed to fetch order.", err)
		return
	}
	ok(w, http.StatusOK, o)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req statusReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.Log, "updateOrderStatus", "Failed to update order.", err)
		return
	}
	st, valid := orders.ParseStatus(req.Status)
	if !valid {
		writeError(w, r, h.Log, "updateOrderStatus", "Failed to update order.",
			&validationError{Msg: "validation failed", Fields: map[string]string{"Status": "oneof"}})
		return
	}
	o, err := h.Orders.ChangeStatus(r.Context(), actor(r), chi.URLParam(r, "id"), st, requestID(r))
	if err != nil {
		writeError(w, r, h.Log, "updateOrderStatus", "Failed to update order.", err)
		return
	}
	ok(w, http.StatusOK, o)
}

func (h *OrdersHandler) financials(w http.ResponseWriter, r *http.Request) {
	f, err := h.Financials.Financials(r.Context())
	if err != nil {
		writeError(w, r, h.Log, "financials", "Failed to compute financials.", err)
		return
	}
	ok(w, http.StatusOK, f)
}
