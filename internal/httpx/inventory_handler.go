package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Catalogue interface {
	Create(ctx context.Context, actor string, in inventory.Input) (inventory.SKU, error)
	Update(ctx context.Context, actor, id string, in inventory.Input) (inventory.SKU, error)
	UpdateStock(ctx context.Context, actor, id string, quantity int) (inventory.SKU, error)
	List(ctx context.Context, p inventory.ListParams) ([]inventory.SKU, int, error)
	Search(ctx context.Context, query string) ([]inventory.SKU, error)
}

type InventoryHandler struct {
	SKUs Catalogue
	Log  *logrus.Logger
}

type stockReq struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// skuView adds the derived margin to the stored row.
type skuView struct {
	inventory.SKU
	Margin string `json:"margin"`
}

func views(list []inventory.SKU) []skuView {
	out := make([]skuView, len(list))
	for i, s := range list {
		out[i] = skuView{SKU: s, Margin: s.Margin().StringFixed(2)}
	}
	return out
}

func (h *InventoryHandler) Register(r chi.Router) {
	r.With(RequireSection(users.SectionInventory, users.SectionOrders)).Get("/inventory/search", h.search)
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionInventory))
		r.Get("/inventory", h.list)
		r.Post("/inventory", h.create)
		r.Put("/inventory/{id}", h.update)
		r.Patch("/inventory/{id}/stock", h.updateStock)
	})
}

func (h *InventoryHandler) list(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	q := r.URL.Query()
	list, total, err := h.SKUs.List(r.Context(), inventory.ListParams{
		Page: page, PageSize: size, Search: q.Get("search"), SortBy: q.Get("sortBy"), Order: q.Get("order"),
	})
	if err != nil {
		writeError(w, r, h.Log, "listSKUs", "Failed to fetch inventory.", err)
		return
	}
	okPage(w, views(list), listing.NewPage(total, page, size))
}

func (h *InventoryHandler) create(w http.ResponseWriter, r *http.Request) {
	var in inventory.Input
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "createSKU", "Failed to create product.", err)
		return
	}
	s, err := h.SKUs.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, h.Log, "createSKU", "Failed to create product.", err)
		return
	}
	ok(w, http.StatusCreated, views([]inventory.SKU{s})[0])
}

func (h *InventoryHandler) update(w http.ResponseWriter, r *http.Request) {
	var in inventory.Input
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "updateSKU", "Failed to update product.", err)
		return
	}
	s, err := h.SKUs.Update(r.Context(), actor(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.Log, "updateSKU", "Failed to update product.", err)
		return
	}
	ok(w, http.StatusOK, views([]inventory.SKU{s})[0])
}

func (h *InventoryHandler) updateStock(w http.ResponseWriter, r *http.Request) {
	var req stockReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.Log, "updateStock", "Failed to update stock.", err)
		return
	}
	s, err := h.SKUs.UpdateStock(r.Context(), actor(r), chi.URLParam(r, "id"), *req.Quantity)
	if err != nil {
		writeError(w, r, h.Log, "updateStock", "Failed to update stock.", err)
		return
	}
	ok(w, http.StatusOK, views([]inventory.SKU{s})[0])
}

func (h *InventoryHandler) search(w http.ResponseWriter, r *http.Request) {
	list, err := h.SKUs.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.Log, "searchSKUs", "Search failed.", err)
		return
	}
	ok(w, http.StatusOK, list)
}
