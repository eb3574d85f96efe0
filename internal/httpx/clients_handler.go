package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/crm"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Clients interface {
	Create(ctx context.Context, actor string, in crm.Input) (crm.Client, error)
	Update(ctx context.Context, actor, id string, in crm.Input) (crm.Client, error)
	List(ctx context.Context, p crm.ListParams) ([]crm.Client, int, error)
	Search(ctx context.Context, query string) ([]crm.Client, error)
}

type ClientsHandler struct {
	Clients Clients
	Log     *logrus.Logger
}

func (h *ClientsHandler) Register(r chi.Router) {
	r.With(RequireSection(users.SectionClients, users.SectionOrders)).Get("/clients/search", h.search)
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionClients))
		r.Get("/clients", h.list)
		r.Post("/clients", h.create)
		r.Put("/clients/{id}", h.update)
	})
}

func (h *ClientsHandler) list(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	list, total, err := h.Clients.List(r.Context(), crm.ListParams{Page: page, PageSize: size, Search: r.URL.Query().Get("search")})
	if err != nil {
		writeError(w, r, h.Log, "listClients", "Failed to fetch clients.", err)
		return
	}
	okPage(w, list, listing.NewPage(total, page, size))
}

func (h *ClientsHandler) create(w http.ResponseWriter, r *http.Request) {
	var in crm.Input
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "createClient", "Failed to create client.", err)
		return
	}
	c, err := h.Clients.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, h.Log, "createClient", "Failed to create client.", err)
		return
	}
	ok(w, http.StatusCreated, c)
}

func (h *ClientsHandler) update(w http.ResponseWriter, r *http.Request) {
	var in crm.Input
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "updateClient", "Failed to update client.", err)
		return
	}
	c, err := h.Clients.Update(r.Context(), actor(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.Log, "updateClient", "Failed to update client.", err)
		return
	}
	ok(w, http.StatusOK, c)
}

func (h *ClientsHandler) search(w http.ResponseWriter, r *http.Request) {
	list, err := h.Clients.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, h.Log, "searchClients", "Search failed.", err)
		return
	}
	ok(w, http.StatusOK, list)
}
