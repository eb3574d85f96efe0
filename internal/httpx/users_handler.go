package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Accounts interface {
	List(ctx context.Context) ([]users.User, error)
	Create(ctx context.Context, actor string, in users.CreateInput) (users.User, error)
	Update(ctx context.Context, actor, id string, in users.UpdateInput) (users.User, error)
	Delete(ctx context.Context, actor, id string) error
}

type UsersHandler struct {
	Users Accounts
	Log   *logrus.Logger
}

func (h *UsersHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionUsers))
		r.Get("/users", h.list)
		r.Post("/users", h.create)
		r.Put("/users/{id}", h.update)
		r.Delete("/users/{id}", h.remove)
	})
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, r, h.Log, "listUsers", "Failed to fetch users.", err)
		return
	}
	ok(w, http.StatusOK, list)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var in users.CreateInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "createUser", "Failed to create user.", err)
		return
	}
	u, err := h.Users.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, h.Log, "createUser", "Failed to create user.", err)
		return
	}
	ok(w, http.StatusCreated, u)
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	var in users.UpdateInput
	if err := decode(r, &in); err != nil {
		writeError(w, r, h.Log, "updateUser", "Failed to update user.", err)
		return
	}
	u, err := h.Users.Update(r.Context(), actor(r), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, h.Log, "updateUser", "Failed to update user.", err)
		return
	}
	ok(w, http.StatusOK, u)
}

func (h *UsersHandler) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), actor(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, h.Log, "deleteUser", "Failed to delete user.", err)
		return
	}
	ok(w, http.StatusOK, map[string]string{"message": "User deleted."})
}
