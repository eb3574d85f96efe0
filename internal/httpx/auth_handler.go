package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Authenticator interface {
	Login(ctx context.Context, email, password string) (users.Session, error)
}

type AuthHandler struct {
	Users Authenticator
	Log   *logrus.Logger
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Register(r chi.Router) {
	r.Post("/auth/login", h.login)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.Log, "login", "Authentication failed.", err)
		return
	}
	s, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.Log, "login", "Authentication failed.", err)
		return
	}
	ok(w, http.StatusOK, s)
}
