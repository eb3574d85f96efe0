package httpx

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"net/http"
	"time"
)

// Registrar mounts a group of routes.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter mounts public routes as they are and the rest behind bearer
// authentication.
func NewRouter(log *logrus.Logger, tokens TokenParser, public []Registrar, protected ...Registrar) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, AccessLog(log), middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		fail(w, http.StatusNotFound, "not found")
	})

	for _, reg := range public {
		reg.Register(r)
	}
	r.Group(func(r chi.Router) {
		r.Use(Authenticate(tokens))
		for _, reg := range protected {
			reg.Register(r)
		}
	})
	return r
}
