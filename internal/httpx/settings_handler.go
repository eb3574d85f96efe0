package httpx

import (
	"context"
	"encoding/json"
	"github.com/ariefcatur/go-erp-dashboard/internal/settings"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Settings interface {
	Get(ctx context.Context) (settings.Settings, error)
	Update(ctx context.Context, actor string, fields map[string]any) (settings.Settings, error)
}

type SettingsHandler struct {
	Settings Settings
	Log      *logrus.Logger
}

func (h *SettingsHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionSettings))
		r.Get("/settings", h.get)
		r.Put("/settings", h.update)
	})
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		writeError(w, r, h.Log, "getSettings", "Failed to load configuration.", err)
		return
	}
	ok(w, http.StatusOK, s)
}

func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, r, h.Log, "updateSettings", "Configuration sync failed.", &validationError{Msg: "invalid json"})
		return
	}
	s, err := h.Settings.Update(r.Context(), actor(r), fields)
	if err != nil {
		writeError(w, r, h.Log, "updateSettings", "Configuration sync failed.", err)
		return
	}
	ok(w, http.StatusOK, s)
}
