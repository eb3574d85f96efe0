package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type AuditTrail interface {
	List(ctx context.Context, f audit.Filter) ([]audit.Entry, int, error)
	Actions(ctx context.Context) ([]string, error)
}

type AuditHandler struct {
	Trail AuditTrail
	Log   *logrus.Logger
}

func (h *AuditHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionAudit))
		r.Get("/audit", h.list)
		r.Get("/audit/actions", h.actions)
	})
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, h.Log, "listAudit", "Failed to fetch audit logs.", err)
		return
	}
	page, size := pageParams(r)
	list, total, err := h.Trail.List(r.Context(), audit.Filter{
		Page: page, PageSize: size, Action: r.URL.Query().Get("action"), StartDate: from, EndDate: to,
	})
	if err != nil {
		writeError(w, r, h.Log, "listAudit", "Failed to fetch audit logs.", err)
		return
	}
	okPage(w, list, listing.NewPage(total, page, size))
}

func (h *AuditHandler) actions(w http.ResponseWriter, r *http.Request) {
	list, err := h.Trail.Actions(r.Context())
	if err != nil {
		writeError(w, r, h.Log, "auditActions", "Failed to fetch actions.", err)
		return
	}
	ok(w, http.StatusOK, list)
}
