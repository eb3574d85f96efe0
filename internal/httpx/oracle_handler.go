package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/oracle"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
)

type Auditor interface {
	Audit(ctx context.Context, query string) oracle.Result
}

type OracleHandler struct {
	Oracle Auditor
	Log    *logrus.Logger
}

type auditReq struct {
	Query string `json:"query" validate:"required,max=4000"`
}

func (h *OracleHandler) Register(r chi.Router) {
	r.With(RequireSection(users.SectionOracle)).Post("/oracle/audit", h.audit)
}

// audit always answers 200: provider problems are reported inside the
// result with type "error".
func (h *OracleHandler) audit(w http.ResponseWriter, r *http.Request) {
	var req auditReq
	if err := decode(r, &req); err != nil {
		writeError(w, r, h.Log, "oracleAudit", "Audit failed.", err)
		return
	}
	ok(w, http.StatusOK, h.Oracle.Audit(r.Context(), req.Query))
}
