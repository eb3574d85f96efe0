package httpx

import (
	"encoding/json"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/crm"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/settings"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/sirupsen/logrus"
	"net/http"
)

type envelope struct {
	Success    bool              `json:"success"`
	Data       any               `json:"data,omitempty"`
	Pagination any               `json:"pagination,omitempty"`
	Error      string            `json:"error,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, code int, data any) {
	writeJSON(w, code, envelope{Success: true, Data: data})
}

func okPage(w http.ResponseWriter, data, pagination any) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Data: data, Pagination: pagination})
}

func fail(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, envelope{Error: msg})
}

// statusOf maps domain errors onto HTTP codes. Zero means unexpected.
func statusOf(err error) int {
	var stock *orders.InsufficientStockError
	switch {
	case errors.As(err, &stock), errors.Is(err, orders.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inventory.ErrNotFound), errors.Is(err, crm.ErrNotFound),
		errors.Is(err, orders.ErrNotFound), errors.Is(err, users.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrDuplicateCode), errors.Is(err, crm.ErrDuplicateEmail),
		errors.Is(err, users.ErrDuplicateEmail), errors.Is(err, users.ErrInUse):
		return http.StatusConflict
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, users.ErrProtected):
		return http.StatusForbidden
	case errors.Is(err, inventory.ErrNegativeStock), errors.Is(err, inventory.ErrNegativePrice),
		errors.Is(err, crm.ErrInvalidPhone), errors.Is(err, orders.ErrNoItems),
		errors.Is(err, users.ErrUnknownSection),
		errors.Is(err, settings.ErrNoFields), errors.Is(err, settings.ErrInvalidKey):
		return http.StatusBadRequest
	}
	return 0
}

// writeError answers with the domain message when the error is known and
// with fallback otherwise. Unknown errors are logged.
func writeError(w http.ResponseWriter, r *http.Request, log *logrus.Logger, funcName, fallback string, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, envelope{Error: verr.Error(), Fields: verr.Fields})
		return
	}
	if code := statusOf(err); code != 0 {
		fail(w, code, err.Error())
		return
	}
	config.LogError(log, "httpx", funcName, r.Method+" "+r.URL.Path, requestID(r), err)
	fail(w, http.StatusInternalServerError, fallback)
}
