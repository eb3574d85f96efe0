package httpx

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/analytics"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
	"net/http"
	"time"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Analytics interface {
	DashboardStats(ctx context.Context, from, to *time.Time) (analytics.DashboardStats, error)
	RevenueAnalytics(ctx context.Context, p analytics.RevenueParams) (analytics.RevenueReport, error)
	ExportRevenue(ctx context.Context, from, to *time.Time) ([]byte, error)
}

type AnalyticsHandler struct {
	Analytics Analytics
	Log       *logrus.Logger
	Now       func() time.Time
}

func (h *AnalyticsHandler) Register(r chi.Router) {
	r.With(RequireSection(users.SectionOverview)).Get("/dashboard/stats", h.stats)
	r.Group(func(r chi.Router) {
		r.Use(RequireSection(users.SectionRevenue))
		r.Get("/revenue", h.revenue)
		r.Get("/revenue/export", h.export)
	})
}

func (h *AnalyticsHandler) stats(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, h.Log, "dashboardStats", "Failed to load dashboard.", err)
		return
	}
	s, err := h.Analytics.DashboardStats(r.Context(), from, to)
	if err != nil {
		writeError(w, r, h.Log, "dashboardStats", "Failed to load dashboard.", err)
		return
	}
	ok(w, http.StatusOK, s)
}

func (h *AnalyticsHandler) revenue(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, h.Log, "revenueAnalytics", "Failed to load revenue analytics.", err)
		return
	}
	q := r.URL.Query()
	rep, err := h.Analytics.RevenueAnalytics(r.Context(), analytics.RevenueParams{
		From: from, To: to,
		Page: queryInt(r, "page", 1), PageSize: queryInt(r, "pageSize", 0),
		SortBy: q.Get("sortBy"), Order: q.Get("order"),
	})
	if err != nil {
		writeError(w, r, h.Log, "revenueAnalytics", "Failed to load revenue analytics.", err)
		return
	}
	ok(w, http.StatusOK, rep)
}

func (h *AnalyticsHandler) export(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, r, h.Log, "exportRevenue", "Export failed.", err)
		return
	}
	b, err := h.Analytics.ExportRevenue(r.Context(), from, to)
	if err != nil {
		writeError(w, r, h.Log, "exportRevenue", "Export failed.", err)
		return
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="revenue-%s.xlsx"`, now.Format("2006-01-02")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}
