package httpx

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"net/http"
	"strings"
	"time"
)

type ctxKey int

const ctxKeyClaims ctxKey = iota

type TokenParser interface {
	Parse(token string) (*users.Claims, error)
}

func requestID(r *http.Request) string {
	return middleware.GetReqID(r.Context())
}

// AccessLog writes one entry per request once the handler returns.
func AccessLog(log *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			log.WithFields(logrus.Fields{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     status,
				"bytes":      ww.BytesWritten(),
				"latency_ms": float64(time.Since(start).Microseconds()) / 1000.0,
				"request_id": requestID(r),
			}).Info("http_request")
		})
	}
}

// Authenticate rejects requests without a valid bearer token and stores
// the token claims in the request context.
func Authenticate(tokens TokenParser) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !found || raw == "" {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			claims, err := tokens.Parse(raw)
			if err != nil {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKeyClaims, claims)))
		})
	}
}

// RequireSection lets through callers whose role or permissions grant
// any of the given sections.
func RequireSection(sections ...users.Section) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c := claimsFrom(r.Context())
			if c == nil {
				fail(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			for _, s := range sections {
				if c.Can(s) {
					next.ServeHTTP(w, r)
					return
				}
			}
			fail(w, http.StatusForbidden, "forbidden")
		})
	}
}

func claimsFrom(ctx context.Context) *users.Claims {
	c, _ := ctx.Value(ctxKeyClaims).(*users.Claims)
	return c
}

// actor is the id of the authenticated user, recorded on audit entries.
func actor(r *http.Request) string {
	if c := claimsFrom(r.Context()); c != nil {
		return c.ID
	}
	return ""
}
