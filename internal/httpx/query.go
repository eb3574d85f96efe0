package httpx

import (
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"net/http"
	"strconv"
	"time"
)

func queryInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func pageParams(r *http.Request) (int, int) {
	return listing.Normalize(queryInt(r, "page", 1), queryInt(r, "pageSize", listing.DefaultPageSize), listing.DefaultPageSize)
}

// dateRange reads startDate/endDate; endDate covers its whole day.
func dateRange(r *http.Request) (*time.Time, *time.Time, error) {
	q := r.URL.Query()
	from, to, err := listing.ParseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		return nil, nil, &validationError{Msg: "invalid date range", Fields: map[string]string{"date": "YYYY-MM-DD"}}
	}
	return from, to, nil
}
