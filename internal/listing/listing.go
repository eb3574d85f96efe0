// Package listing holds the paging, sorting and date-range conventions
// shared by every list endpoint.
package listing

import (
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

type Page struct {
	Total       int `json:"total"`
	PageCount   int `json:"pageCount"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

// Normalize clamps page to >= 1 and size to (0, MaxPageSize], falling back
// to def when size is unset.
func Normalize(page, size, def int) (int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = def
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size
}

func Offset(page, size int) int { return (page - 1) * size }

func NewPage(total, page, size int) Page {
	return Page{Total: total, PageCount: PageCount(total, size), CurrentPage: page, PageSize: size}
}

func PageCount(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Contains turns user input into an ILIKE substring pattern. Use it with
// ESCAPE '\' so % and _ in the input match literally.
func Contains(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// Direction returns "ASC" only for an explicit asc, else "DESC".
func Direction(order string) string {
	if strings.EqualFold(order, "asc") {
		return "ASC"
	}
	return "DESC"
}

// Column resolves a business sort key through a whitelist.
func Column(sortBy string, mapping map[string]string, def string) string {
	if c, ok := mapping[sortBy]; ok {
		return c
	}
	return def
}

// ParseRange reads YYYY-MM-DD (or RFC3339) bounds. The end bound covers
// the whole day.
func ParseRange(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		t, err := parseDate(start)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if end != "" {
		t, err := parseDate(end)
		if err != nil {
			return nil, nil, err
		}
		t = EndOfDay(t)
		to = &t
	}
	return from, to, nil
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
