package analytics

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/listing"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"time"
)

type Source interface {
	Orders(ctx context.Context, from, to *time.Time, limit int) ([]OrderRow, error)
	Items(ctx context.Context, from, to *time.Time, limit int) ([]ItemRow, error)
	Quantities(ctx context.Context) ([]int, error)
	ClientCount(ctx context.Context) (int, error)
	Totals(ctx context.Context) (decimal.Decimal, decimal.Decimal, int, error)
}

// Ledger pages through orders with their items.
type Ledger interface {
	List(ctx context.Context, p orders.ListParams) ([]orders.Order, int, error)
}

// Cache is satisfied by redisx.StatsCache.
type Cache interface {
	Load(ctx context.Context, name string, out any) (gen int64, ok bool)
	Store(ctx context.Context, name string, gen int64, v any)
}

type Service struct {
	Source   Source
	Ledger   Ledger
	Cache    Cache
	LowStock int
	Location *time.Location
	Now      func() time.Time
}

type RevenueParams struct {
	From     *time.Time
	To       *time.Time
	Page     int
	PageSize int
	SortBy   string
	Order    string
}

type RevenuePagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
}

type RevenueReport struct {
	Categories   []Category        `json:"categories"`
	Monthly      []Month           `json:"monthly"`
	Transactions []orders.Order    `json:"transactions"`
	Pagination   RevenuePagination `json:"pagination"`
	Summary      Summary           `json:"summary"`
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

func cacheName(prefix string, from, to *time.Time) string {
	name := prefix
	for _, t := range []*time.Time{from, to} {
		name += ":"
		if t != nil {
			name += t.UTC().Format(time.RFC3339)
		}
	}
	return name
}

// DashboardStats loads orders, stock and the client count concurrently.
func (s *Service) DashboardStats(ctx context.Context, from, to *time.Time) (DashboardStats, error) {
	key := cacheName("stats", from, to)
	var (
		cached DashboardStats
		gen    int64 = -1
	)
	if s.Cache != nil {
		var hit bool
		if gen, hit = s.Cache.Load(ctx, key, &cached); hit {
			return cached, nil
		}
	}

	var (
		ords    []OrderRow
		qty     []int
		clients int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		ords, err = s.Source.Orders(gctx, from, to, 0)
		return err
	})
	g.Go(func() (err error) {
		qty, err = s.Source.Quantities(gctx)
		return err
	})
	g.Go(func() (err error) {
		clients, err = s.Source.ClientCount(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return DashboardStats{}, err
	}

	stats := BuildDashboard(ords, qty, clients, s.LowStock, s.now(), s.loc())
	if s.Cache != nil {
		s.Cache.Store(ctx, key, gen, stats)
	}
	return stats, nil
}

// RevenueAnalytics aggregates the whole range and pages the ledger.
func (s *Service) RevenueAnalytics(ctx context.Context, p RevenueParams) (RevenueReport, error) {
	p.Page, p.PageSize = listing.Normalize(p.Page, p.PageSize, 15)

	var (
		all   []OrderRow
		items []ItemRow
		page  []orders.Order
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		all, err = s.Source.Orders(gctx, p.From, p.To, 0)
		return err
	})
	g.Go(func() (err error) {
		items, err = s.Source.Items(gctx, p.From, p.To, 0)
		return err
	})
	g.Go(func() (err error) {
		sortBy := p.SortBy
		if sortBy == "" {
			sortBy = "createdAt"
		}
		page, total, err = s.Ledger.List(gctx, orders.ListParams{
			Page: p.Page, PageSize: p.PageSize, SortBy: sortBy, Order: p.Order,
			StartDate: p.From, EndDate: p.To,
		})
		return err
	})
	if err := g.Wait(); err != nil {
		return RevenueReport{}, err
	}

	return RevenueReport{
		Categories:   Categories(items),
		Monthly:      Monthly(all, s.loc()),
		Transactions: page,
		Pagination: RevenuePagination{
			Total:       total,
			Pages:       listing.PageCount(total, p.PageSize),
			CurrentPage: p.Page,
		},
		Summary: SummaryOf(all),
	}, nil
}

func (s *Service) Financials(ctx context.Context) (Financials, error) {
	sales, cost, n, err := s.Source.Totals(ctx)
	if err != nil {
		return Financials{}, err
	}
	return FinancialsOf(sales, cost, n), nil
}
