package oracle

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/analytics"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"strings"
	"time"
)

// FatalReport replaces the report when any source fails.
const FatalReport = "FATAL: Enterprise data stream corrupted."

const (
	sampleOrders = 100
	sampleItems  = 200
	sampleAudit  = 15
	listLimit    = 5
)

type Data interface {
	Orders(ctx context.Context, from, to *time.Time, limit int) ([]analytics.OrderRow, error)
	Items(ctx context.Context, from, to *time.Time, limit int) ([]analytics.ItemRow, error)
	Customers(ctx context.Context) ([]analytics.CustomerActivity, error)
	ClientCount(ctx context.Context) (int, error)
}

type Catalogue interface {
	All(ctx context.Context) ([]inventory.SKU, error)
}

type Activity interface {
	Recent(ctx context.Context, n int) ([]audit.Entry, error)
}

// Reporter gathers the business snapshot the model is asked to reason on.
type Reporter struct {
	Data      Data
	Catalogue Catalogue
	Activity  Activity
	LowStock  int
	Now       func() time.Time
}

type snapshot struct {
	orders    []analytics.OrderRow
	items     []analytics.ItemRow
	customers []analytics.CustomerActivity
	clients   int
	skus      []inventory.SKU
	recent    []audit.Entry
}

func (r *Reporter) load(ctx context.Context) (snapshot, error) {
	var s snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		s.orders, err = r.Data.Orders(gctx, nil, nil, sampleOrders)
		return err
	})
	g.Go(func() (err error) {
		s.items, err = r.Data.Items(gctx, nil, nil, sampleItems)
		return err
	})
	g.Go(func() (err error) {
		s.customers, err = r.Data.Customers(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.clients, err = r.Data.ClientCount(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.skus, err = r.Catalogue.All(gctx)
		return err
	})
	g.Go(func() (err error) {
		s.recent, err = r.Activity.Recent(gctx, sampleAudit)
		return err
	})
	return s, g.Wait()
}

// Build returns the report text, or FatalReport and the cause.
func (r *Reporter) Build(ctx context.Context) (string, error) {
	s, err := r.load(ctx)
	if err != nil {
		return FatalReport, err
	}
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	return render(s, r.LowStock, now), nil
}

func render(s snapshot, lowThreshold int, now time.Time) string {
	sales, cost := analytics.Totals(s.orders)
	profit := sales.Sub(cost)

	var low, out []string
	for _, sku := range s.skus {
		switch inventory.Classify(sku.Quantity, lowThreshold) {
		case inventory.LevelOutOfStock:
			out = append(out, sku.Name)
		case inventory.LevelLow:
			low = append(low, fmt.Sprintf("%s (Qty: %d)", sku.Name, sku.Quantity))
		}
	}

	inactive := analytics.Inactive(s.customers, now)
	churn := make([]string, 0, listLimit)
	for _, c := range first(inactive, listLimit) {
		churn = append(churn, fmt.Sprintf("%s (Last Order: %s)", c.Email, c.LastOrder.Format("2006-01-02")))
	}
	churnText := strings.Join(churn, ", ")
	if churnText == "" {
		churnText = "None detected"
	}

	top := []string{}
	for _, p := range analytics.TopPerformers(s.items, listLimit) {
		top = append(top, fmt.Sprintf("%s: $%s", p.Name, p.Revenue.StringFixed(2)))
	}

	var b strings.Builder
	b.WriteString("[CONFIDENTIAL ENTERPRISE DATA REPORT]\n")
	b.WriteString("--------------------------------------\n")
	b.WriteString("FISCAL PERFORMANCE:\n")
	fmt.Fprintf(&b, "- Cumulative Revenue (Sample): %s\n", money(sales))
	fmt.Fprintf(&b, "- Net Profit: %s\n", money(profit))
	fmt.Fprintf(&b, "- Operating Margin: %s%%\n\n", analytics.MarginPercent(sales, cost).StringFixed(1))
	b.WriteString("INVENTORY & STOCK:\n")
	fmt.Fprintf(&b, "- Total SKUs: %d\n", len(s.skus))
	fmt.Fprintf(&b, "- Out of Stock: %d items (%s...)\n", len(out), strings.Join(first(out, listLimit), ", "))
	fmt.Fprintf(&b, "- Low Stock Critical: %s\n\n", strings.Join(first(low, listLimit), ", "))
	b.WriteString("CHURN & RETENTION:\n")
	fmt.Fprintf(&b, "- Total Entities: %d\n", s.clients)
	fmt.Fprintf(&b, "- Inactive Entities (>%d days): %d\n", analytics.ChurnDays, len(inactive))
	fmt.Fprintf(&b, "- High Risk Churn Samples: %s\n\n", churnText)
	b.WriteString("PRODUCT PERFORMANCE:\n")
	fmt.Fprintf(&b, "- Top Revenue Drivers: %s\n\n", strings.Join(top, ", "))
	b.WriteString("RECENT ACTIVITY:\n")
	for _, e := range s.recent {
		fmt.Fprintf(&b, "- %s on %s\n", e.Action, e.EntityType)
	}
	b.WriteString("--------------------------------------\n")
	return b.String()
}

func first[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// money formats d as $1,234.56.
func money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	s := d.StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]
	var b strings.Builder
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return sign + "$" + b.String() + frac
}
