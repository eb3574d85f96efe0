package analytics

import (
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	"github.com/shopspring/decimal"
	"sort"
	"strings"
	"time"
)

const (
	// weekday chart only looks at the newest orders
	weekdaySample = 50
	recentOrders  = 20
	newOrderDays  = 30
	topCategories = 5
	// ChurnDays is the inactivity gap after which a customer counts as churning.
	ChurnDays = 60
)

var hundred = decimal.NewFromInt(100)

var weekdays = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Totals sums sales and cost.
func Totals(orders []OrderRow) (sales, cost decimal.Decimal) {
	sales, cost = decimal.Zero, decimal.Zero
	for _, o := range orders {
		sales = sales.Add(o.TotalSales)
		cost = cost.Add(o.TotalCost)
	}
	return sales, cost
}

// MarginPercent is (sales-cost)/sales*100, zero without sales.
func MarginPercent(sales, cost decimal.Decimal) decimal.Decimal {
	if !sales.IsPositive() {
		return decimal.Zero
	}
	return sales.Sub(cost).Div(sales).Mul(hundred)
}

// Average is sum/n rounded to cents.
func Average(sum decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return sum.Div(decimal.NewFromInt(int64(n))).Round(2)
}

// StockVelocity buckets SKU quantities into healthy / low / out of stock.
func StockVelocity(quantities []int, lowThreshold int) Velocity {
	var v Velocity
	for _, q := range quantities {
		switch inventory.Classify(q, lowThreshold) {
		case inventory.LevelOutOfStock:
			v.OutOfStock++
		case inventory.LevelLow:
			v.LowStock++
		default:
			v.Healthy++
		}
	}
	return v
}

// RevenueByWeekday sums the newest orders (input newest first) per
// weekday, always returning Sun..Sat.
func RevenueByWeekday(orders []OrderRow, loc *time.Location) []DayRevenue {
	var sums [7]decimal.Decimal
	for i := range sums {
		sums[i] = decimal.Zero
	}
	for i, o := range orders {
		if i == weekdaySample {
			break
		}
		d := o.CreatedAt.In(loc).Weekday()
		sums[d] = sums[d].Add(o.TotalSales)
	}
	out := make([]DayRevenue, 7)
	for i, name := range weekdays {
		out[i] = DayRevenue{Name: name, Revenue: sums[i]}
	}
	return out
}

func CountSince(orders []OrderRow, since time.Time) int {
	n := 0
	for _, o := range orders {
		if !o.CreatedAt.Before(since) {
			n++
		}
	}
	return n
}

// Monthly groups orders into YYYY-MM buckets, oldest first.
func Monthly(orders []OrderRow, loc *time.Location) []Month {
	idx := map[string]int{}
	out := []Month{}
	for _, o := range orders {
		t := o.CreatedAt.In(loc)
		key := fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
		i, ok := idx[key]
		if !ok {
			i = len(out)
			idx[key] = i
			out = append(out, Month{SortKey: key, Name: t.Month().String()[:3], Revenue: decimal.Zero, Profit: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(o.TotalSales)
		out[i].Profit = out[i].Profit.Add(o.TotalSales.Sub(o.TotalCost))
	}
	sort.Slice(out, func(a, b int) bool { return out[a].SortKey < out[b].SortKey })
	return out
}

// CategoryOf is the first word of a SKU name.
func CategoryOf(skuName string) string {
	f := strings.Fields(skuName)
	if len(f) == 0 {
		return ""
	}
	return f[0]
}

// Categories ranks SKU-name categories by line revenue and keeps the top five.
func Categories(items []ItemRow) []Category {
	idx := map[string]int{}
	out := []Category{}
	for _, it := range items {
		name := CategoryOf(it.SKUName)
		i, ok := idx[name]
		if !ok {
			i = len(out)
			idx[name] = i
			out = append(out, Category{Name: name, Value: decimal.Zero})
		}
		out[i].Value = out[i].Value.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Value.Cmp(out[b].Value); c != 0 {
			return c > 0
		}
		return out[a].Name < out[b].Name
	})
	if len(out) > topCategories {
		out = out[:topCategories]
	}
	return out
}

// TopPerformers ranks SKUs by line revenue.
func TopPerformers(items []ItemRow, n int) []Performer {
	idx := map[string]int{}
	out := []Performer{}
	for _, it := range items {
		i, ok := idx[it.SKUName]
		if !ok {
			i = len(out)
			idx[it.SKUName] = i
			out = append(out, Performer{Name: it.SKUName, Revenue: decimal.Zero})
		}
		out[i].Revenue = out[i].Revenue.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		out[i].Units += it.Quantity
	}
	sort.SliceStable(out, func(a, b int) bool {
		if c := out[a].Revenue.Cmp(out[b].Revenue); c != 0 {
			return c > 0
		}
		return out[a].Name < out[b].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Inactive returns customers whose last order is older than ChurnDays.
func Inactive(customers []CustomerActivity, now time.Time) []CustomerActivity {
	cutoff := now.AddDate(0, 0, -ChurnDays)
	out := []CustomerActivity{}
	for _, c := range customers {
		if !c.LastOrder.IsZero() && c.LastOrder.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

func SummaryOf(orders []OrderRow) Summary {
	sales, cost := Totals(orders)
	return Summary{TotalRevenue: sales, TotalProfit: sales.Sub(cost), AvgOrderValue: Average(sales, len(orders))}
}

func FinancialsOf(sales, cost decimal.Decimal, count int) Financials {
	return Financials{
		TotalRevenue: sales,
		TotalCost:    cost,
		TotalProfit:  sales.Sub(cost),
		NetMargin:    MarginPercent(sales, cost).StringFixed(2) + "%",
		OrderCount:   count,
	}
}

// BuildDashboard assembles the overview from orders (newest first), SKU
// quantities and the client count.
func BuildDashboard(orders []OrderRow, quantities []int, clients, lowThreshold int, now time.Time, loc *time.Location) DashboardStats {
	sales, cost := Totals(orders)
	recent := orders
	if len(recent) > recentOrders {
		recent = recent[:recentOrders]
	}
	return DashboardStats{
		TotalRevenue:   sales,
		ActiveSKUs:     len(quantities),
		NewOrders:      CountSince(orders, now.AddDate(0, 0, -newOrderDays)),
		GrossMargin:    MarginPercent(sales, cost).Round(0).IntPart(),
		TotalClients:   clients,
		AvgOrderValue:  Average(sales, len(orders)),
		Velocity:       StockVelocity(quantities, lowThreshold),
		RevenueByDay:   RevenueByWeekday(orders, loc),
		FilteredOrders: append([]OrderRow{}, recent...),
	}
}
