package analytics

import (
	"github.com/shopspring/decimal"
	"time"
)

// OrderRow is the slim order projection the aggregations work on.
type OrderRow struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"customerName"`
	Status       string          `json:"status"`
	TotalSales   decimal.Decimal `json:"totalSales"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type ItemRow struct {
	SKUName   string
	Quantity  int
	UnitPrice decimal.Decimal
}

// CustomerActivity is one customer email's order history summary.
type CustomerActivity struct {
	Email     string
	LastOrder time.Time
	Orders    int
}

type Velocity struct {
	Healthy    int `json:"healthy"`
	LowStock   int `json:"lowStock"`
	OutOfStock int `json:"outOfStock"`
}

type DayRevenue struct {
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
}

type DashboardStats struct {
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	ActiveSKUs     int             `json:"activeSKUs"`
	NewOrders      int             `json:"newOrders"`
	GrossMargin    int64           `json:"grossMargin"`
	TotalClients   int             `json:"totalClients"`
	AvgOrderValue  decimal.Decimal `json:"avgOrderValue"`
	Velocity       Velocity        `json:"velocity"`
	RevenueByDay   []DayRevenue    `json:"revenueByDay"`
	FilteredOrders []OrderRow      `json:"filteredOrders"`
}

type Category struct {
	Name  string          `json:"name"`
	Value decimal.Decimal `json:"value"`
}

type Month struct {
	SortKey string          `json:"sortKey"`
	Name    string          `json:"name"`
	Revenue decimal.Decimal `json:"revenue"`
	Profit  decimal.Decimal `json:"profit"`
}

type Summary struct {
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalProfit   decimal.Decimal `json:"totalProfit"`
	AvgOrderValue decimal.Decimal `json:"avgOrderValue"`
}

type Performer struct {
	Name    string
	Revenue decimal.Decimal
	Units   int
}

type Financials struct {
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCost    decimal.Decimal `json:"totalCost"`
	TotalProfit  decimal.Decimal `json:"totalProfit"`
	NetMargin    string          `json:"netMargin"`
	OrderCount   int             `json:"orderCount"`
}
