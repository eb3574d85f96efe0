package orders

import (
	"errors"
	"fmt"
	"github.com/shopspring/decimal"
	"time"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNoItems           = errors.New("order has no items")
)

// InsufficientStockError aborts an order when a line asks for more than
// is on hand (or the SKU does not exist).
type InsufficientStockError struct {
	SKUID     string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	name := e.Name
	if name == "" {
		name = "item"
	}
	return fmt.Sprintf("Insufficient stock for %s", name)
}

type Order struct {
	ID            string          `json:"id"`
	ExternalID    string          `json:"externalId,omitempty"`
	UserID        string          `json:"userId"`
	ClientID      *string         `json:"clientId"`
	CustomerName  string          `json:"customerName"`
	CustomerEmail string          `json:"customerEmail"`
	CustomerPhone string          `json:"customerPhone"`
	Status        Status          `json:"status"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalCost     decimal.Decimal `json:"totalCost"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
	Items         []OrderItem     `json:"items"`
	User          *Creator        `json:"user,omitempty"`
}

// Profit is total sales minus total cost.
func (o Order) Profit() decimal.Decimal { return o.TotalSales.Sub(o.TotalCost) }

type Creator struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// OrderItem prices are copied from the SKU when the order is placed.
type OrderItem struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	SKUID     string          `json:"skuId"`
	SKUCode   string          `json:"skuCode,omitempty"`
	SKUName   string          `json:"skuName,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	UnitCost  decimal.Decimal `json:"unitCost"`
}

type ItemInput struct {
	SKUID    string `json:"skuId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

type CreateInput struct {
	ExternalID    string      `json:"-"`
	ClientID      string      `json:"clientId"`
	CustomerName  string      `json:"customerName" validate:"required,max=200"`
	CustomerEmail string      `json:"customerEmail" validate:"required,email"`
	CustomerPhone string      `json:"customerPhone" validate:"max=40"`
	Items         []ItemInput `json:"items" validate:"required,min=1,dive"`
	UserID        string      `json:"-"`
}

type ListParams struct {
	Page      int
	PageSize  int
	SortBy    string
	Order     string
	Status    string // "" or "ALL" means any
	StartDate *time.Time
	EndDate   *time.Time
}

// sortColumns accepts both the column-ish keys of the order table and the
// business keys of the revenue ledger.
var sortColumns = map[string]string{
	"createdAt":    "o.created_at",
	"timestamp":    "o.created_at",
	"id":           "o.id",
	"reference":    "o.id",
	"customerName": "o.customer_name",
	"entity":       "o.customer_name",
	"totalSales":   "o.total_sales",
	"revenue":      "o.total_sales",
	"profit":       "(o.total_sales - o.total_cost)",
	"status":       "o.status",
}
