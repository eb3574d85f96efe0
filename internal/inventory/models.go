package inventory

import (
	"errors"
	"github.com/shopspring/decimal"
	"time"
)

var (
	ErrNotFound      = errors.New("sku not found")
	ErrDuplicateCode = errors.New("SKU Code already exists")
	ErrNegativeStock = errors.New("quantity cannot be negative")
	ErrNegativePrice = errors.New("prices cannot be negative")
)

type SKU struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	SellPrice   decimal.Decimal `json:"sellPrice"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Margin is the gross margin percentage at the current prices.
func (s SKU) Margin() decimal.Decimal {
	if !s.SellPrice.IsPositive() {
		return decimal.Zero
	}
	return s.SellPrice.Sub(s.CostPrice).Div(s.SellPrice).Mul(decimal.NewFromInt(100)).Round(2)
}

type Input struct {
	Code        string          `json:"code" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Quantity    int             `json:"quantity" validate:"gte=0"`
	CostPrice   decimal.Decimal `json:"costPrice"`
	SellPrice   decimal.Decimal `json:"sellPrice"`
}

// Validate checks the money fields the struct tags cannot express.
func (in Input) Validate() error {
	if in.CostPrice.IsNegative() || in.SellPrice.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

type ListParams struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	Order    string
}

// sortColumns maps business sort keys onto SQL expressions.
var sortColumns = map[string]string{
	"product":  "name",
	"sku":      "code",
	"quantity": "quantity",
	"retail":   "sell_price",
	"cost":     "cost_price",
	"margin":   "(sell_price - cost_price) / NULLIF(sell_price, 0)",
	"created":  "created_at",
}

// Stock level buckets used by the dashboard and the stock watcher.
type Level string

const (
	LevelHealthy    Level = "HEALTHY"
	LevelLow        Level = "LOW"
	LevelOutOfStock Level = "OUT_OF_STOCK"
)

func Classify(quantity, lowThreshold int) Level {
	switch {
	case quantity <= 0:
		return LevelOutOfStock
	case quantity <= lowThreshold:
		return LevelLow
	default:
		return LevelHealthy
	}
}
