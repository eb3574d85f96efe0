package orders

import (
	"github.com/shopspring/decimal"
	"sort"
)

// StockSnapshot is the locked SKU state an order is priced against.
type StockSnapshot struct {
	ID        string
	Name      string
	Quantity  int
	SellPrice decimal.Decimal
	CostPrice decimal.Decimal
}

type Totals struct {
	Sales decimal.Decimal
	Cost  decimal.Decimal
}

// MergeItems folds repeated SKUs into one line and sorts by SKU id, which
// is also the row-lock order.
func MergeItems(items []ItemInput) []ItemInput {
	qty := map[string]int{}
	for _, it := range items {
		qty[it.SKUID] += it.Quantity
	}
	out := make([]ItemInput, 0, len(qty))
	for id, q := range qty {
		out = append(out, ItemInput{SKUID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKUID < out[j].SKUID })
	return out
}

// PriceLines freezes unit price/cost for every item and sums the order.
// It fails on the first line that the snapshot cannot cover.
func PriceLines(items []ItemInput, stock map[string]StockSnapshot) ([]OrderItem, Totals, error) {
	if len(items) == 0 {
		return nil, Totals{}, ErrNoItems
	}
	lines := make([]OrderItem, 0, len(items))
	t := Totals{Sales: decimal.Zero, Cost: decimal.Zero}
	for _, it := range items {
		s, ok := stock[it.SKUID]
		if !ok {
			return nil, Totals{}, &InsufficientStockError{SKUID: it.SKUID, Requested: it.Quantity}
		}
		if it.Quantity <= 0 || s.Quantity < it.Quantity {
			return nil, Totals{}, &InsufficientStockError{SKUID: s.ID, Name: s.Name, Requested: it.Quantity, Available: s.Quantity}
		}
		q := decimal.NewFromInt(int64(it.Quantity))
		t.Sales = t.Sales.Add(s.SellPrice.Mul(q))
		t.Cost = t.Cost.Add(s.CostPrice.Mul(q))
		lines = append(lines, OrderItem{
			SKUID:     s.ID,
			SKUName:   s.Name,
			Quantity:  it.Quantity,
			UnitPrice: s.SellPrice,
			UnitCost:  s.CostPrice,
		})
	}
	return lines, t, nil
}
