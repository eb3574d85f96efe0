// Package seed fills an empty database with a demo company: clients, a
// SKU catalogue in six product lines and a month of completed orders.
package seed

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"math/rand/v2"
	"regexp"
	"strings"
	"time"
)

type category struct{ name, prefix string }

var categories = []category{
	{"Precision Sensors", "SEN"},
	{"Robotic Actuators", "ACT"},
	{"Logic Controllers", "LOG"},
	{"Thermal Management", "THM"},
	{"Structural Composites", "STR"},
	{"Power Systems", "PWR"},
}

var (
	adjectives = []string{"Quantum", "Neural", "Cryo", "Plasma", "Kinetic", "Aero", "Hyper", "Optic", "Nano", "Flux"}
	nouns      = []string{"Core", "Module", "Array", "Nexus", "Link", "Cell", "Grid", "Matrix", "Unit", "Node"}
)

var companies = []string{
	"Cyberdyne Systems", "Stark Industries", "Weyland-Yutani Corp", "Aperture Science", "Tyrell Corporation",
	"OCP (Omni Consumer Products)", "Wayne Enterprises", "LexCorp", "Oscorp Industries", "Umbrella Corporation",
	"Massive Dynamic", "Hooli", "Pied Piper", "E Corp (Evil Corp)", "Globex Corporation", "Initech",
	"Encom", "Tetravaal", "Wallace Corporation", "Lunar Industries", "Blue Sun Corp", "Soylent Corp",
	"Versalife", "Sarif Industries", "Abstergo Industries", "Black Mesa Research", "Shinra Electric Power",
	"Fontaine Futuristics", "Ryan Industries", "Hyperion Corp", "Maliwan", "Torgue", "Vladof",
	"UAC (Union Aerospace)", "Vault-Tec", "RobCo Industries", "General Atomics", "Cerberus", "Systems Alliance",
	"Arasaka Corp", "Militech", "Kang Tao", "Petrochem", "SovOil", "Biotechnica", "Kendachi",
	"Zura-Bio", "Trauma Team International", "Night City PD", "Nakatomi Plaza Group", "Ishimura Mining",
	"Vandelay Industries", "Kramerica Industries", "Dunder Mifflin", "Prestige Worldwide", "Entertainment 720",
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

type Client struct {
	ID, Name, Email, Phone, Address string
}

type SKU struct {
	ID, Code, Name, Description string
	Quantity                    int
	CostPrice, SellPrice        decimal.Decimal
}

type Item struct {
	ID, SKUID           string
	Quantity            int
	UnitPrice, UnitCost decimal.Decimal
}

type Order struct {
	ID                    string
	Client                Client
	TotalSales, TotalCost decimal.Decimal
	CreatedAt             time.Time
	Items                 []Item
}

// Clients cycles through the company list; later rounds become divisions.
func Clients(r *rand.Rand, n int) []Client {
	out := make([]Client, 0, n)
	emails := map[string]bool{}
	for i := 0; i < n; i++ {
		base := companies[i%len(companies)]
		name := base
		if i >= len(companies) {
			name = fmt.Sprintf("%s Division %d", base, i/len(companies))
		}
		domain := nonAlnum.ReplaceAllString(strings.ToLower(base), "") + ".io"
		email := "procurement@" + domain
		if emails[email] {
			email = fmt.Sprintf("orders.%d@%s", i, domain)
		}
		emails[email] = true
		out = append(out, Client{
			ID:      uuid.NewString(),
			Name:    name,
			Email:   email,
			Phone:   fmt.Sprintf("+1555%03d%04d", 100+r.IntN(900), 1000+r.IntN(9000)),
			Address: fmt.Sprintf("%d Industrial Way, Sector %d", 1+r.IntN(999), 1+r.IntN(9)),
		})
	}
	return out
}

// SKUs draws a catalogue where about 10% is out of stock and 20% is low
// (1..14 units).
func SKUs(r *rand.Rand, n int) []SKU {
	out := make([]SKU, 0, n)
	codes := map[string]bool{}
	for len(out) < n {
		c := categories[r.IntN(len(categories))]
		code := fmt.Sprintf("%s-%05d", c.prefix, r.IntN(100000))
		if codes[code] {
			continue
		}
		codes[code] = true

		cost := decimal.NewFromFloat(r.Float64()*500 + 50).Round(2)
		sell := cost.Mul(decimal.NewFromFloat(1.5 + r.Float64()*2)).Round(2)
		var qty int
		switch roll := r.Float64(); {
		case roll < 0.1:
			qty = 0
		case roll < 0.3:
			qty = 1 + r.IntN(14)
		default:
			qty = 15 + r.IntN(100)
		}
		out = append(out, SKU{
			ID:          uuid.NewString(),
			Code:        code,
			Name:        fmt.Sprintf("%s %s %d", adjectives[r.IntN(len(adjectives))], nouns[r.IntN(len(nouns))], 100+r.IntN(900)),
			Description: fmt.Sprintf("High-performance %s component.", strings.ToLower(c.name)),
			Quantity:    qty,
			CostPrice:   cost,
			SellPrice:   sell,
		})
	}
	return out
}

// Orders places n orders of 1..4 lines spread over the 30 days before now.
// History is priced at today's catalogue prices and does not consume stock.
func Orders(r *rand.Rand, n int, clients []Client, skus []SKU, now time.Time) []Order {
	if len(clients) == 0 || len(skus) == 0 {
		return nil
	}
	window := int64(30 * 24 * time.Hour)
	out := make([]Order, 0, n)
	for i := 0; i < n; i++ {
		o := Order{
			ID:         uuid.NewString(),
			Client:     clients[r.IntN(len(clients))],
			CreatedAt:  now.Add(-time.Duration(r.Int64N(window))),
			TotalSales: decimal.Zero,
			TotalCost:  decimal.Zero,
		}
		lines := 1 + r.IntN(4)
		for j := 0; j < lines; j++ {
			s := skus[r.IntN(len(skus))]
			qty := 1 + r.IntN(10)
			it := Item{ID: uuid.NewString(), SKUID: s.ID, Quantity: qty, UnitPrice: s.SellPrice, UnitCost: s.CostPrice}
			o.Items = append(o.Items, it)
			q := decimal.NewFromInt(int64(qty))
			o.TotalSales = o.TotalSales.Add(it.UnitPrice.Mul(q))
			o.TotalCost = o.TotalCost.Add(it.UnitCost.Mul(q))
		}
		out = append(out, o)
	}
	return out
}
