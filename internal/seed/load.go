package seed

import (
	"context"
	"fmt"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"math/rand/v2"
	"time"
)

type Options struct {
	Clients       int
	SKUs          int
	Orders        int
	Seed          uint64
	AdminEmail    string
	AdminPassword string
	Now           time.Time
}

func DefaultOptions() Options {
	return Options{
		Clients:       225,
		SKUs:          215,
		Orders:        150,
		Seed:          uint64(time.Now().UnixNano()),
		AdminEmail:    "admin@nexis.hq",
		AdminPassword: "adminpassword123",
	}
}

type Summary struct {
	Clients int
	SKUs    int
	Orders  int
}

type Loader struct {
	DB  *pgxpool.Pool
	Log *logrus.Logger
}

// Run wipes the business tables and loads a fresh data set in one
// transaction.
func (l *Loader) Run(ctx context.Context, opt Options) (Summary, error) {
	log := l.Log
	if log == nil {
		log = config.GetLogger()
	}
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}
	r := rand.New(rand.NewPCG(opt.Seed, opt.Seed^0x9e3779b97f4a7c15))

	hash, err := users.HashPassword(opt.AdminPassword)
	if err != nil {
		return Summary{}, err
	}
	clients := Clients(r, opt.Clients)
	skus := SKUs(r, opt.SKUs)
	ords := Orders(r, opt.Orders, clients, skus, opt.Now)

	err = postgres.InTx(ctx, l.DB, func(tx pgx.Tx) error {
		log.Info("wiping business tables")
		if _, err := tx.Exec(ctx, `TRUNCATE audit_logs, order_items, orders, skus, clients, users, system_settings`); err != nil {
			return fmt.Errorf("truncate: %w", err)
		}

		b := &pgx.Batch{}
		perms := make([]string, 0, len(users.Sections))
		for _, s := range users.Sections {
			perms = append(perms, string(s))
		}
		b.Queue(`INSERT INTO users(id, name, email, role, password, permissions) VALUES ($1, $2, $3, $4, $5, $6)`,
			users.SystemID, "System Admin", opt.AdminEmail, users.RoleAdmin, hash, perms)
		for _, c := range clients {
			b.Queue(`INSERT INTO clients(id, name, email, phone, address) VALUES ($1, $2, $3, $4, $5)`,
				c.ID, c.Name, c.Email, c.Phone, c.Address)
		}
		for _, s := range skus {
			b.Queue(`INSERT INTO skus(id, code, name, description, quantity, cost_price, sell_price) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				s.ID, s.Code, s.Name, s.Description, s.Quantity, s.CostPrice, s.SellPrice)
		}
		for _, o := range ords {
			b.Queue(`INSERT INTO orders(id, user_id, client_id, customer_name, customer_email, customer_phone,
				status, total_sales, total_cost, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10)`,
				o.ID, users.SystemID, o.Client.ID, o.Client.Name, o.Client.Email, o.Client.Phone,
				orders.StatusCompleted, o.TotalSales, o.TotalCost, o.CreatedAt)
			for _, it := range o.Items {
				b.Queue(`INSERT INTO order_items(id, order_id, sku_id, quantity, unit_price, unit_cost) VALUES ($1, $2, $3, $4, $5, $6)`,
					it.ID, o.ID, it.SKUID, it.Quantity, it.UnitPrice, it.UnitCost)
			}
		}
		log.WithFields(logrus.Fields{"clients": len(clients), "skus": len(skus), "orders": len(ords)}).Info("loading seed data")
		return tx.SendBatch(ctx, b).Close()
	})
	if err != nil {
		return Summary{}, err
	}
	return Summary{Clients: len(clients), SKUs: len(skus), Orders: len(ords)}, nil
}
