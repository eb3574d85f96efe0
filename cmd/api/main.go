package main

import (
	"context"
	"errors"
	"github.com/ariefcatur/go-erp-dashboard/internal/analytics"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/crm"
	"github.com/ariefcatur/go-erp-dashboard/internal/httpx"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	kafkax "github.com/ariefcatur/go-erp-dashboard/internal/kafka"
	"github.com/ariefcatur/go-erp-dashboard/internal/oracle"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/ariefcatur/go-erp-dashboard/internal/redisx"
	"github.com/ariefcatur/go-erp-dashboard/internal/settings"
	"github.com/ariefcatur/go-erp-dashboard/internal/users"
	"github.com/joho/godotenv"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		config.GetLogger().Fatalf("config: %v", err)
	}
	log := config.InitLogger(cfg.LogLevel)
	secret, err := cfg.SigningSecret()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Warn("JWT_SECRET unset, using the development signing key")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.ServiceName)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	created := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, log)
	created.Start(ctx)
	changed := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024, log)
	changed.Start(ctx)

	stats := &redisx.StatsCache{RDB: rdb, TTL: cfg.StatsCacheTTL, Log: log}
	skuRepo := &inventory.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	auditRepo := &audit.Repo{DB: db}
	analyticsRepo := &analytics.Repo{DB: db}
	tokens := users.NewTokens(secret, cfg.TokenLifetime)
	accounts := &users.Service{Store: &users.Repo{DB: db}, Tokens: tokens}

	orderSvc := &orders.Service{
		Store:       orderRepo,
		Idem:        &redisx.OrderIdempotency{RDB: rdb, Log: log},
		Producer:    created,
		StatusProd:  changed,
		Stats:       stats,
		ServiceName: cfg.ServiceName,
		Log:         log,
	}
	analyticsSvc := &analytics.Service{Source: analyticsRepo, Ledger: orderRepo, Cache: stats, LowStock: cfg.LowStockThreshold}

	ai, err := oracle.New(ctx, cfg.Oracle, &oracle.Reporter{
		Data:      analyticsRepo,
		Catalogue: skuRepo,
		Activity:  auditRepo,
		LowStock:  cfg.LowStockThreshold,
	}, log)
	if err != nil {
		log.Fatalf("oracle: %v", err)
	}

	router := httpx.NewRouter(log, tokens,
		[]httpx.Registrar{&httpx.AuthHandler{Users: accounts, Log: log}},
		&httpx.AnalyticsHandler{Analytics: analyticsSvc, Log: log},
		&httpx.InventoryHandler{SKUs: &inventory.Service{Store: skuRepo, Stats: stats}, Log: log},
		&httpx.ClientsHandler{Clients: &crm.Service{Store: &crm.Repo{DB: db}, Stats: stats}, Log: log},
		&httpx.OrdersHandler{Orders: orderSvc, Financials: analyticsSvc, Log: log},
		&httpx.AuditHandler{Trail: auditRepo, Log: log},
		&httpx.UsersHandler{Users: accounts, Log: log},
		&httpx.SettingsHandler{Settings: &settings.Service{Store: &settings.Repo{DB: db}}, Log: log},
		&httpx.OracleHandler{Oracle: ai, Log: log},
	)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		log.Infof("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info("shutting down...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http shutdown")
	}
	// stop the producer loops; each flushes its inbox before closing
	cancel()
	created.WaitClosed()
	changed.WaitClosed()
}
