package main

import (
	"context"
	"github.com/ariefcatur/go-erp-dashboard/internal/audit"
	"github.com/ariefcatur/go-erp-dashboard/internal/config"
	"github.com/ariefcatur/go-erp-dashboard/internal/inventory"
	kafkax "github.com/ariefcatur/go-erp-dashboard/internal/kafka"
	"github.com/ariefcatur/go-erp-dashboard/internal/orders"
	"github.com/ariefcatur/go-erp-dashboard/internal/postgres"
	"github.com/ariefcatur/go-erp-dashboard/internal/redisx"
	"github.com/ariefcatur/go-erp-dashboard/internal/stockwatch"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

// failed handler runs before an event goes to the dead-letter topic
const deliveryAttempts = 5

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		config.GetLogger().Fatalf("config: %v", err)
	}
	log := config.InitLogger(cfg.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN, cfg.StockwatchGroup)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	w := &stockwatch.Watcher{
		Stock:     &inventory.Repo{DB: db},
		Audit:     &audit.Repo{DB: db},
		Events:    &redisx.Dedup{RDB: rdb, Service: cfg.StockwatchGroup},
		Alerts:    &redisx.Dedup{RDB: rdb, Service: cfg.StockwatchGroup + "-alert", TTL: redisx.TTLLowStockAlert},
		Threshold: cfg.LowStockThreshold,
		Log:       log,
	}

	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.StockwatchGroup, orders.TopicOrderCreated, cfg.StockwatchWorkers, log)
	cons.SetDeadLetter(kafkax.NewDeadLetterWriter(cfg.KafkaBrokers, orders.TopicOrderCreatedDLQ), deliveryAttempts)
	done := make(chan struct{})
	go func() {
		defer close(done)
		log.WithFields(logrus.Fields{
			"group":   cfg.StockwatchGroup,
			"topic":   orders.TopicOrderCreated,
			"workers": cfg.StockwatchWorkers,
		}).Info("stockwatch consumer started")
		if err := cons.Start(ctx, w.HandleOrderCreated); err != nil {
			log.WithError(err).Error("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		log.Info("shutting down consumer...")
	case <-ctx.Done():
	}
	cancel()
	<-done
}
