package main

import (
	"context"
	"log"
	"time"

	"go.uber.org/zap"

	httpin "restaurant_service/internal/adapters/inbound/http"
	"restaurant_service/internal/adapters/outbound/cache"
	kafkaout "restaurant_service/internal/adapters/outbound/kafka"
	"restaurant_service/internal/adapters/outbound/postgres"
	"restaurant_service/internal/app/config"
	"restaurant_service/internal/app/runtime"
	"restaurant_service/internal/core/service"
	"restaurant_service/internal/ports/outbound"
)

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := postgres.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("db init", zap.Error(err))
	}
	defer db.Close()

	migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := postgres.RunMigrations(migCtx, db.Pool, cfg.MigrationsDir); err != nil {
		logger.Fatal("migrations", zap.Error(err))
	}

	orderRepo := postgres.NewOrderRepository(db.Pool)
	menuRepo := postgres.NewMenuRepository(db.Pool)
	memCache := cache.NewMemoryCache()

	var events outbound.EventPublisher = outbound.NopEventPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafkaout.NewPublisher(kafkaout.PublisherConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, logger)
		defer func() { _ = pub.Close() }()
		events = pub
	}

	orderSvc := service.NewOrderService(orderRepo, menuRepo, memCache, events, logger)
	menuSvc := service.NewMenuService(menuRepo, orderRepo, logger)

	// The id sequence may lag after deletes made before a restart.
	if err := orderSvc.SyncIDSequence(ctx); err != nil {
		logger.Warn("startup sequence sync failed", zap.Error(err))
	}

	if n, err := orderSvc.ReloadMirror(ctx); err != nil {
		logger.Warn("mirror reload failed", zap.Error(err))
	} else {
		logger.Info("mirror loaded", zap.Int("orders", n))
	}

	handlers := httpin.NewHandlers(orderSvc, menuSvc, cfg.AdminKey, logger)
	mux := httpin.NewMux(handlers, orderSvc)
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, mux, logger)
	httpSrv.Start()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		logger.Error("http shutdown", zap.Error(err))
	}
	logger.Info("bye")
}
