package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/fulfillment/api"
	"github.com/example/fulfillment/pkg/config"
	"github.com/example/fulfillment/pkg/discovery"
	"github.com/example/fulfillment/pkg/metrics"
	"github.com/example/fulfillment/pkg/notify"
	"github.com/example/fulfillment/pkg/repository"
	"github.com/example/fulfillment/pkg/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func main() {
	configPath := "config/config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	logger, err := zap.NewProduction()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting fulfillment service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	mongo, err := repository.NewMongoRepository(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		mongo.Close(ctx)
	}()

	ctx := context.Background()
	if err := mongo.Ping(ctx); err != nil {
		logger.Warn("MongoDB ping failed", zap.Error(err))
	} else {
		logger.Info("MongoDB connected successfully")
	}

	redis := repository.NewRedisRepository(&cfg.Redis)
	defer redis.Close()
	if err := redis.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}

	var audit *repository.AuditStore
	if cfg.MySQL.Host != "" {
		audit, err = repository.NewAuditStore(&cfg.MySQL, logger)
		if err != nil {
			logger.Warn("Audit store unavailable, continuing without auditing", zap.Error(err))
			audit = nil
		}
	}

	dispatcher := notify.NewDispatcher(logger)
	defer dispatcher.Close()

	domainMetrics := metrics.NewDomainMetrics(prometheus.DefaultRegisterer)

	notificationService := service.NewNotificationService(
		repository.NewNotificationRepository(mongo), dispatcher, logger)
	orderService := service.NewOrderService(
		repository.NewOrderRepository(mongo), notificationService, redis, audit, domainMetrics, logger)
	inventoryService := service.NewInventoryService(
		repository.NewInventoryRepository(mongo), orderService, notificationService, audit, domainMetrics, logger)

	server := api.NewServer(cfg, logger, orderService, inventoryService, notificationService, audit,
		metrics.NewServerMetrics("server"))

	registry, err := discovery.NewServiceRegistry(&cfg.Etcd)
	if err != nil {
		logger.Fatal("Failed to connect to etcd", zap.Error(err))
	}
	defer registry.Close()

	instance := &discovery.ServiceInstance{
		Name: cfg.Server.Name,
		Host: cfg.Server.Host,
		Port: cfg.Server.Port,
	}
	if err := registry.Register(ctx, instance); err != nil {
		logger.Fatal("Failed to register service", zap.Error(err))
	}
	logger.Info("Service registered in etcd",
		zap.String("name", cfg.Server.Name),
		zap.String("address", fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)))

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil {
			serverErr <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	if err := registry.Deregister(ctx, instance); err != nil {
		logger.Error("Failed to deregister service", zap.Error(err))
	}

	logger.Info("Service stopped")
}
