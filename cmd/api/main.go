package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ariefcatur/go-tenant-orders.git/internal/config"
	"github.com/ariefcatur/go-tenant-orders.git/internal/httpx"
	"github.com/ariefcatur/go-tenant-orders.git/internal/ingest"
	kafkax "github.com/ariefcatur/go-tenant-orders.git/internal/kafka"
	"github.com/ariefcatur/go-tenant-orders.git/internal/orders"
	"github.com/ariefcatur/go-tenant-orders.git/internal/postgres"
	"github.com/ariefcatur/go-tenant-orders.git/internal/redisx"
	"github.com/ariefcatur/go-tenant-orders.git/internal/tenant"
	"github.com/ariefcatur/go-tenant-orders.git/internal/ws"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// The primary store must be reachable before we serve anything.
	primary, err := postgres.Connect(ctx, cfg.PrimaryDSN())
	if err != nil {
		logger.Fatal("primary store unreachable", zap.Error(err))
	}
	defer primary.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Tenant stores, one lazily-dialed pool per tenant id
	registry := tenant.NewRegistry(cfg, logger)
	defer registry.Close()

	// Event bus
	pub := kafkax.NewPublisher(cfg.KafkaBrokers, orders.Queue, logger)
	defer pub.Close()

	// Consumer side of the pipeline
	svc := ingest.NewService(registry, rdb, logger)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup, orders.Queue, cfg.ConsumerWorkers, logger)
	consDone := make(chan struct{})
	go func() {
		defer close(consDone)
		logger.Info("order consumer started",
			zap.String("queue", orders.Queue),
			zap.String("group", cfg.ConsumerGroup),
			zap.Int("workers", cfg.ConsumerWorkers))
		if err := cons.Start(ctx, svc.HandleOrderCreated); err != nil {
			logger.Error("consumer exit", zap.Error(err))
			cancel()
		}
	}()

	// Realtime notifications
	hub := ws.NewHub(logger)

	// HTTP
	router := httpx.NewRouter()
	validate := httpx.NewValidator()
	(&httpx.OrdersHandler{
		Registry:  registry,
		Publisher: pub,
		Redis:     rdb,
		Validate:  validate,
		Log:       logger,
	}).Register(router)
	(&httpx.UsersHandler{Registry: registry, Validate: validate, Log: logger}).Register(router)
	(&httpx.ProductsHandler{Registry: registry, Validate: validate, Log: logger}).Register(router)
	(&httpx.NotifyHandler{Hub: hub}).Register(router)

	// The socket upgrade shares the HTTP port but bypasses the router's
	// request timeout: a websocket outlives any single request.
	root := http.NewServeMux()
	root.Handle("/ws", hub)
	root.Handle("/", router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: root}

	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()   // stop the consumer loop
	<-consDone // in-flight messages finish before exit
}
