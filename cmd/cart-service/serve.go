package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/jcmexdev/foodcart/internal/cart"
	"github.com/jcmexdev/foodcart/internal/checkout"
	"github.com/jcmexdev/foodcart/internal/config"
	"github.com/jcmexdev/foodcart/internal/core/ports"
	"github.com/jcmexdev/foodcart/internal/events"
	"github.com/jcmexdev/foodcart/internal/fulfillment"
	"github.com/jcmexdev/foodcart/internal/httpx"
	"github.com/jcmexdev/foodcart/internal/httpx/middlewares"
	"github.com/jcmexdev/foodcart/internal/orders"
	"github.com/jcmexdev/foodcart/internal/pkg/cache"
	"github.com/jcmexdev/foodcart/internal/pkg/telemetry"
	"github.com/jcmexdev/foodcart/internal/store"
)

const shutdownTimeout = 5 * time.Second

func serve(c *cli.Context) error {
	ctx := c.Context
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	telemetry.InitLogger(os.Stderr, cfg.LogLevel)

	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
		Environment: cfg.Environment,
	})
	if err != nil {
		return fmt.Errorf("failed to initialise tracer: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	db, err := store.Open(ctx, cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := store.Migrate(db); err != nil {
		return err
	}

	var dispatcher ports.EventDispatcher = events.LogDispatcher{}
	if cfg.AMQPURI != "" {
		amqpDispatcher, err := events.DialAMQP(cfg.AMQPURI, cfg.AMQPExchange)
		if err != nil {
			return err
		}
		defer amqpDispatcher.Close()
		dispatcher = amqpDispatcher
	}

	var replies cache.Cache
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.ServiceName)
		if err := redisCache.Ping(ctx); err != nil {
			_ = redisCache.Close()
			return fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		defer redisCache.Close()
		replies = redisCache
	}

	catalog := store.NewCatalogRepository(db)
	profiles := store.NewProfileRepository(db)
	orderRepo := store.NewOrderRepository(db)
	lifecycle := orders.NewLifecycle(orderRepo, dispatcher)

	handler := httpx.NewHandler(httpx.Deps{
		Sessions:       cart.NewSessions(store.NewCartRepository(db), cfg.SessionIdleTimeout),
		Catalog:        catalog,
		Profiles:       profiles,
		Promos:         cart.DefaultPromoBook(),
		Checkout:       checkout.New(orderRepo, profiles, store.NewSagaLogRepository(db), dispatcher),
		Orders:         lifecycle,
		Ratings:        orders.NewRatingGate(lifecycle, store.NewRatingRepository(db)),
		Cache:          replies,
		IdempotencyTTL: cfg.IdempotencyTTL,
	})

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(handler, middlewares.Authenticator([]byte(cfg.JWTSecret))),
		ReadHeaderTimeout: 10 * time.Second,
	}
	grpcServer := fulfillment.NewGRPCServer(fulfillment.NewServer(lifecycle))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.GRPCAddr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("cart API running", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("fulfillment gRPC running", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
