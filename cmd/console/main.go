package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commerce-console/internal/client"
	"commerce-console/internal/config"
	"commerce-console/internal/handler"
	"commerce-console/internal/logging"
	"commerce-console/internal/observability"
	"commerce-console/internal/repository"
	"commerce-console/internal/server"
	"commerce-console/internal/service"
	"commerce-console/internal/session"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()

	shutdownTracing, err := observability.SetupTracing(ctx, &cfg.Tracing, cfg.Environment.Name)
	if err != nil {
		log.Fatal("setup tracing", zap.Error(err))
	}

	db, err := client.InitSqliteClient(cfg.DatabasePath)
	if err != nil {
		log.Fatal("init sqlite", zap.Error(err))
	}
	rdb, err := client.InitRedisClient(&cfg.Redis)
	if err != nil {
		log.Fatal("init redis", zap.Error(err))
	}

	sessionRepo := repository.NewSessionRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)
	attemptRepo := repository.NewAttemptRepository(rdb)
	continuationRepo := repository.NewContinuationRepository(rdb)

	sessions := session.NewStore(sessionRepo, log)
	if err := sessions.Restore(ctx); err != nil {
		log.Warn("restore persisted session", zap.Error(err))
	}

	identityClient := client.NewIdentityClient(&cfg.Identity)
	gateway := client.NewGateway(sessions, identityClient, log)
	catalogClient := client.NewCatalogClient(&cfg.Catalog, gateway)
	ordersClient := client.NewOrdersClient(&cfg.Orders, gateway)
	providerClient := client.NewProviderClient(&cfg.Provider)

	composer := service.NewComposer(catalogClient, snapshotRepo, log)
	resumeTTL := time.Duration(cfg.Checkout.ResumeTTLMinutes) * time.Minute
	checkoutService := service.NewCheckoutService(ordersClient, composer, continuationRepo, resumeTTL, log)
	paymentService := service.NewPaymentService(ordersClient, providerClient, attemptRepo, log)
	resolver := service.NewResolver(continuationRepo, log)
	sessionService := service.NewSessionService(identityClient, sessions, log)

	srv := server.NewServer(
		handler.NewSessionHandler(sessionService),
		handler.NewCatalogHandler(composer),
		handler.NewCheckoutHandler(composer, checkoutService),
		handler.NewOrderHandler(ordersClient, resolver, paymentService),
		sessions,
		log,
	)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		log.Error("HTTP server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown", zap.Error(err))
	}
	if err := rdb.Close(); err != nil {
		log.Error("redis close", zap.Error(err))
	}
}
