package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"francoggm/pagseguro-transparente/internal/app/payment"
	"francoggm/pagseguro-transparente/internal/app/server"
	"francoggm/pagseguro-transparente/internal/app/server/handlers"
	gatewayclient "francoggm/pagseguro-transparente/internal/app/services/gateway_client"
	"francoggm/pagseguro-transparente/internal/app/storage"
	"francoggm/pagseguro-transparente/internal/app/syncer"
	"francoggm/pagseguro-transparente/internal/app/workers"
	"francoggm/pagseguro-transparente/internal/app/workers/processors"
	"francoggm/pagseguro-transparente/internal/config"
	"francoggm/pagseguro-transparente/internal/logger"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}
	creds, _ := cfg.Credentials()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Cache.Addr(),
		Password:     cfg.Cache.Password,
		DB:           0,
		PoolSize:     cfg.Cache.PoolSize,
		MinIdleConns: 10,
		PoolTimeout:  60 * time.Second,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatal("redis unavailable", zap.String("addr", cfg.Cache.Addr()), zap.Error(err))
	}
	defer rdb.Close()

	// Services
	gatewayClient := gatewayclient.NewGatewayClient(cfg.Endpoints(), cfg.Gateway.Timeout, log)
	storageService := storage.NewStorageService(rdb)
	paymentService := payment.NewPaymentService(payment.Settings{
		StoreID:           cfg.App.StoreID,
		PublicURL:         cfg.App.PublicURL,
		Alternative:       cfg.Alternative(),
		Credentials:       creds,
		AuthorizationCode: cfg.Gateway.AuthorizationCode,
	}, gatewayClient, storageService, log)

	// Workers
	notificationProcessor := processors.NewNotificationProcessor(paymentService)
	notificationOrchestrator := workers.NewOrchestrator(
		cfg.Workers.PaymentCount,
		cfg.Workers.PaymentBufferSize,
		workers.DefaultRetryPolicy(cfg.Workers.MaxRetries),
		notificationProcessor,
		log,
	)
	notificationOrchestrator.StartWorkers(ctx)

	if cfg.Sync.Enabled {
		syncService := syncer.NewSyncService(paymentService, rdb, cfg.Sync.Interval, cfg.Sync.Window, log)
		go syncService.BackgroundRoutine(ctx)
	}

	h := handlers.NewHandlers(cfg.App.StoreID, cfg.RedirectHosts(), paymentService, notificationOrchestrator, log)
	srv := server.NewServer(cfg.Server.Port, h)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("error shutting down server", zap.Error(err))
		}
	}()

	log.Info("server listening",
		zap.String("port", cfg.Server.Port),
		zap.String("environment", cfg.App.Environment),
		zap.Int("store_id", cfg.App.StoreID))
	if err := srv.Run(); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}

	notificationOrchestrator.Wait()
	log.Info("server stopped")
}
