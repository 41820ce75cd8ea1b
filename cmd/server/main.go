package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockdesk/internal/config"
	"stockdesk/internal/infra"
	"stockdesk/internal/repository"
	"stockdesk/internal/router"
	"stockdesk/internal/service"
	"stockdesk/internal/worker"

	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.ConfigureLogger(cfg.IsProduction())

	loc, _ := cfg.Location() // checked by Validate

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	if err := infra.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}
	reportDB, err := infra.NewReportDB(db)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open report handle")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	reportRepo := repository.NewReportRepository(reportDB)

	// Reorder alerts need Redis. Without it the sale service gets a nil
	// dispatcher and skips them.
	var alerts service.AlertDispatcher
	var mailBreaker *infra.CircuitBreaker
	inf := router.Infra{DB: db}
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rdb.Close()

		dispatcher := worker.NewDispatcher(rdb)
		alerts = dispatcher
		mailBreaker = infra.NewCircuitBreaker(infra.DefaultBreakerConfig())
		alertWorker := worker.NewStockAlertWorker(infra.NewMailer(cfg), mailBreaker, cfg.ShopName)

		worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, alertWorker.Handlers())
		worker.StartAlertSweep(ctx, worker.AlertSweepConfig{
			Products:   productRepo,
			Dispatcher: dispatcher,
			Interval:   cfg.AlertSweepInterval,
		})
		inf.Redis = rdb
		inf.MailBreaker = mailBreaker
	} else {
		log.Info().Msg("REDIS_URL not set, reorder alerts disabled")
	}

	opts := service.Options{Location: loc}
	svcs := router.Services{
		Products: service.NewProductService(productRepo),
		Sales:    service.NewSaleService(saleRepo, productRepo, alerts, opts),
		PurchaseOrders: service.NewPurchaseOrderService(orderRepo, productRepo, service.DocumentConfig{
			Header:      infra.DocumentHeader{ShopName: cfg.ShopName, CurrencySymbol: cfg.CurrencySymbol},
			StoragePath: cfg.PDFStoragePath,
		}, opts),
		Reports: service.NewReportService(reportRepo, saleRepo, opts),
	}
	if cfg.AuthEnabled {
		svcs.Auth = service.NewAuthService(cfg)
	}

	if err := os.MkdirAll(cfg.UploadDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("failed to create upload dir")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router.New(cfg, svcs, inf),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Port).Bool("auth", cfg.AuthEnabled).Msg("stockdesk listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
