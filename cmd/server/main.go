package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/yashas-13/inv-123/internal/config"
	"github.com/yashas-13/inv-123/internal/handler"
	"github.com/yashas-13/inv-123/internal/infra"
	"github.com/yashas-13/inv-123/internal/model"
	"github.com/yashas-13/inv-123/internal/repository"
	"github.com/yashas-13/inv-123/internal/router"
	"github.com/yashas-13/inv-123/internal/service"
	"github.com/yashas-13/inv-123/internal/worker"

	"github.com/bsm/redislock"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	infra.SetupLogger(cfg.Env, cfg.LogLevel)

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL, infra.DBOptions{
		Tracing:  cfg.TracingEnabled,
		LogLevel: infra.GormLogLevel(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	if err := infra.EnsureLocation(db, cfg.MainWarehouseID, "Main Warehouse", model.LocationWarehouse); err != nil {
		log.Fatal().Err(err).Msg("failed to register main warehouse")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Background work: cache invalidation and alert emails on the Redis
	// worker pool, plus the expiry alert cron. Wired here so the pool has
	// access to every infrastructure dependency.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := infra.NewJSONCache(rdb)
	dispatcher := worker.NewDispatcher(rdb)

	handlers := map[string]worker.Handler{
		worker.QueueLedger: worker.NewLedgerWorker(cache),
	}
	var smtp handler.BreakerReporter
	if cfg.SMTPEnabled() {
		mailer := infra.NewMailer(cfg)
		handlers[worker.QueueEmail] = worker.NewEmailWorker(mailer)
		smtp = mailer
	}
	deadLetters := worker.NewDeadLetters(rdb, worker.QueueLedger, worker.QueueEmail)
	worker.NewPool(rdb, handlers, deadLetters).Start(ctx, cfg.WorkerPoolSize)

	dashboard := service.NewDashboardService(service.DashboardDeps{
		Products:  repository.NewProductRepository(db),
		Partners:  repository.NewRetailPartnerRepository(db),
		Batches:   repository.NewBatchRepository(db),
		Movements: repository.NewMovementRepository(db),
		Sales:     repository.NewSaleRepository(db),
		Stock:     repository.NewStockRepository(db),
	})
	cronCfg := worker.ExpiryCronConfig{
		Stock:      dashboard,
		Locker:     redislock.New(rdb),
		Days:       cfg.ExpiryAlertDays,
		Interval:   time.Duration(cfg.ExpiryAlertIntervalM) * time.Minute,
		ReportPath: cfg.ReportStoragePath,
	}
	if cfg.SMTPEnabled() {
		cronCfg.Emails = dispatcher
		cronCfg.AlertEmail = cfg.AlertEmail
	}
	worker.StartExpiryCron(ctx, cronCfg)

	r := router.New(router.Deps{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		Notifier: dispatcher,
		Cache:    cache,
		SMTP:     smtp,
		// Health reports the backlog; admins list it on /v1/admin/dead-letters.
		DeadLetters: deadLetters,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("inventory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
