package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/config"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/infra"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/repository"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/router"
	"github.com/JZEE-AI-Solutions/asanOrder-sub001/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Composition root for the async side: worker handlers are wired here so
	// the pool has full access to infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	notifyClient := infra.NewNotifyClient(cfg.NotifySidecarURL)
	mailer := infra.NewMailer(cfg)
	notifyCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)

	notificationRepo := repository.NewNotificationRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	tenantRepo := repository.NewTenantRepository(db)

	handlers := worker.Handlers{
		Notification: worker.NewNotificationWorker(notifyClient, notificationRepo),
		Email:        worker.NewEmailWorker(mailer, purchaseRepo, tenantRepo, cfg.PDFStoragePath),
	}
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, handlers)
	worker.StartRetryCron(ctx, worker.RetryCronConfig{
		NotificationRepo: notificationRepo,
		Client:           notifyClient,
		CB:               notifyCB,
		RDB:              rdb,
	})

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("asanOrder backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
