package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/groblegark/catalog/internal/backup"
	"github.com/groblegark/catalog/internal/config"
	"github.com/groblegark/catalog/internal/events"
	"github.com/groblegark/catalog/internal/server"
	"github.com/groblegark/catalog/internal/store/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the catalog server",
	// Override PersistentPreRunE so we don't create an API client.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = &events.NoopPublisher{}
			logger.Info("events disabled (CATALOG_NATS_URL not set)")
		}

		auth := server.NewAuthenticator(cfg.JWTSecret, cfg.TokenTTL)
		catalogServer := server.NewCatalogServer(store, publisher, auth, logger)

		httpServer := &http.Server{
			Addr:    cfg.HTTPAddr,
			Handler: catalogServer.NewHTTPHandler(),
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start the backup scheduler if a destination is configured.
		var scheduler *backup.Scheduler
		if cfg.BackupInterval > 0 && cfg.BackupS3Bucket != "" {
			s3Dest, err := backup.NewS3Destination(
				context.Background(),
				cfg.BackupS3Bucket,
				cfg.BackupS3Key,
				cfg.BackupS3Region,
				cfg.BackupS3Endpoint,
			)
			if err != nil {
				logger.Error("failed to create S3 backup destination", "err", err)
			} else {
				scheduler = backup.NewScheduler(store, []backup.Destination{s3Dest}, cfg.BackupInterval, logger)
				scheduler.Start()
				logger.Info("backup scheduler started",
					"interval", cfg.BackupInterval,
					"bucket", cfg.BackupS3Bucket,
					"key", cfg.BackupS3Key,
				)
			}
		}

		logger.Info("catalog server started", "http_addr", cfg.HTTPAddr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("backup scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
