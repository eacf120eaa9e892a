package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ezBadminton/tourneymgr/app"
	"github.com/ezBadminton/tourneymgr/backup"
	"github.com/ezBadminton/tourneymgr/config"
	"github.com/ezBadminton/tourneymgr/server"
	"github.com/ezBadminton/tourneymgr/storage"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	logger.Info("configuration loaded",
		slog.Int("port", cfg.ServerPort),
		slog.String("store", cfg.StoreDriver),
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(cfg.StoreDriver, cfg.StorePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", slog.Any("error", err))
		}
	}()

	manager := app.NewManager(store, logger)
	defer manager.Close()
	manager.Hydrate(ctx)

	scheduler, err := newBackupScheduler(ctx, cfg, manager, logger)
	if err != nil {
		return err
	}

	hub := server.NewHub(logger)
	srv, unsubscribe := server.New(manager, hub, logger)
	defer unsubscribe()

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      srv.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})

	if scheduler != nil {
		scheduler.Start()
		g.Go(func() error {
			<-gctx.Done()
			scheduler.Stop()
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("starting server", slog.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Returns nil when backups are disabled. Backups go to R2 when it is
// configured and to the backup directory otherwise.
func newBackupScheduler(
	ctx context.Context,
	cfg *config.Config,
	exporter backup.Exporter,
	logger *slog.Logger,
) (*backup.Scheduler, error) {
	if cfg.BackupCron == "" {
		logger.Info("backups disabled")
		return nil, nil
	}

	var uploader backup.Uploader = backup.DirUploader{Dir: cfg.BackupDir}
	if cfg.R2.Complete() {
		r2, err := backup.NewR2Uploader(ctx, backup.R2Config{
			AccountID:       cfg.R2.AccountID,
			AccessKeyID:     cfg.R2.AccessKeyID,
			SecretAccessKey: cfg.R2.SecretAccessKey,
			BucketName:      cfg.R2.Bucket,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize R2 uploader: %w", err)
		}
		uploader = r2
		logger.Info("backups go to Cloudflare R2", slog.String("bucket", cfg.R2.Bucket))
	}

	scheduler, err := backup.New(cfg.BackupCron, exporter, uploader, logger)
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}
