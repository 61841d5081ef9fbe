package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/medifront/frontdesk-backend/internal/app"
	"github.com/medifront/frontdesk-backend/internal/config"
	"github.com/medifront/frontdesk-backend/internal/db"
	"github.com/medifront/frontdesk-backend/internal/pkg/clock"
	"github.com/medifront/frontdesk-backend/internal/pkg/logger"
	"github.com/medifront/frontdesk-backend/internal/schedule"
	"github.com/medifront/frontdesk-backend/internal/store"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.LogLevel, cfg.IsProduction)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer zlog.Sync()

	// Snapshot store per configured driver
	var snapshots store.Store
	switch cfg.StoreDriver {
	case config.StoreMemory:
		snapshots = store.NewMemoryStore()
	case config.StoreFile:
		snapshots, err = store.NewFileStore(cfg.DataDir)
		if err != nil {
			zlog.Fatal("failed to init file store", zap.Error(err))
		}
	case config.StorePostgres:
		pool, err := db.NewPool(ctx, cfg.DBDSN)
		if err != nil {
			zlog.Fatal("failed to connect to db", zap.Error(err))
		}
		defer pool.Close()
		snapshots = store.NewPgxStore(pool)
	}

	granules, err := schedule.Granules(cfg.SlotStart, cfg.SlotEnd, cfg.SlotInterval)
	if err != nil {
		zlog.Fatal("invalid slot window", zap.Error(err))
	}

	container, err := app.NewContainer(ctx, app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		Store:        snapshots,
		Clock:        clock.System(),
		Logger:       zlog,
		BedIDs:       cfg.BedIDs,
		SlotGranules: granules,
	})
	if err != nil {
		zlog.Fatal("failed to init application", zap.Error(err))
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		zlog.Info("server running", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreDriver))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Fatal("server error", zap.Error(err))
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	zlog.Info("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		zlog.Warn("server forced to shutdown", zap.Error(err))
	}

	zlog.Info("server exited gracefully")
}
