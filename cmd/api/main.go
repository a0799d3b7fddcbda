package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"buyers-backend/internal/config"
	"buyers-backend/internal/domain"
	"buyers-backend/internal/handlers"
	"buyers-backend/internal/importer"
	"buyers-backend/internal/store"
	"buyers-backend/internal/tagsync"
	"buyers-backend/pkg/observability"
)

const sessionTTL = 2 * time.Hour

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}

	metrics := observability.NewMetrics("buyers", prometheus.DefaultRegisterer)

	client, err := store.NewClient(cfg, metrics, logger)
	if err != nil {
		logger.Fatal("Failed to create store client", zap.Error(err))
	}

	// Runtime-tunable limits: file-backed when configured, static otherwise.
	defaults := config.Limits{
		SyncMinIntervalMS: int(cfg.SyncMinInterval / time.Millisecond),
		ImportBatchSize:   cfg.ImportBatchSize,
	}
	minInterval := func() time.Duration { return cfg.SyncMinInterval }
	batchSize := func() int { return cfg.ImportBatchSize }
	if cfg.LimitsFile != "" {
		watcher, err := config.NewLimitsWatcher(cfg.LimitsFile, defaults, logger)
		if err != nil {
			logger.Fatal("Failed to watch limits file", zap.Error(err))
		}
		defer watcher.Stop()
		minInterval = watcher.SyncMinInterval
		batchSize = func() int { return watcher.Current().ImportBatchSize }
	}

	catalog := store.NewCatalog(client, cfg)
	entities := store.NewEntities(client, cfg)
	microLinks := store.NewLinks(client, cfg.MicroLinksTable, "entity_id", "micro_id")
	macroLinks := store.NewLinks(client, cfg.MacroLinksTable, "entity_id", "macro_id")

	syncers := map[domain.TagKind]*tagsync.Syncer{
		domain.TagKindMicro: tagsync.NewSyncer(domain.TagKindMicro, catalog, microLinks, minInterval, metrics, logger),
		domain.TagKindMacro: tagsync.NewSyncer(domain.TagKindMacro, catalog, macroLinks, minInterval, metrics, logger),
	}
	sessions := tagsync.NewSessionStore(sessionTTL)

	router := handlers.NewRouter(
		client,
		handlers.NewAuthHandler(client, logger),
		handlers.NewEntityHandler(entities, logger),
		handlers.NewSyncHandler(syncers, sessions, logger),
		handlers.NewImportHandler(importer.New(entities, batchSize, metrics, logger), logger),
		logger,
		cfg.EnableCORS,
		cfg.EnableMetrics,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}
	logger.Sync()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
