package main

import (
	"context"
	"log"
	"net"
	"os"
	"os/signal"
	"syscall"

	apiserver "github.com/dcm-project/hosting-adapter-manager/internal/api_server"
	"github.com/dcm-project/hosting-adapter-manager/internal/autosync"
	"github.com/dcm-project/hosting-adapter-manager/internal/config"
	"github.com/dcm-project/hosting-adapter-manager/internal/handlers"
	"github.com/dcm-project/hosting-adapter-manager/internal/logger"
	"github.com/dcm-project/hosting-adapter-manager/internal/providerapi"
	"github.com/dcm-project/hosting-adapter-manager/internal/service"
	"github.com/dcm-project/hosting-adapter-manager/internal/store"
	catalogsync "github.com/dcm-project/hosting-adapter-manager/internal/sync"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLog, err := logger.Init(cfg.Service.LogLevel, cfg.Service.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLog.Sync() }()

	// Initialize database
	db, err := store.InitDB(cfg)
	if err != nil {
		zapLog.Fatal("failed to initialize database", zap.Error(err))
	}

	// Initialize store, services, and handler
	dataStore := store.NewStore(db)
	defer dataStore.Close()

	client := providerapi.NewClient(cfg.Sync.UserAgent, cfg.Sync.MetaTimeout, cfg.Sync.CatalogTimeout)
	syncer := catalogsync.NewSyncer(dataStore, client, catalogsync.ScheduleFromConfig(cfg.AutoSync))
	adapterService := service.NewAdapterService(dataStore, syncer)
	handler := handlers.NewHandler(adapterService)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.AutoSync.Enabled {
		monitor := autosync.NewMonitor(dataStore.Adapter(), syncer, cfg.AutoSync)
		monitor.Start(ctx)
		defer monitor.Stop()
	}

	// Start server
	listener, err := net.Listen("tcp", cfg.Service.Address)
	if err != nil {
		zapLog.Fatal("failed to listen", zap.String("address", cfg.Service.Address), zap.Error(err))
	}

	srv := apiserver.New(cfg, listener, handler)

	zapLog.Info("starting server", zap.String("address", listener.Addr().String()))
	if err := srv.Run(ctx); err != nil {
		zapLog.Fatal("server failed", zap.Error(err))
	}
}
