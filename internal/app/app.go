package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/studyplanner-backend/internal/data/db"
	"github.com/yungbote/studyplanner-backend/internal/http"
	"github.com/yungbote/studyplanner-backend/internal/observability"
	"github.com/yungbote/studyplanner-backend/internal/platform/logger"
	"github.com/yungbote/studyplanner-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *http.Server
	Cfg      Config
	Clients  Clients
	Repos    Repos
	Services Services
	SSEHub   *realtime.SSEHub
	Metrics  *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
	closeOnce    sync.Once
}

func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Env,
		Version:     cfg.Version,
	}, cfg.Otel)
	metrics := observability.Init(log)

	dbService, err := db.Open(log, cfg.DB)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	theDB := dbService.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	sqlDB, err := theDB.DB()
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("database handle: %w", err)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	ssehub := realtime.NewSSEHub(log)
	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clients, ssehub)
	if err != nil {
		clients.Close()
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, sqlDB, serviceset, ssehub)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		SSEHub:       ssehub,
		Metrics:      metrics,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Start launches background work: cross-instance SSE forwarding and the
// metrics collectors. It is a no-op when already started.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Clients.SSEBus != nil {
		if err := a.Clients.SSEBus.StartForwarder(ctx, a.SSEHub.Broadcast); err != nil {
			return fmt.Errorf("start SSE forwarder: %w", err)
		}
	}
	a.Metrics.StartDBCollector(ctx, a.Log, a.DB)
	if a.Clients.Redis != nil {
		a.Metrics.StartRedisCollector(ctx, a.Log, a.Clients.Redis)
	}
	return nil
}

// Run starts background work and serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if err := a.Start(ctx); err != nil {
		return err
	}
	a.Log.Info("Server listening", "address", a.Cfg.Address, "db_driver", a.dbService.Driver())
	return a.Server.Run(ctx, a.Cfg.Address)
}

// Close releases everything New and Start acquired. Safe to call twice.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.closeOnce.Do(a.close)
}

func (a *App) close() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.dbService != nil {
		if err := a.dbService.Close(); err != nil {
			a.Log.Warn("database close failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
