package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/studyplan-backend/internal/config"
	"github.com/yungbote/studyplan-backend/internal/data/db"
	"github.com/yungbote/studyplan-backend/internal/data/repos"
	apphttp "github.com/yungbote/studyplan-backend/internal/http"
	"github.com/yungbote/studyplan-backend/internal/observability"
	"github.com/yungbote/studyplan-backend/internal/platform/logger"
	"github.com/yungbote/studyplan-backend/internal/services"
)

const serviceName = "studyplan-backend"

// Version is stamped at build time via -ldflags.
var Version = "dev"

type App struct {
	Log      *logger.Logger
	Cfg      *config.Config
	Store    *db.Service
	Repos    repos.Repos
	Clients  Clients
	Services Services
	Metrics  *observability.Metrics
	Server   *apphttp.Server

	shutdownOTel func(context.Context) error
}

// New builds the full serving graph. Callers own Close.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	if log == nil {
		log = logger.Nop()
	}

	shutdownOTel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Env,
		Version:     Version,
	})

	store, err := openStore(cfg, log)
	if err != nil {
		_ = shutdownOTel(ctx)
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, cfg, log, metrics)
	if err != nil {
		_ = store.Close()
		_ = shutdownOTel(ctx)
		return nil, err
	}

	reposet := repos.New(store.DB(), log)
	serviceset := wireServices(store.DB(), log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset, metrics)

	metricsPath := ""
	if metrics != nil {
		metricsPath = cfg.Metrics.Path
	}
	server := apphttp.NewServer(apphttp.ServerConfig{
		Addr:              cfg.HTTP.Addr,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout.Duration,
		IdleTimeout:       cfg.HTTP.IdleTimeout.Duration,
		ShutdownTimeout:   cfg.HTTP.ShutdownTimeout.Duration,
	}, apphttp.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		CORSOrigins:      cfg.HTTP.CORSOrigins,
		MaxRequestBytes:  cfg.HTTP.MaxRequestBytes,
		Metrics:          metrics,
		MetricsPath:      metricsPath,
		HealthHandler:    handlerset.Health,
		PlanHandler:      handlerset.Plan,
		StudyPlanHandler: handlerset.StudyPlan,
		CatalogHandler:   handlerset.Catalog,
	}, log)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		Repos:        reposet,
		Clients:      clients,
		Services:     serviceset,
		Metrics:      metrics,
		Server:       server,
		shutdownOTel: shutdownOTel,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Server.Run(ctx)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if err := a.Clients.Close(); err != nil {
		a.Log.Warn("redis close failed", "error", err)
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.Log.Warn("db close failed", "error", err)
		}
	}
	if a.shutdownOTel != nil {
		if err := a.shutdownOTel(context.Background()); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}

// Migrate applies the schema regardless of db.auto_migrate.
func Migrate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	c := *cfg
	c.DB.AutoMigrate = false
	store, err := openStore(&c, log)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := db.AutoMigrateAll(store.DB().WithContext(ctx)); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("schema migrated", "driver", cfg.DB.Driver)
	return nil
}

// Seed loads a catalog document into the configured database. No LLM
// client is built.
func Seed(ctx context.Context, cfg *config.Config, log *logger.Logger, raw []byte) (*services.SeedResult, error) {
	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	defer store.Close()
	reposet := repos.New(store.DB(), log)
	return wireSeed(store.DB(), log, reposet).Seed(ctx, raw)
}

func openStore(cfg *config.Config, log *logger.Logger) (*db.Service, error) {
	store, err := db.NewService(cfg.DB, log)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if cfg.DB.AutoMigrate {
		if err := db.AutoMigrateAll(store.DB()); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
	}
	return store, nil
}
