package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/platformbuilds/evitalab-core/internal/api"
	"github.com/platformbuilds/evitalab-core/internal/config"
	"github.com/platformbuilds/evitalab-core/internal/driver"
	"github.com/platformbuilds/evitalab-core/internal/driver/evitadb"
	"github.com/platformbuilds/evitalab-core/internal/gqlclient"
	"github.com/platformbuilds/evitalab-core/internal/grpc/clients"
	"github.com/platformbuilds/evitalab-core/internal/models"
	"github.com/platformbuilds/evitalab-core/internal/query"
	"github.com/platformbuilds/evitalab-core/internal/query/evitaql"
	"github.com/platformbuilds/evitalab-core/internal/query/graphql"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/internal/tracing"
	"github.com/platformbuilds/evitalab-core/pkg/cache"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := config.LoadSecrets(cfg); err != nil {
		log.Fatalf("Failed to load secrets: %v", err)
	}
	cfg = config.ApplyEnvironment(cfg, cfg.Environment)

	// Initialize logger
	logger := logger.New(cfg.LogLevel)
	logger.Info("Starting evitaLab core", "version", config.ServiceVersion, "environment", cfg.Environment)
	logger.Debug("Effective configuration", "config", cfg.ToJSON())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Monitoring.TracingEnabled {
		tp, err := tracing.NewTracerProvider(ctx, config.ServiceName, config.ServiceVersion,
			cfg.Monitoring.TracingEndpoint, cfg.Monitoring.TracingInsecure, cfg.Monitoring.TracingSampleRate)
		if err != nil {
			logger.Warn("Tracing disabled, exporter could not be created", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(shutdownCtx); err != nil {
					logger.Warn("Tracer provider shutdown failed", "error", err)
				}
			}()
			logger.Info("Tracing enabled", "endpoint", cfg.Monitoring.TracingEndpoint)
		}
	}
	tracing.InitGlobalTracer(config.ServiceName)

	// Valkey keeps user defined connections; fall back to memory until it is reachable
	fallback := cache.NewNoopValkeyCache(logger)
	var valkey cache.Valkey
	if len(cfg.Cache.Nodes) > 1 {
		valkey = cache.NewAutoSwapForCluster(cfg.Cache.Nodes, cfg.Cache.Password, cfg.GetCacheTTL(), logger, fallback)
	} else if len(cfg.Cache.Nodes) == 1 {
		valkey = cache.NewAutoSwapForSingle(cfg.Cache.Nodes[0], cfg.Cache.DB, cfg.Cache.Password, cfg.GetCacheTTL(), logger, fallback)
	} else {
		logger.Warn("No Valkey nodes configured, user defined connections will not survive restarts")
		valkey = fallback
	}
	store := cache.NewConnectionStore(valkey, cfg.Connections.StorageKey, logger)

	// evitaDB drivers, newest generation first
	evitaClients := clients.NewEvitaClients(cfg.GetDriverTimeout(), logger)
	defer func() {
		if err := evitaClients.Close(); err != nil {
			logger.Warn("Closing evitaDB clients failed", "error", err)
		}
	}()
	resolver, err := driver.NewResolver(driver.NewHTTPVersionFetcher(cfg.GetVersionTimeout()), logger,
		evitadb.Registry(evitaClients, logger)...)
	if err != nil {
		logger.Fatal("Failed to build driver registry", "error", err)
	}
	for _, d := range resolver.Drivers() {
		logger.Info("evitaDB driver registered", "driver", d.Name())
	}

	preconfigured, err := preconfiguredConnections(cfg)
	if err != nil {
		logger.Fatal("Invalid preconfigured connections", "error", err)
	}
	connections := services.NewConnectionService(resolver, store, logger, preconfigured)
	if err := connections.Load(ctx); err != nil {
		logger.Warn("Stored connections could not be loaded", "error", err)
	}

	gql := gqlclient.NewClient(cfg.GetGraphQLTimeout(), logger)
	viewer := services.NewEntityViewerService(connections,
		query.Builders{
			EvitaQL: evitaql.NewBuilder(connections, logger),
			GraphQL: graphql.NewBuilder(connections, logger),
		},
		query.Executors{
			EvitaQL: query.NewEvitaQLExecutor(resolver, logger),
			GraphQL: query.NewGraphQLExecutor(gql, connections, logger),
		},
		logger)

	if cfg.Connections.WatchFile && cfg.Connections.PreconfiguredFile != "" {
		watcher := config.NewConnectionsWatcher(cfg, logger)
		watcher.RegisterWatcher(func(list []config.PreconfiguredConnection) {
			conns, err := toConnections(list)
			if err != nil {
				logger.Error("Reloaded preconfigured connections rejected", "error", err)
				return
			}
			connections.ReplacePreconfigured(conns)
		})
		go func() {
			if err := watcher.Start(ctx); err != nil {
				logger.Error("Connections watcher failed", "error", err)
			}
		}()
	}

	apiServer := api.NewServer(cfg, logger, api.Services{
		Connections:  connections,
		EntityViewer: viewer,
		Tasks:        services.NewTaskService(connections, logger),
		Traffic:      services.NewTrafficViewerService(connections, logger),
		Cache:        valkey,
	})

	if err := apiServer.Start(ctx); err != nil {
		logger.Fatal("Server failed to start", "error", err)
	}

	logger.Info("evitaLab core shutdown complete")
}

func preconfiguredConnections(cfg *config.Config) ([]*models.Connection, error) {
	list, err := cfg.PreconfiguredConnections()
	if err != nil {
		return nil, err
	}
	return toConnections(list)
}

func toConnections(list []config.PreconfiguredConnection) ([]*models.Connection, error) {
	out := make([]*models.Connection, 0, len(list))
	for _, p := range list {
		conn, err := models.NewPreconfiguredConnection(p.ID, p.Name, p.ServerURL)
		if err != nil {
			return nil, err
		}
		out = append(out, conn)
	}
	return out, nil
}
