package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/platformbuilds/evitalab-core/internal/api/handlers"
	"github.com/platformbuilds/evitalab-core/internal/api/middleware"
	"github.com/platformbuilds/evitalab-core/internal/config"
	"github.com/platformbuilds/evitalab-core/internal/monitoring"
	"github.com/platformbuilds/evitalab-core/internal/services"
	"github.com/platformbuilds/evitalab-core/pkg/logger"
)

// Services bundles what the HTTP layer serves
type Services struct {
	Connections  *services.ConnectionService
	EntityViewer *services.EntityViewerService
	Tasks        *services.TaskService
	Traffic      *services.TrafficViewerService
	Cache        handlers.HealthChecker // may be nil
}

type Server struct {
	config     *config.Config
	logger     logger.Logger
	services   Services
	router     *gin.Engine
	httpServer *http.Server
}

func NewServer(cfg *config.Config, log logger.Logger, svc Services) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	server := &Server{
		config:   cfg,
		logger:   log,
		services: svc,
		router:   gin.New(),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())

	// CORS for the lab web UI
	s.router.Use(middleware.CORSMiddleware(s.config.CORS))

	s.router.Use(middleware.RequestLogger(s.logger))

	if s.config.Monitoring.Enabled {
		s.router.Use(middleware.MetricsMiddleware())
	}
	if s.config.Monitoring.TracingEnabled {
		s.router.Use(middleware.Tracing(config.ServiceName))
	}

	if s.config.Monitoring.Enabled && s.config.Monitoring.PrometheusEnabled {
		monitoring.SetupPrometheusMetrics(s.router, s.config.Monitoring.MetricsPath)
	}
}

func (s *Server) setupRoutes() {
	health := handlers.NewHealthHandler(s.services.Cache, s.services.Connections, s.logger)
	s.router.GET("/health", health.HealthCheck)
	s.router.GET("/ready", health.ReadinessCheck)

	v1 := s.router.Group("/api/" + config.APIVersion)
	v1.GET("/health", health.HealthCheck)
	v1.GET("/ready", health.ReadinessCheck)

	connections := handlers.NewConnectionHandler(s.services.Connections, s.services.Tasks, s.logger)
	queries := handlers.NewQueryHandler(s.services.Connections, s.services.EntityViewer, s.logger)
	tasks := handlers.NewTaskHandler(s.services.Connections, s.services.Tasks, s.logger)
	traffic := handlers.NewTrafficHandler(s.services.Connections, s.services.Traffic, s.logger)

	v1.GET("/connections", connections.ListConnections)
	v1.POST("/connections", connections.CreateConnection)

	conn := v1.Group("/connections/:connectionId")
	conn.GET("", connections.GetConnection)
	conn.DELETE("", connections.DeleteConnection)
	conn.GET("/server-status", connections.GetServerStatus)

	// Server files (backups, exports)
	conn.GET("/files", connections.ListFiles)
	conn.DELETE("/files/:fileId", connections.DeleteFile)

	// Tasks
	conn.GET("/tasks", tasks.ListTasks)
	conn.DELETE("/tasks/:taskId", tasks.CancelTask)
	conn.POST("/restore", tasks.RestoreCatalog)

	// Catalogs
	conn.GET("/catalogs", connections.GetCatalogs)
	conn.POST("/catalogs", connections.CreateCatalog)

	catalog := conn.Group("/catalogs/:catalog")
	catalog.PUT("", connections.RenameCatalog)
	catalog.DELETE("", connections.DropCatalog)
	catalog.GET("/schema", connections.GetCatalogSchema)
	catalog.POST("/query", queries.RawQuery)
	catalog.POST("/backup", tasks.BackupCatalog)
	catalog.POST("/traffic", traffic.GetTrafficHistory)

	// Collections
	catalog.POST("/collections", connections.CreateCollection)
	collection := catalog.Group("/collections/:entityType")
	collection.PUT("", connections.RenameCollection)
	collection.DELETE("", connections.DropCollection)
	collection.POST("/query", queries.QueryCollection)
	collection.GET("/properties", queries.PropertyDescriptors)
	collection.POST("/order-by", queries.BuildOrderBy)
}

func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: s.config.GetDriverTimeout() + 30*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("evitaLab core REST API server starting", "port", s.config.Port)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("Shutting down evitaLab core gracefully")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultShutdownTimeout*time.Millisecond)
	defer cancel()

	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the underlying Gin engine so tests (or embedders) can mount it.
func (s *Server) Handler() http.Handler {
	return s.router
}
