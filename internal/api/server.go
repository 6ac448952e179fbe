package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"productposts/internal/api/handlers"
	"productposts/internal/api/middleware"
	"productposts/internal/config"
	"productposts/internal/logger"
	"productposts/internal/repository"

	"github.com/gin-gonic/gin"
)

// Dependencies are the collaborators the HTTP layer is built on. Queue is
// optional.
type Dependencies struct {
	Posts       repository.PostRepository
	Settings    repository.SettingRepository
	Importer    handlers.ImportRunner
	Queue       handlers.ImportQueue
	ValidateKey handlers.KeyValidator
}

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

func New(cfg *config.Config, logger *logger.Logger, deps Dependencies) *Server {
	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())

	// Initialize handlers
	importHandler := handlers.NewImportHandler(deps.Importer, deps.Queue, logger)
	productHandler := handlers.NewProductHandler(deps.Posts, logger)
	settingsHandler := handlers.NewSettingsHandler(deps.Settings, deps.ValidateKey, logger)

	router.GET("/healthz", handlers.Health)

	// Routes
	v1 := router.Group("/api/v1", middleware.AdminToken(cfg.AdminToken))
	{
		imports := v1.Group("/imports")
		{
			imports.POST("", importHandler.Create)
			imports.POST("/batch", importHandler.Batch)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
			products.DELETE("/:id", productHandler.Delete)
		}

		settings := v1.Group("/settings")
		{
			settings.GET("", settingsHandler.Get)
			settings.PUT("", settingsHandler.Update)
			settings.DELETE("", settingsHandler.Delete)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
		server: &http.Server{
			Addr:    fmt.Sprintf("%s:%s", cfg.APIHost, cfg.APIPort),
			Handler: router,
			// Imports wait on Diffbot, so the write deadline leaves room for
			// its client timeout.
			ReadTimeout:  15 * time.Second,
			WriteTimeout: cfg.DiffbotTimeout + 15*time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

func (s *Server) Start() error {
	s.logger.Info("Starting server on " + s.server.Addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

func (s *Server) Router() *gin.Engine {
	return s.router
}
