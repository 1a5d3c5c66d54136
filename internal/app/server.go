// File: internal/app/server.go
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"dentalhub_backend/internal/application"
	"dentalhub_backend/internal/article"
	"dentalhub_backend/internal/common"
	"dentalhub_backend/internal/config"
	"dentalhub_backend/internal/event"
	"dentalhub_backend/internal/firebase"
	"dentalhub_backend/internal/forum"
	"dentalhub_backend/internal/job"
	"dentalhub_backend/internal/jobs"
	"dentalhub_backend/internal/middleware"
	"dentalhub_backend/internal/moderation"
	"dentalhub_backend/internal/notification"
	"dentalhub_backend/internal/platform/search"
	"dentalhub_backend/internal/shared"
	"dentalhub_backend/internal/user"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server struct holds the dependencies for the HTTP server.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	cfg        *config.Config
	logger     *zap.Logger

	// Exposed for startup tasks in main (index creation).
	ESClient  *search.ESClientWrapper
	AppLogger *zap.Logger

	scheduler *jobs.Scheduler
}

// NewServer creates a new instance of our application server.
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	userHandler *user.Handler,
	articleHandler *article.Handler,
	eventHandler *event.Handler,
	jobHandler *job.Handler,
	forumHandler *forum.Handler,
	applicationHandler *application.Handler,
	notificationHandler *notification.Handler,
	moderationHandler *moderation.Handler,
	scheduler *jobs.Scheduler,
	esClient *search.ESClientWrapper,
	firebaseService *firebase.FirebaseService,
	userService shared.Service,
) (*Server, error) {
	gin.SetMode(cfg.GinMode)
	router := gin.New()

	// --- Global Middleware ---
	router.Use(middleware.ZapLogger(logger, cfg))
	router.Use(middleware.ErrorHandler(logger))
	router.Use(gin.Recovery())

	// CORS Middleware
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader}
	corsConfig.AllowCredentials = true
	corsConfig.ExposeHeaders = []string{"Content-Length", middleware.RequestIDHeader}
	router.Use(cors.New(corsConfig))

	// Create middleware instances
	authMW := middleware.AuthMiddleware(firebaseService, userService, logger.Named("AuthMiddleware"))
	adminRoleMW := middleware.RoleAuthMiddleware(common.RoleAdmin)

	// --- Setup Routes ---
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "DentalHub API is healthy!"})
	})

	v1 := router.Group("/api/v1")

	userHandler.RegisterRoutes(v1, authMW)
	articleHandler.RegisterRoutes(v1, authMW)
	eventHandler.RegisterRoutes(v1, authMW)
	jobHandler.RegisterRoutes(v1, authMW)
	forumHandler.RegisterRoutes(v1, authMW)
	applicationHandler.RegisterRoutes(v1, authMW, adminRoleMW)
	moderationHandler.RegisterRoutes(v1, authMW, adminRoleMW)

	notificationGroup := v1.Group("/notifications", authMW)
	notificationHandler.RegisterRoutes(notificationGroup)

	addr := fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort)
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		router:     router,
		cfg:        cfg,
		logger:     logger,
		ESClient:   esClient,
		AppLogger:  logger,
		scheduler:  scheduler,
	}, nil
}

func (s *Server) Start() error {
	if s.scheduler != nil {
		if err := s.scheduler.SetupAndStart(); err != nil {
			s.logger.Error("Failed to setup and start background jobs", zap.Error(err))
		}
	} else {
		s.logger.Info("Background job scheduler is not configured, skipping start.")
	}

	s.logger.Info("HTTP Server starting",
		zap.String("address", s.httpServer.Addr),
		zap.String("gin_mode", s.cfg.GinMode),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}
	s.logger.Info("HTTP Server stopped gracefully or an error occurred")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Attempting graceful server shutdown...")
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return s.httpServer.Shutdown(ctx)
}
