package api

import (
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/taskboard/taskboard-api/internal/api/handler"
	"github.com/taskboard/taskboard-api/internal/api/middleware"
	"github.com/taskboard/taskboard-api/internal/broadcast"
	"github.com/taskboard/taskboard-api/internal/core/service"
	mongodb "github.com/taskboard/taskboard-api/internal/infrastructure/db/mongo"
	redisdb "github.com/taskboard/taskboard-api/internal/infrastructure/db/redis"
	"github.com/taskboard/taskboard-api/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	taskRepo := mongodb.NewTaskRepository(db)
	sessions := redisdb.NewSessionStore(rdb, cfg.SessionTTL)

	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, sessions, tokenService, log)
	taskService := service.NewTaskService(taskRepo, log)

	registry := broadcast.NewRegistry(log)
	sseHandler := broadcast.NewSSEHandler(registry)

	userHandler := handler.NewUserHandler(userService)
	taskHandler := handler.NewTaskHandler(taskService, registry)
	auth := middleware.Auth(tokenService, userRepo, sessions)

	// --- User routes ---
	e.POST("/user", userHandler.Register)
	e.POST("/user/login", userHandler.Login)
	e.GET("/user", userHandler.List)
	e.PUT("/user", userHandler.UpdateProfile, auth)
	e.PUT("/user/updatePassword", userHandler.UpdatePassword, auth)
	e.DELETE("/user/logout", userHandler.Logout, auth)

	// --- Task routes ---
	e.GET("/task", taskHandler.List, auth)
	e.GET("/task/:id", taskHandler.Get, auth)
	e.POST("/task", taskHandler.Create)
	e.PUT("/task/:id", taskHandler.Update, auth)
	e.DELETE("/task/:id", taskHandler.Delete)

	// --- Real-time channel ---
	e.GET("/events", sseHandler.Stream)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
