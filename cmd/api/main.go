package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/zizouhuweidi/quizzical/internal/config"
	"github.com/zizouhuweidi/quizzical/internal/database"
	"github.com/zizouhuweidi/quizzical/internal/events"
	"github.com/zizouhuweidi/quizzical/internal/handler"
	"github.com/zizouhuweidi/quizzical/internal/logging"
	"github.com/zizouhuweidi/quizzical/internal/service"
	"github.com/zizouhuweidi/quizzical/internal/websocket"
)

func main() {
	cfg, err := config.Parse(os.Args[0], os.Args[1:])
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		slog.Error("Failed to set up logging", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		slog.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize database connection
	pool, err := database.ConnectPostgres(ctx, database.PostgresConfig{
		URL:            cfg.DatabaseURL,
		MaxConns:       cfg.DBMaxConns,
		ConnectTimeout: 5 * time.Second,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	// Initialize websocket hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// Redis carries content events and rate limits. Without it the API still
	// serves content, with no live feed and no limits.
	var (
		publisher service.Publisher
		limiter   handler.Limiter
	)
	redisClient, err := database.ConnectRedis(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		slog.Warn("Redis unavailable, content feed and rate limiting disabled", "addr", cfg.RedisAddr, "error", err)
	} else {
		defer redisClient.Close()

		eventManager := events.NewManager(redisClient)
		publisher = eventManager
		limiter = eventManager

		go func() {
			if err := eventManager.Forward(ctx, hub.Broadcast); err != nil {
				slog.Error("Content feed stopped", "error", err)
			}
		}()
	}

	// Initialize services
	quizService := service.NewQuizService(database.NewSessions(pool), publisher, service.Options{
		ActivateCategoryOnCreate: cfg.ActivateCategoryOnCreate,
	})

	// Initialize handlers
	categoryHandler := handler.NewCategoryHandler(quizService)
	questionHandler := handler.NewQuestionHandler(quizService)
	wsHandler := handler.NewWebSocketHandler(hub)

	// Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(handler.RequestLogger(logger))
	e.Use(middleware.CORS())

	writeLimit := handler.RateLimit(limiter, cfg.RateLimit, cfg.RateWindow)

	// Routes
	api := e.Group("/api")
	categoryHandler.Register(api, writeLimit)
	questionHandler.Register(api, writeLimit)

	// WebSocket route
	e.GET("/ws", wsHandler.HandleWebSocket)

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Start server
	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting server", "addr", cfg.HTTPAddr)
		if err := e.Start(cfg.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	return e.Shutdown(shutdownCtx)
}
