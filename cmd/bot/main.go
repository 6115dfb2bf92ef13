package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/dafibh/cinelist/cinelist-backend/docs"
	"github.com/dafibh/cinelist/cinelist-backend/internal/bot"
	"github.com/dafibh/cinelist/cinelist-backend/internal/config"
	"github.com/dafibh/cinelist/cinelist-backend/internal/handler"
	"github.com/dafibh/cinelist/cinelist-backend/internal/middleware"
	"github.com/dafibh/cinelist/cinelist-backend/internal/repository/postgres"
	"github.com/dafibh/cinelist/cinelist-backend/internal/service"
	"github.com/dafibh/cinelist/cinelist-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// @title CineList API
// @version 1.0
// @description Conversational movie watchlist backend
// @BasePath /api/v1
// @securityDefinitions.apikey WebhookSecret
// @in header
// @name X-Bot-Api-Secret-Token
func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("Unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	// Connect to database
	pool, err := postgres.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pool.Close()
	log.Info().Msg("Connected to database")

	if err := postgres.Migrate(context.Background(), pool); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(pool)
	movieRepo := postgres.NewMovieRepository(pool)

	// Public feed hub
	hub := websocket.NewHub()

	// Initialize services
	movieService := service.NewMovieService(movieRepo, userRepo)
	movieService.SetEventPublisher(hub)

	router := bot.NewRouter(movieService)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitPerMinute > 0 {
		rateLimiter = middleware.NewRateLimiterWithConfig(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
		defer rateLimiter.Stop()
	}
	if cfg.WebhookSecret == "" {
		log.Warn().Msg("WEBHOOK_SECRET is not set, the event endpoint accepts unauthenticated requests")
	}

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(pool)
	eventHandler := handler.NewEventHandler(router, rateLimiter)
	wsHandler := handler.NewWebSocketHandler(hub, cfg.CORSOrigins)
	servers := []handler.Server{{URL: "http://localhost:" + cfg.Port + "/api/v1", Description: "Local Development"}}
	if cfg.PublicURL != "" {
		servers = append(servers, handler.Server{URL: cfg.PublicURL + "/api/v1", Description: "Production"})
	}
	openAPIHandler := handler.NewOpenAPIHandler(servers...)

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Inbound events are small JSON documents
	e.Use(echomiddleware.BodyLimit("64K"))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Register routes
	handler.RegisterRoutes(e, healthHandler, eventHandler, wsHandler, openAPIHandler, middleware.WebhookSecret(cfg.WebhookSecret))

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
