package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"videogen-gateway/internal/config"
	"videogen-gateway/internal/metrics"
	"videogen-gateway/internal/models"
)

const (
	maxBodyBytes        = 5 << 20 // 5 MiB
	shutdownGracePeriod = 10 * time.Second
	readTimeout         = 30 * time.Second
	idleTimeout         = 120 * time.Second

	// Added to the worst-case generation time so slow answers are not cut off.
	writeTimeoutSlack = 15 * time.Second

	rateLimitMessage = "Too many requests from this IP, please try again later."
)

// VideoGenerator produces a video for a validated request. It must not fail.
type VideoGenerator interface {
	Generate(ctx context.Context, req models.GenerationRequest) models.NormalizedVideo
}

type Server struct {
	cfg       config.Config
	generator VideoGenerator
	metrics   *metrics.Collector
	app       *echo.Echo
	address   string
	startedAt time.Time
}

// New constructs an HTTP server wired with routing and middleware.
func New(cfg config.Config, gen VideoGenerator, collector *metrics.Collector) (*Server, error) {
	if gen == nil {
		return nil, errors.New("generator must not be nil")
	}
	if collector == nil {
		return nil, errors.New("metrics collector must not be nil")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	srv := &Server{
		cfg:       cfg,
		generator: gen,
		metrics:   collector,
		address:   fmt.Sprintf(":%d", cfg.Server.Port),
		startedAt: time.Now(),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = jsonErrorHandler(cfg.IsProduction())

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogLatency:   true,
		LogMethod:    true,
		LogURI:       true,
		LogRoutePath: true,
		LogStatus:    true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			route := v.RoutePath
			if route == "" {
				route = "unmatched"
			}
			srv.metrics.ObserveHTTPRequest(v.Method, route, v.Status, v.Latency)
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency_ms", v.Latency.Milliseconds(),
				"request_id", v.RequestID,
				"error", v.Error,
			)
			return nil
		},
	}))
	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "0",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "SAMEORIGIN",
		ReferrerPolicy:     "no-referrer",
	}))
	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Skipper: func(c echo.Context) bool { return c.Path() == "/metrics" },
	}))
	if len(cfg.Server.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     cfg.Server.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
			AllowCredentials: true,
		}))
	}
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))
	if dir := cfg.Server.StaticDir; dir != "" && isDir(dir) {
		e.Use(middleware.StaticWithConfig(middleware.StaticConfig{
			Root:    dir,
			Index:   "index.html",
			HTML5:   true,
			Skipper: skipAPI,
		}))
	}

	srv.app = e
	srv.registerRoutes()

	return srv, nil
}

// Run starts the HTTP server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	printStartupBanner(s.cfg)
	slog.Info("starting server", "addr", s.address, "environment", s.cfg.Server.Environment)

	httpServer := &http.Server{
		Addr:         s.address,
		Handler:      s.app,
		ReadTimeout:  readTimeout,
		WriteTimeout: s.cfg.Generation.RequestTimeout + s.cfg.Fallback.Delay + writeTimeoutSlack,
		IdleTimeout:  idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := s.app.StartServer(httpServer); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
		defer cancel()
		if err := s.app.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		slog.Info("server shutdown complete")
		return nil
	case err := <-errCh:
		return err
	}
}

func (s *Server) registerRoutes() {
	api := s.app.Group("/api")
	if limiter := s.rateLimiter(); limiter != nil {
		api.Use(limiter)
	}
	api.GET("/health", s.handleHealth)
	api.POST("/generate-video", s.handleGenerateVideo)

	s.app.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))
}

func (s *Server) rateLimiter() echo.MiddlewareFunc {
	rl := s.cfg.Server.RateLimit
	if !rl.Enabled() {
		return nil
	}

	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(rl.Requests) / rl.Window.Seconds()),
		Burst:     rl.Requests,
		ExpiresIn: rl.Window,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			slog.Warn("rate limit exceeded", "client", identifier)
			return echo.NewHTTPError(http.StatusTooManyRequests, rateLimitMessage)
		},
	})
}

func skipAPI(c echo.Context) bool {
	path := c.Request().URL.Path
	return path == "/metrics" || path == "/api" || strings.HasPrefix(path, "/api/")
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func printStartupBanner(cfg config.Config) {
	port := cfg.Server.Port
	fmt.Println()
	fmt.Println("videogen-gateway ready")
	fmt.Printf("Listening on http://localhost:%d (environment: %s)\n", port, cfg.Server.Environment)
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /api/health")
	fmt.Println("  POST /api/generate-video")
	fmt.Println("  GET  /metrics")
	fmt.Printf("Health check:\n  curl http://localhost:%d/api/health\n", port)
	fmt.Printf("Generate:\n  curl http://localhost:%d/api/generate-video -H 'Content-Type: application/json' -d '{\"prompt\":\"A dragon over a castle at sunset\"}'\n", port)
	if cfg.Replicate.HasCredential() {
		fmt.Println("Replicate API key configured.")
	} else {
		fmt.Println("Replicate API key not configured - serving sample videos (demo mode).")
	}
	fmt.Println()
}
