package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"idp-hub/config"
	"idp-hub/internal/adapter/gateway"
	adapterhandler "idp-hub/internal/adapter/handler"
	"idp-hub/internal/usecase"
	appmiddleware "idp-hub/middleware"
	"idp-hub/utils/logger"
	"idp-hub/utils/otel"
	"idp-hub/utils/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Handle healthcheck subcommand (for Docker healthcheck in distroless image)
	if len(os.Args) > 1 && os.Args[1] == "healthcheck" {
		if err := runHealthcheck(); err != nil {
			fmt.Fprintf(os.Stderr, "Healthcheck failed: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Initialize OpenTelemetry
	otelCfg := otel.ConfigFromEnv()
	otelShutdown, err := otel.InitProvider(ctx, otelCfg)
	if err != nil {
		slog.Warn("failed to initialize OpenTelemetry, continuing without tracing", "error", err)
		otelCfg.Enabled = false
		otelShutdown = func(context.Context) error { return nil }
	}

	// Initialize structured logger
	logger.Init()

	// Load configuration; invalid startup configuration is fatal
	cfg, err := config.Load()
	if err != nil {
		slog.ErrorContext(ctx, "failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "configuration loaded",
		"keycloak_url", cfg.KeycloakURL,
		"port", cfg.Port,
		"session_ttl", cfg.SessionTTL.String(),
		"upstream_timeout", cfg.UpstreamTimeout.String())

	// Upstream gateway and usecases
	keycloakGateway := gateway.NewKeycloakGateway(cfg.KeycloakURL, cfg.UpstreamTimeout)
	sessions := usecase.NewSessionManager(keycloakGateway, cfg.AdminUsername, cfg.AdminPassword, cfg.SessionTTL, slog.Default())
	resolver := usecase.NewResolveClient(keycloakGateway, slog.Default())
	reconciler := usecase.NewReconcileRoles(keycloakGateway, slog.Default())
	dispatcher := usecase.NewDispatcher(validator.New(), sessions, keycloakGateway, resolver, reconciler, slog.Default())

	// Handlers
	commandHandler := adapterhandler.NewCommandHandler(dispatcher)
	catalogHandler := adapterhandler.NewCatalogHandler()
	healthHandler := adapterhandler.NewHealthHandler()

	// Setup Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(appmiddleware.SecurityHeaders())

	if otelCfg.Enabled {
		e.Use(otelecho.Middleware(otelCfg.ServiceName))
	}

	// Request logging
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		Skipper: func(c echo.Context) bool {
			return c.Request().URL.Path == "/health"
		},
		LogStatus:   true,
		LogURI:      true,
		LogError:    true,
		LogMethod:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			rctx := c.Request().Context()
			if v.Error == nil {
				slog.InfoContext(rctx, "request completed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds())
			} else {
				slog.ErrorContext(rctx, "request failed",
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency_ms", v.Latency.Milliseconds(),
					"error", v.Error.Error())
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	// Rate limiters per endpoint group
	commandRL := appmiddleware.NewRateLimiter(60.0/60.0, 10) // 60 req/min
	catalogRL := appmiddleware.NewRateLimiter(30.0/60.0, 5)  // 30 req/min

	e.GET("/health", healthHandler.Handle)

	// Command API, optionally protected by a shared secret
	v1 := e.Group("/v1")
	if cfg.AdminSharedSecret != "" {
		v1.Use(appmiddleware.InternalAuth(cfg.AdminSharedSecret))
	}
	v1.GET("/commands", catalogHandler.Handle, catalogRL.Middleware())
	v1.POST("/commands/:name", commandHandler.Handle, commandRL.Middleware())

	// Start server with errgroup for graceful shutdown
	address := fmt.Sprintf(":%s", cfg.Port)
	slog.InfoContext(ctx, "starting idp-hub server", "address", address)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		slog.Info("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return otelShutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited properly")
}

// runHealthcheck performs a health check against the local server.
func runHealthcheck() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://127.0.0.1:%s/health", port))
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health endpoint returned status: %d", resp.StatusCode)
	}
	return nil
}
