package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"sitecms/docs"
	"sitecms/internal/config"
	"sitecms/internal/database"
	"sitecms/internal/database/migration"
	handlers "sitecms/internal/http/handler"
	"sitecms/internal/http/middleware"
	"sitecms/internal/logging"
	"sitecms/internal/otel"
	"sitecms/internal/repository"
	"sitecms/internal/repository/file"
	"sitecms/internal/repository/objectstore"
	"sitecms/internal/repository/postgres"
	"sitecms/internal/service"
	"sitecms/internal/storage"
)

// @title Site Content API
// @version 1.0
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	logger, err := logging.New(cfg.Log, cfg.Location())
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("server_exit", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) error {
	shutdownTracing, err := otel.Init(ctx, "sitecms", logger)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	repo, closeRepo, err := newContentRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeRepo()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics, err := service.NewMetrics(reg)
	if err != nil {
		return fmt.Errorf("register service metrics: %w", err)
	}
	httpMetrics, err := middleware.NewHTTPMetrics(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	contentSvc := service.NewContentService(repo, logger, metrics)
	authSvc := service.NewAuthService(cfg.Admin.PasswordHash, cfg.Admin.SessionTTL, logger)

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimit,
		DisableStartupMessage: true,
	})

	// RequestID first so every later middleware and handler can read it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, contentSvc, authSvc, handlers.RouteOptions{
		RequireSession: cfg.Admin.RequireSession,
		Gatherer:       reg,
	})

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	addr := ":" + cfg.Port
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server_start",
			zap.String("addr", addr),
			zap.String("store_backend", cfg.Store.Backend),
			zap.Bool("require_session", cfg.Admin.RequireSession),
		)
		if err := app.Listen(addr); err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("server_shutdown")
		return app.ShutdownWithTimeout(10 * time.Second)
	})
	return g.Wait()
}

// newContentRepository builds the repository for the configured backend. The returned
// func releases whatever the backend opened.
func newContentRepository(ctx context.Context, cfg *config.AppConfig, logger *zap.Logger) (repository.ContentRepository, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendFile:
		return file.NewContentFile(cfg.Store.DataFile), func() {}, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, logger, cfg.Database.Host); err != nil {
			db.Close()
			return nil, nil, err
		}
		return postgres.NewContentPostgres(db), func() { db.Close() }, nil

	case config.BackendMinIO:
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return nil, nil, fmt.Errorf("initialize object storage: %w", err)
		}
		return objectstore.NewContentObjectStore(objStore, cfg.MinIO.ObjectKey), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
