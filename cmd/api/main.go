package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"screenshop/internal/config"
	"screenshop/internal/database"
	handlers "screenshop/internal/http/handler"
	"screenshop/internal/http/middleware"
	"screenshop/internal/imaging"
	"screenshop/internal/llm"
	"screenshop/internal/llm/anthropic"
	"screenshop/internal/llm/gemini"
	"screenshop/internal/logging"
	"screenshop/internal/otel"
	"screenshop/internal/repository"
	"screenshop/internal/repository/postgres"
	"screenshop/internal/service"
	"screenshop/internal/storage"
	"screenshop/internal/template"
	"screenshop/internal/workspace"
)

// @title Screenshop API
// @version 1.0
// @description Turns storefront screenshots into a Next.js + Shopify project.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logging.New(cfg.Log.Level, cfg.Log.Location())
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("server_exit", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing_shutdown_failed", zap.Error(err))
		}
	}()

	client, err := newModelClient(cfg)
	if err != nil {
		return err
	}

	// Audit records go to PostgreSQL when configured, otherwise to memory
	var db *sql.DB
	var repo repository.GenerationRepository = repository.NewMemory(repository.DefaultMemoryCapacity)
	if cfg.Database.Enabled() {
		db, err = database.Open(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()
		repo = postgres.NewGenerationPostgres(db)
	} else {
		log.Info("database_disabled")
	}

	var archives *storage.Archives
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		archives = storage.NewArchives(objStore, time.Duration(cfg.MinIO.PresignExpirySec)*time.Second)
	} else {
		log.Info("object_storage_disabled")
	}

	templates := template.NewSource(nil)
	if cfg.TemplateDir != "" {
		templates = template.NewSourceFromDir(cfg.TemplateDir)
	}
	paths, err := templates.Paths()
	if err != nil {
		return fmt.Errorf("load template manifest: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	genMetrics, err := service.NewGenerationMetrics(reg)
	if err != nil {
		return fmt.Errorf("register generation metrics: %w", err)
	}
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register http metrics: %w", err)
	}

	normalizer := imaging.Normalizer{
		MaxDimension: cfg.Limits.MaxDimension,
		MaxPixels:    cfg.Limits.MaxPixels,
		Quality:      cfg.Limits.JPEGQuality,
		MaxBytes:     cfg.Limits.MaxFileBytes,
	}
	genSvc := service.NewGenerationService(service.GenerationDeps{
		Client:         client,
		Templates:      templates,
		TemplateValues: template.ShopifyValues(cfg.Shopify.Domain, cfg.Shopify.Token),
		Normalizer:     normalizer,
		MaxScreenshots: cfg.Limits.MaxScreenshots,
		Timeout:        cfg.Generation.Timeout(),
		StrictContract: cfg.Generation.StrictContract,
		Repo:           repo,
		Archives:       archives,
		Metrics:        genMetrics,
		Log:            log,
	})

	sessions := workspace.NewManager(cfg.Limits.MaxScreenshots, log)
	go sessions.Run(ctx, cfg.Session.SweepInterval(), cfg.Session.TTL())
	sessionSvc := service.NewSessionService(sessions, genSvc, normalizer, log)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		BodyLimit:    cfg.Limits.BodyLimitBytes,
		// Generation waits on the model; keep the write deadline generous.
		ReadTimeout:  time.Minute,
		WriteTimeout: 5 * time.Minute,
	})

	// Register global middleware
	app.Use(otelfiber.Middleware())
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger(log))
	app.Use(httpMetrics.Handler())

	handlers.RegisterRoutes(app, handlers.Deps{
		DB:         db,
		Generation: genSvc,
		Sessions:   sessionSvc,
		Metrics:    reg,
	})

	addr := ":" + cfg.Port
	log.Info("server_starting",
		zap.String("addr", addr),
		zap.String("provider", client.Provider()),
		zap.String("model", client.Model()),
		zap.Int("templates", len(paths)),
		zap.Bool("credential_configured", client.CheckCredential() == nil),
	)

	errCh := make(chan error, 1)
	go func() { errCh <- app.Listen(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("server_stopping")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(sctx)
}

// newModelClient picks the model backend named by MODEL_PROVIDER.
func newModelClient(cfg *config.AppConfig) (llm.Client, error) {
	switch strings.ToLower(cfg.ModelProvider) {
	case "", "anthropic":
		return anthropic.New(anthropic.Options{
			APIKey:     cfg.Anthropic.APIKey,
			BaseURL:    cfg.Anthropic.BaseURL,
			APIVersion: cfg.Anthropic.APIVersion,
			Model:      cfg.Anthropic.Model,
			MaxTokens:  cfg.Anthropic.MaxTokens,
		}), nil
	case "gemini":
		return gemini.New(gemini.Options{
			APIKey:    cfg.Gemini.APIKey,
			BaseURL:   cfg.Gemini.BaseURL,
			Model:     cfg.Gemini.Model,
			MaxTokens: cfg.Gemini.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("unknown MODEL_PROVIDER %q", cfg.ModelProvider)
	}
}
