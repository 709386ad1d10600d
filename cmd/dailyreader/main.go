package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"dailyreader/internal/api"
	"dailyreader/internal/archive"
	"dailyreader/internal/config"
	"dailyreader/internal/digest"
	"dailyreader/internal/mailer"
	"dailyreader/internal/monitoring"
	"dailyreader/internal/scraper"
	"dailyreader/internal/selector"
	"dailyreader/internal/source"
	"dailyreader/internal/summarizer"
	"dailyreader/internal/tracker"
)

func main() {
	serve := flag.Bool("serve", false, "run the HTTP API instead of a single digest run")
	flag.Parse()

	// Initialize structured logger
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}
	if cfg.DocURL == "" {
		logger.Fatal("DOC_URL is required")
	}

	ctx := context.Background()

	// Initialize Storage Layer
	var dbpool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		dbpool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			logger.Fatal("failed to connect to postgres", zap.Error(err))
		}
		defer dbpool.Close()
	}

	store, err := buildStore(ctx, cfg, dbpool, logger)
	if err != nil {
		logger.Fatal("failed to initialize tracker store", zap.Error(err))
	}

	var ar archive.Archive = archive.Noop{}
	if dbpool != nil {
		pgArchive, err := archive.NewPostgresArchive(ctx, dbpool)
		if err != nil {
			logger.Fatal("failed to initialize archive", zap.Error(err))
		}
		ar = pgArchive
	}

	// Initialize Collaborators
	src, err := source.NewGoogleDocSource(cfg.DocURL, 30*time.Second, logger)
	if err != nil {
		logger.Fatal("invalid DOC_URL", zap.Error(err))
	}

	scrapeTimeout := time.Duration(cfg.ScrapeTimeout) * time.Second
	var fetcher scraper.Fetcher = scraper.NewHTTPFetcher(scrapeTimeout)
	if cfg.RenderJS {
		fetcher = scraper.NewRenderFetcher(scrapeTimeout)
	}

	metrics := monitoring.NewMetrics()
	runner := digest.NewRunner(
		src,
		store,
		selector.New(nil),
		scraper.New(fetcher, logger),
		summarizer.New(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SummaryMaxTokens, logger),
		mailer.New(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.EmailFrom,
			To:       cfg.EmailTo,
		}, logger),
		ar,
		metrics,
		logger,
	)

	if !*serve {
		runOnce(ctx, runner, logger)
		return
	}

	// Initialize API Server
	server := api.NewServer(cfg, runner, store, ar, metrics, logger)

	// Graceful Shutdown
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}

func runOnce(ctx context.Context, runner *digest.Runner, logger *zap.Logger) {
	report, err := runner.Run(ctx)
	if err != nil {
		logger.Error("digest run failed", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("done",
		zap.String("title", report.Title),
		zap.Int("total_sent", report.TotalSent),
		zap.Int("remaining", report.Remaining))
}

func buildStore(ctx context.Context, cfg *config.Config, dbpool *pgxpool.Pool, logger *zap.Logger) (tracker.Store, error) {
	switch cfg.TrackerBackend {
	case "file", "":
		return tracker.NewFileStore(cfg.TrackerPath, logger), nil
	case "redis":
		return tracker.NewRedisStore(cfg.RedisAddr, cfg.RedisKey, logger), nil
	case "postgres":
		if dbpool == nil {
			return nil, fmt.Errorf("TRACKER_BACKEND=postgres requires POSTGRES_URL")
		}
		return tracker.NewPostgresStore(ctx, dbpool, logger)
	default:
		return nil, fmt.Errorf("unknown tracker backend %q", cfg.TrackerBackend)
	}
}
