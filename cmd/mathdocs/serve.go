package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/m3360202/mathTest/internal/config"
	"github.com/m3360202/mathTest/internal/db"
	dbRedis "github.com/m3360202/mathTest/internal/db/redis"
	"github.com/m3360202/mathTest/internal/extract/docx"
	logpkg "github.com/m3360202/mathTest/internal/logger"
	"github.com/m3360202/mathTest/internal/metrics"
	documentrepo "github.com/m3360202/mathTest/internal/repository/document"
	"github.com/m3360202/mathTest/internal/repository/extcache"
	chiTransport "github.com/m3360202/mathTest/internal/transport/chi"
	"github.com/m3360202/mathTest/internal/transport/parser"
	documentuc "github.com/m3360202/mathTest/internal/usecase/document"
	extractionuc "github.com/m3360202/mathTest/internal/usecase/extraction"
	healthuc "github.com/m3360202/mathTest/internal/usecase/health"
	ingestuc "github.com/m3360202/mathTest/internal/usecase/ingest"
	searchuc "github.com/m3360202/mathTest/internal/usecase/search"
	"github.com/m3360202/mathTest/internal/version"
)

func newServeCommand() *cobra.Command {
	var env string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, env)
		},
	}

	cmd.Flags().StringVar(&env, "env", "", "Config environment: local, dev, prod (default $ENV or local)")
	return cmd
}

func runServe(ctx context.Context, env string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	if env == "" {
		env = config.GetEnv()
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting mathdocs API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("parser_url", cfg.Parser.URL),
		zap.Bool("local_fallback", cfg.Parser.LocalFallback),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	metrics.RegisterExtractionMetrics()
	metrics.RegisterStoreMetrics()
	metrics.RegisterHTTPMetrics()

	var store db.Store
	if cfg.Cache.Enabled {
		store, err = openCache(ctx, cfg.Cache, logger)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	parserClient, extractor := buildExtractor(&cfg, store, logger)

	docSvc := documentuc.New(documentrepo.New())
	searchSvc := searchuc.New(docSvc).WithThreshold(*cfg.Search.Threshold)
	ingestSvc := ingestuc.New(extractor, docSvc, ingestuc.Config{
		MaxFileSize:       cfg.Upload.MaxSizeBytes(),
		TempDir:           cfg.Upload.TempDir,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
	})

	// Pass nil interfaces (not typed nil pointers) for components that are not configured.
	var parserChecker healthuc.ParserChecker
	if parserClient != nil {
		parserChecker = parserClient
	}
	var cachePinger healthuc.CachePinger
	if store != nil {
		cachePinger = store
	}
	healthSvc := healthuc.New(parserChecker, cachePinger)

	server := chiTransport.NewServer(docSvc, searchSvc, ingestSvc, healthSvc, logger, chiTransport.Options{
		DefaultLimit:   cfg.Search.DefaultLimit,
		MaxLimit:       cfg.Search.MaxLimit,
		MaxUploadBytes: cfg.Upload.MaxSizeBytes(),
		APIKeys:        cfg.Auth.APIKeys,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
		return fmt.Errorf("shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// openCache connects the extraction cache. Redis and Valkey share the rueidis store.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *zap.Logger) (db.Store, error) {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s cache store: %w", cfg.Driver, err)
	}

	if err := store.WaitForReady(ctx, time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	logger.Info("Connected to extraction cache",
		zap.String("driver", cfg.Driver),
		zap.Strings("addrs", cfg.Addrs),
	)
	return store, nil
}

// buildExtractor assembles the decorator chain:
// parser -> [cache] -> [local fallback] -> instrumented.
// Only parser output reaches the cache, so text from the local fallback is never
// served after the parser recovers. A cached parser result still wins while the
// parser is down. The parser client is returned separately for health checks; it
// is nil when extraction is local only.
func buildExtractor(cfg *config.Config, store db.Store, logger *zap.Logger) (*parser.Client, extractionuc.Extractor) {
	if cfg.Parser.URL == "" {
		logger.Info("No parser URL configured, using local docx extraction only")
		var local extractionuc.Extractor = docx.New()
		if store != nil {
			local = extcache.New(local, store, cfg.Cache.TTL(), metrics.ExtractionCacheTotal, logger)
		}
		return nil, extractionuc.NewInstrumented(local)
	}

	parserClient := parser.New(&parser.Config{
		BaseURL:           cfg.Parser.URL,
		Timeout:           cfg.Parser.Timeout(),
		RequestsPerSecond: cfg.Parser.RequestsPerSecond,
		Burst:             cfg.Parser.Burst,
		Logger:            logger,
	})

	var base extractionuc.Extractor = parserClient
	if store != nil {
		base = extcache.New(base, store, cfg.Cache.TTL(), metrics.ExtractionCacheTotal, logger)
	}
	if cfg.Parser.LocalFallback {
		base = extractionuc.NewFallback(base, docx.New(), logger)
	}

	return parserClient, extractionuc.NewInstrumented(base)
}
