// FRICTRAK - high-cost lender detection and applicant scoring.
// Copyright (c) 2025 opensource.finance
// Licensed under the Apache License 2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/opensource-finance/frictrak/internal/analyzer"
	"github.com/opensource-finance/frictrak/internal/api"
	"github.com/opensource-finance/frictrak/internal/bus"
	"github.com/opensource-finance/frictrak/internal/cache"
	"github.com/opensource-finance/frictrak/internal/domain"
	"github.com/opensource-finance/frictrak/internal/repository"
	"github.com/opensource-finance/frictrak/internal/worker"
)

// Version information (set via ldflags)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

func main() {
	logLevel := slog.LevelInfo
	if os.Getenv("FRICTRAK_DEBUG") == "true" {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	slog.Info("starting frictrak",
		"version", Version,
		"commit", Commit,
		"build_date", BuildDate,
	)

	cfg := loadConfig()
	slog.Info("configuration loaded",
		"tier", cfg.Tier,
		"repository", cfg.Repository.Driver,
		"cache", cfg.Cache.Type,
		"eventbus", cfg.EventBus.Type,
		"async_worker", cfg.Analysis.AsyncWorker,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := repository.New(cfg.Repository)
	if err != nil {
		fatal("failed to initialize repository", err)
	}
	defer repo.Close()
	slog.Info("repository initialized", "driver", cfg.Repository.Driver)

	cacheImpl, err := cache.New(cfg.Cache)
	if err != nil {
		fatal("failed to initialize cache", err)
	}
	defer cacheImpl.Close()
	slog.Info("cache initialized", "type", cfg.Cache.Type)

	busImpl, err := bus.New(cfg.EventBus)
	if err != nil {
		fatal("failed to initialize event bus", err)
	}
	defer busImpl.Close()
	slog.Info("event bus initialized", "type", cfg.EventBus.Type)

	an, err := analyzer.FromConfig(cfg.Analysis.ExtraNamesPath,
		analyzer.WithLogger(logger),
		analyzer.WithCache(cacheImpl, time.Duration(cfg.Analysis.ResultTTL)*time.Second),
	)
	if err != nil {
		fatal("failed to initialize analyzer", err)
	}
	reg := an.Detector().Registry().Stats()
	slog.Info("analyzer initialized",
		"rules_count", an.Detector().Scorer().Engine().RulesCount(),
		"official_lenders", reg.OfficialLenders,
		"supplementary_lenders", reg.SupplementaryLenders,
		"extra_names", cfg.Analysis.ExtraNamesPath,
	)

	var asyncWorker *worker.Worker
	if cfg.Analysis.AsyncWorker {
		asyncWorker = worker.New(busImpl, repo, an, logger)
		if err := asyncWorker.Start(worker.Config{TenantIDs: splitList(os.Getenv("FRICTRAK_TENANTS"))}); err != nil {
			slog.Error("failed to start async worker", "error", err)
			asyncWorker = nil
		}
	}

	srv := api.NewServer(cfg.Server, repo, cacheImpl, busImpl, an, Version, logger)
	if asyncWorker != nil {
		srv.AttachWorker(asyncWorker)
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("frictrak is ready",
		"host", cfg.Server.Host,
		"port", cfg.Server.Port,
	)
	printBanner(cfg, Version)

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
	case err := <-errCh:
		slog.Error("server failed", "error", err)
	}

	if asyncWorker != nil {
		if err := asyncWorker.Stop(); err != nil {
			slog.Error("failed to stop async worker", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	slog.Info("frictrak shutdown complete")
}

// loadConfig starts from the tier defaults and applies FRICTRAK_* overrides.
func loadConfig() *domain.Config {
	cfg := domain.DefaultConfig()
	if os.Getenv("FRICTRAK_TIER") == string(domain.TierPro) {
		cfg = domain.ProConfig()
		cfg.Analysis.AsyncWorker = true
	}

	if v := os.Getenv("FRICTRAK_ASYNC_WORKER"); v != "" {
		cfg.Analysis.AsyncWorker = v == "true"
	}
	if v := os.Getenv("FRICTRAK_EXTRA_NAMES"); v != "" {
		cfg.Analysis.ExtraNamesPath = v
	}
	if n, ok := envInt("FRICTRAK_RESULT_TTL"); ok {
		cfg.Analysis.ResultTTL = n
	}
	if n, ok := envInt("FRICTRAK_PORT"); ok {
		cfg.Server.Port = n
	}
	if v := os.Getenv("FRICTRAK_SQLITE_PATH"); v != "" {
		cfg.Repository.SQLitePath = v
	}
	if v := os.Getenv("FRICTRAK_POSTGRES_HOST"); v != "" {
		cfg.Repository.PostgresHost = v
	}
	if v := os.Getenv("FRICTRAK_POSTGRES_USER"); v != "" {
		cfg.Repository.PostgresUser = v
	}
	if v := os.Getenv("FRICTRAK_POSTGRES_PASSWORD"); v != "" {
		cfg.Repository.PostgresPassword = v
	}
	if v := os.Getenv("FRICTRAK_REDIS_ADDR"); v != "" {
		cfg.Cache.RedisAddr = v
	}
	if v := os.Getenv("FRICTRAK_NATS_URL"); v != "" {
		cfg.EventBus.NATSUrl = v
	}
	return cfg
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("ignoring non-numeric setting", "key", key, "value", v)
		return 0, false
	}
	return n, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}

func printBanner(cfg *domain.Config, version string) {
	fmt.Println()
	fmt.Println("  +-------------------------------------------+")
	fmt.Println("  |                 FRICTRAK                  |")
	fmt.Println("  |   High-cost lender detection & scoring    |")
	fmt.Println("  +-------------------------------------------+")
	fmt.Println()
	fmt.Printf("  Version:  %s\n", version)
	fmt.Printf("  Tier:     %s\n", cfg.Tier)
	fmt.Printf("  Server:   http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	fmt.Println()
	fmt.Println("  Endpoints:")
	fmt.Println("    POST /analyze            - Analyze a normalized batch")
	fmt.Println("    POST /analyze/statement  - Analyze a raw JSON/OFX export")
	fmt.Println("    POST /classify           - Classify one description")
	fmt.Println("    POST /score              - Explain the heuristic score")
	fmt.Println("    GET  /analyses           - List stored analyses")
	fmt.Println("    GET  /analyses/{id}      - Get analysis by ID")
	fmt.Println("    GET  /exposure           - Most frequent lenders")
	fmt.Println("    GET  /lenders            - Registry lender names")
	fmt.Println("    GET  /rules              - Heuristic rule table")
	fmt.Println("    GET  /health             - Health check")
	fmt.Println()
}
