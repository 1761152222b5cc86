// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

// Command api is the entry point for the Maktabat reporting API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to the Koha database (read-only pool).
//  4. Connect to the application database.
//  5. Connect to Redis.
//  6. Run application-database migrations (idempotent).
//  7. Wire HTTP handlers.
//  8. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/api"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/auth"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/dashboard"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/patrons"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/config"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/migration"
	pgstore "github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/postgres"
	redisstore "github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/redis"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/sec"
	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/reports"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(
		slog.String("app", constants.AppName),
		slog.String("version", constants.AppVersion),
	)
	slog.SetDefault(log)

	log.Info("[Maktabat] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(
			slog.String("app", constants.AppName),
			slog.String("version", constants.AppVersion),
		)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Koha Database (read-only) ──────────────────────────────────────
	kohaPool, err := pgstore.NewReadOnlyPool(startupCtx, "koha", cfg.KohaDatabaseURL, log)
	must(log, err, "connect to koha postgres")
	defer func() {
		log.Info("closing koha pool")
		kohaPool.Close()
	}()

	// ── 4. Application Database ───────────────────────────────────────────
	appPool, err := pgstore.NewPool(startupCtx, "app", cfg.AppDatabaseURL, log)
	must(log, err, "connect to app postgres")
	defer func() {
		log.Info("closing app pool")
		appPool.Close()
	}()

	// ── 5. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 6. Migrations ─────────────────────────────────────────────────────
	// Only the application database is migrated; Koha's schema belongs to
	// the ILS.
	must(log, migration.RunUp(cfg.AppDatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 7. Token Service ──────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 8. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckKoha: func() error {
			return pgstore.Ping(context.Background(), kohaPool)
		},
		CheckApp: func() error {
			return pgstore.Ping(context.Background(), appPool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 9. Domain Wiring ──────────────────────────────────────────────────
	accountRepository := auth.NewPostgresAccountRepository(appPool)
	sessionRepository := auth.NewRedisSessionRepository(rdb)
	authService := auth.NewService(accountRepository, sessionRepository, jwtSvc, log)
	authHandler := auth.NewHandler(authService)

	reportRepository := reports.NewPostgresRepository(kohaPool, cfg.ClassAttributeCodes, cfg.TRAttributeCodes)
	reportService := reports.NewService(reportRepository, log, reports.Defaults{
		ExcludeCategory: cfg.DefaultExcludeCategory,
		TopTitlesLimit:  cfg.DefaultTopTitlesLimit,
		SIPWindowDays:   cfg.DefaultSIPWindowDays,
	})
	reportHandler := reports.NewHandler(reportService)

	dashboardCache := dashboard.NewRedisCache(rdb)
	dashboardService := dashboard.NewService(reportService, dashboardCache, log, cfg.DashboardCacheTTL, cfg.DashboardLangFilter)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	patronRepository := patrons.NewPostgresRepository(kohaPool, cfg.ClassAttributeCodes, cfg.TRAttributeCodes)
	patronService := patrons.NewService(patronRepository, log)
	patronHandler := patrons.NewHandler(patronService)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Reports:   reportHandler,
		Dashboard: dashboardHandler,
		Patrons:   patronHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// must aborts startup with a structured log entry when a critical step fails.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failed", slog.String("step", step), slog.Any("error", err))
		os.Exit(1)
	}
}
