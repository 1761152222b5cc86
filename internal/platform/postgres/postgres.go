// Copyright (c) 2026 Aljamea Maktabat. All rights reserved.
// Author: systems@ajsn.co.ke

// Package postgres provides managed PostgreSQL connection pools for the
// reporting service.
//
// # Architecture
//
// This package is part of the Infrastructure layer. The service talks to two
// separate databases through it: the Koha ILS database (strictly read-only,
// every report query runs there) and the application database (admin accounts,
// migrations). Both pools share the same tuning, but the Koha pool pins every
// session to read-only mode so a bad query can never mutate library data.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Nyakwar-Orera/Aljamea-Maktabat/internal/platform/constants"
)

// Opinionated pool settings for the reporting workload. Report queries are
// few but heavy, so the pool stays small with a warm floor.
const (
	// maxConns is the maximum number of connections in the pool.
	maxConns = 15
	// minConns keeps a warm set of connections to avoid cold-start latency.
	minConns = 3
	// maxConnLifetime ensures connections are periodically recycled.
	maxConnLifetime = 60 * time.Minute
	// maxConnIdleTime closes connections that have been idle too long.
	maxConnIdleTime = 10 * time.Minute
	// healthCheckPeriod is the frequency of background connection health checks.
	healthCheckPeriod = 1 * time.Minute
	// connectTimeout is the maximum time allowed to establish a new connection.
	connectTimeout = 5 * time.Second
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second
)

// NewPool creates and validates a new PostgreSQL connection pool.
//
// # Parameters
//   - ctx: Context for the initial connection attempt.
//   - name: Short label used in pool-level log entries ("koha", "app").
//   - dsn: A libpq-compatible connection string or postgres:// URL.
//   - logger: Structured logger for pool-level events.
func NewPool(ctx context.Context, name, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	return newPool(ctx, name, dsn, logger, false)
}

// NewReadOnlyPool is NewPool with every session pinned to read-only mode.
//
// The Koha database is owned by the ILS, not by this service. Forcing
// default_transaction_read_only at the session level means an accidental
// INSERT or UPDATE in a report query fails at the database instead of
// corrupting circulation data.
func NewReadOnlyPool(ctx context.Context, name, dsn string, logger *slog.Logger) (*pgxpool.Pool, error) {
	return newPool(ctx, name, dsn, logger, true)
}

func newPool(ctx context.Context, name, dsn string, logger *slog.Logger, readOnly bool) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid %s DSN: %w", name, err)
	}

	// Apply pool tuning parameters.
	poolConfig.MaxConns = maxConns
	poolConfig.MinConns = minConns
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// AfterConnect is called each time a new physical connection is established.
	poolConfig.AfterConnect = func(ctx context.Context, connection *pgx.Conn) error {
		// Set a per-connection statement timeout to avoid runaway report queries.
		// Use GlobalRequestTimeout as the baseline for safety.
		timeoutQuery := fmt.Sprintf("SET statement_timeout = '%ds'", int(constants.GlobalRequestTimeout.Seconds()))
		if _, err := connection.Exec(ctx, timeoutQuery); err != nil {
			return err
		}

		if readOnly {
			if _, err := connection.Exec(ctx, "SET default_transaction_read_only = on"); err != nil {
				return err
			}
		}

		return nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create %s pool: %w", name, err)
	}

	// Validate that we can actually reach the database.
	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	stats := pool.Stat()
	logger.Info("postgres pool connected",
		slog.String("pool", name),
		slog.Bool("read_only", readOnly),
		slog.Int("max_conns", int(stats.MaxConns())),
		slog.Int("total_conns", int(stats.TotalConns())),
	)

	return pool, nil
}

// Ping verifies that the PostgreSQL connection pool is healthy.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}

	return nil
}
