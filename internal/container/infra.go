package container

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"github.com/serroba/eightbin/internal/metrics"
	"go.uber.org/zap"
)

// RedisConn holds the shared Redis client. Client is nil when no address is configured.
type RedisConn struct {
	Client *redis.Client
}

func (r *RedisConn) Shutdown() error {
	if r.Client == nil {
		return nil
	}

	return r.Client.Close()
}

// PostgresConn holds the analytics pool. Pool is nil when no DSN is configured.
type PostgresConn struct {
	Pool *pgxpool.Pool
}

func (p *PostgresConn) Shutdown() error {
	if p.Pool != nil {
		p.Pool.Close()
	}

	return nil
}

func LoggerPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*zap.Logger, error) {
		opts := do.MustInvoke[*Options](i)

		return newLogger(opts.LogFormat, opts.LogLevel)
	})
}

func newLogger(format, level string) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if format == "json" {
		cfg = zap.NewProductionConfig()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	cfg.Level = lvl

	return cfg.Build()
}

func MetricsPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*metrics.Metrics, error) {
		return metrics.New(), nil
	})
}

func RedisPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*RedisConn, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.RedisAddr == "" {
			return &RedisConn{}, nil
		}

		return &RedisConn{Client: redis.NewClient(&redis.Options{Addr: opts.RedisAddr})}, nil
	})
}

func PostgresPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*PostgresConn, error) {
		opts := do.MustInvoke[*Options](i)
		if opts.PostgresDSN == "" {
			return &PostgresConn{}, nil
		}

		pool, err := pgxpool.New(context.Background(), opts.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}

		return &PostgresConn{Pool: pool}, nil
	})
}
