package container

import (
	"context"
	"errors"

	"github.com/samber/do"
	"github.com/serroba/eightbin/internal/analytics"
	analyticsstore "github.com/serroba/eightbin/internal/analytics/store"
	"github.com/serroba/eightbin/internal/messaging"
	"go.uber.org/zap"
)

// ConsumerGroupName is the Redis stream consumer group of the analytics consumer.
const ConsumerGroupName = "analytics"

var errConsumerNeedsRedis = errors.New("analytics consumer requires --redis-addr")

// ConsumerGroupPackage provides the analytics consumer group, persisting to
// Postgres when a DSN is configured and logging events otherwise.
func ConsumerGroupPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (analytics.Store, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		conn := do.MustInvoke[*PostgresConn](i)
		if conn.Pool == nil {
			logger.Warn("no postgres dsn, analytics events are only logged")

			return analyticsstore.NewNoop(logger), nil
		}

		pg := analyticsstore.NewPostgres(conn.Pool)
		if err := pg.EnsureSchema(context.Background()); err != nil {
			return nil, err
		}

		return pg, nil
	})

	do.Provide(i, func(i *do.Injector) (*messaging.ConsumerGroup, error) {
		logger := do.MustInvoke[*zap.Logger](i)

		conn := do.MustInvoke[*RedisConn](i)
		if conn.Client == nil {
			return nil, errConsumerNeedsRedis
		}

		subscriber, err := messaging.NewRedisSubscriber(conn.Client, ConsumerGroupName, logger)
		if err != nil {
			return nil, err
		}

		group := messaging.NewConsumerGroup(subscriber, logger)
		analytics.RegisterConsumers(group, do.MustInvoke[analytics.Store](i), logger)

		return group, nil
	})
}
