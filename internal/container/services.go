package container

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/do"
	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/filebin"
	"github.com/serroba/eightbin/internal/health"
	"github.com/serroba/eightbin/internal/messaging"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/ratelimit"
	"github.com/serroba/eightbin/internal/shortener"
	"github.com/serroba/eightbin/internal/store"
	"go.uber.org/zap"
)

var (
	errMinioConditionalCreate = errors.New("minio backend cannot be used with --conditional-create")
	errPublisherNeedsRedis    = errors.New("event publisher requires --redis-addr")
)

// ObjectStorePackage provides the bucket backend with timeouts, metrics and,
// when Redis is configured, the occupancy count cache.
func ObjectStorePackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (store.Backend, error) {
		opts := do.MustInvoke[*Options](i)
		m := do.MustInvoke[*metrics.Metrics](i)
		logger := do.MustInvoke[*zap.Logger](i)

		backend, err := newBackend(opts)
		if err != nil {
			return nil, err
		}

		logger.Info("object store",
			zap.String("backend", opts.StoreBackend),
			zap.String("bucket", opts.Bucket),
			zap.Bool("conditionalCreate", opts.ConditionalCreate),
		)

		var wrapped store.Backend = store.NewInstrumentedStore(backend, opts.StoreTimeout, m)

		conn := do.MustInvoke[*RedisConn](i)
		if conn.Client != nil && opts.CountCacheTTL > 0 {
			wrapped = store.NewCountCache(wrapped, conn.Client, opts.CountCacheTTL, logger)
		}

		return wrapped, nil
	})
}

func newBackend(opts *Options) (store.Backend, error) {
	switch opts.StoreBackend {
	case "s3":
		client, err := store.NewS3Client(context.Background(), store.S3Config{
			Region:    opts.S3Region,
			Endpoint:  opts.S3Endpoint,
			PathStyle: opts.S3PathStyle,
			AccessKey: opts.S3AccessKey,
			SecretKey: opts.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}

		return store.NewS3Store(client, opts.Bucket), nil
	case "minio":
		if opts.ConditionalCreate {
			return nil, errMinioConditionalCreate
		}

		return store.NewMinioStore(store.MinioConfig{
			Endpoint:  opts.MinioEndpoint,
			AccessKey: opts.MinioAccessKey,
			SecretKey: opts.MinioSecretKey,
			UseSSL:    opts.MinioSSL,
		}, opts.Bucket)
	case "memory", "":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", opts.StoreBackend)
	}
}

// ServicesPackage provides the link and file services.
func ServicesPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*shortener.Generator, error) {
		opts := do.MustInvoke[*Options](i)
		backend := do.MustInvoke[store.Backend](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		return shortener.NewGenerator(backend,
			shortener.WithMaxAttempts(opts.MaxAttempts),
			shortener.WithCollisionHook(func(ns shortener.Namespace) {
				m.Collision(ns.Label())
			}),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*shortener.LinkService, error) {
		opts := do.MustInvoke[*Options](i)
		backend := do.MustInvoke[store.Backend](i)

		return shortener.NewLinkService(
			backend,
			shortener.NewSizer(backend),
			do.MustInvoke[*shortener.Generator](i),
			opts.ConditionalCreate,
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*filebin.Uploader, error) {
		opts := do.MustInvoke[*Options](i)

		return filebin.NewUploader(
			do.MustInvoke[store.Backend](i),
			do.MustInvoke[*shortener.Generator](i),
			opts.ConditionalCreate,
		), nil
	})
}

// PublisherPackage provides typed analytics publishers. Without Redis, events
// are logged at debug level and dropped.
func PublisherPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*messaging.PublisherGroup, error) {
		conn := do.MustInvoke[*RedisConn](i)
		if conn.Client == nil {
			return nil, errPublisherNeedsRedis
		}

		return messaging.NewRedisPublisherGroup(conn.Client, do.MustInvoke[*zap.Logger](i))
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[analytics.LinkCreatedEvent], error) {
		return publishFunc[analytics.LinkCreatedEvent](i, analytics.TopicLinkCreated), nil
	})

	do.Provide(i, func(i *do.Injector) (messaging.Publish[analytics.FileUploadedEvent], error) {
		return publishFunc[analytics.FileUploadedEvent](i, analytics.TopicFileUploaded), nil
	})
}

func publishFunc[T any](i *do.Injector, topic string) messaging.Publish[T] {
	if conn := do.MustInvoke[*RedisConn](i); conn.Client == nil {
		return messaging.Discard[T](do.MustInvoke[*zap.Logger](i), topic)
	}

	return messaging.NewPublishFunc[T](do.MustInvoke[*messaging.PublisherGroup](i).Publisher(), topic)
}

// RateLimitPackage provides the policy limiter. Counters live in Redis when
// configured, so replicas share them, and in memory otherwise.
func RateLimitPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*ratelimit.PolicyLimiter, error) {
		opts := do.MustInvoke[*Options](i)

		global, err := ratelimit.ParseLimits(opts.RateLimitGlobal)
		if err != nil {
			return nil, err
		}

		write, err := ratelimit.ParseLimits(opts.RateLimitWrite)
		if err != nil {
			return nil, err
		}

		policy := ratelimit.NewPolicyBuilder().
			AddLimits(ratelimit.ScopeGlobal, global).
			AddLimits(ratelimit.ScopeWrite, write).
			Build()

		var limitStore ratelimit.Store = store.NewRateLimitMemoryStore()
		if conn := do.MustInvoke[*RedisConn](i); conn.Client != nil {
			limitStore = store.NewRateLimitRedisStore(conn.Client)
		}

		return ratelimit.NewPolicyLimiter(limitStore, policy), nil
	})

	do.Provide(i, func(_ *do.Injector) (ratelimit.ScopeResolver, error) {
		return ratelimit.NewOperationScopeResolver(), nil
	})
}

// HealthPackage provides the health handler checking the bucket and Redis.
func HealthPackage(i *do.Injector) {
	do.Provide(i, func(i *do.Injector) (*health.Handler, error) {
		checks := map[string]health.Checker{
			"objectStore": do.MustInvoke[store.Backend](i),
		}

		if conn := do.MustInvoke[*RedisConn](i); conn.Client != nil {
			checks["redis"] = health.NewRedisChecker(conn.Client)
		}

		return health.NewHandler(checks, do.MustInvoke[*zap.Logger](i)), nil
	})
}
