package container

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor" // CBOR format support for huma
	"github.com/go-chi/chi/v5"
	"github.com/samber/do"
	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/filebin"
	"github.com/serroba/eightbin/internal/handlers"
	"github.com/serroba/eightbin/internal/health"
	"github.com/serroba/eightbin/internal/messaging"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/middleware"
	"github.com/serroba/eightbin/internal/ratelimit"
	"github.com/serroba/eightbin/internal/shortener"
	"go.uber.org/zap"
)

// HTTPPackage provides the router and the API. Invoking huma.API registers
// every route.
func HTTPPackage(i *do.Injector) {
	do.Provide(i, func(_ *do.Injector) (*chi.Mux, error) {
		router := chi.NewMux()
		router.Use(middleware.CORS())

		return router, nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.LinkHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewLinkHandler(
			do.MustInvoke[*shortener.LinkService](i),
			opts.SiteBaseURL,
			do.MustInvoke[messaging.Publish[analytics.LinkCreatedEvent]](i),
			do.MustInvoke[*metrics.Metrics](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (*handlers.FileHandler, error) {
		opts := do.MustInvoke[*Options](i)

		return handlers.NewFileHandler(
			do.MustInvoke[*filebin.Uploader](i),
			opts.SiteBaseURL,
			opts.MaxUploadBytes,
			do.MustInvoke[messaging.Publish[analytics.FileUploadedEvent]](i),
			do.MustInvoke[*metrics.Metrics](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})

	do.Provide(i, func(i *do.Injector) (huma.API, error) {
		opts := do.MustInvoke[*Options](i)
		router := do.MustInvoke[*chi.Mux](i)
		logger := do.MustInvoke[*zap.Logger](i)
		m := do.MustInvoke[*metrics.Metrics](i)

		uploadLimits, err := ratelimit.ParseLimits(opts.RateLimitUpload)
		if err != nil {
			return nil, err
		}

		trust, err := middleware.ParseTrustedProxies(opts.TrustedProxies)
		if err != nil {
			return nil, err
		}

		api := humachi.New(router, huma.DefaultConfig("eightbin", "1.0.0"))
		api.UseMiddleware(
			middleware.RequestMeta(api, trust),
			middleware.PolicyRateLimiter(
				api,
				do.MustInvoke[*ratelimit.PolicyLimiter](i),
				do.MustInvoke[ratelimit.ScopeResolver](i),
				trust,
				m,
				logger,
			),
		)

		handlers.RegisterRoutes(api,
			do.MustInvoke[*handlers.LinkHandler](i),
			do.MustInvoke[*handlers.FileHandler](i),
			uploadLimits,
		)
		health.RegisterRoutes(api, do.MustInvoke[*health.Handler](i))
		router.Handle("/metrics", m.Handler())

		return api, nil
	})
}
