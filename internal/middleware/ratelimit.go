package middleware

import (
	"net/http"
	"strconv"

	"github.com/danielgtaylor/huma/v2"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/ratelimit"
	"go.uber.org/zap"
)

// PolicyRateLimiter returns a Huma middleware that applies policy-based rate limiting.
//
// Per-endpoint configuration can be provided via operation metadata using
// ratelimit.MetadataKey. This allows endpoints to:
//   - Disable rate limiting entirely (Disabled: true)
//   - Override the scope detection (Scope: ratelimit.ScopeRead)
//   - Define custom limits (Limits: []ratelimit.LimitConfig{...})
//
// Clients are keyed by IP and User-Agent, with the IP resolved through trust.
// A nil metrics skips counting rejections.
func PolicyRateLimiter(
	api huma.API,
	limiter *ratelimit.PolicyLimiter,
	resolver ratelimit.ScopeResolver,
	trust *ProxyTrust,
	m *metrics.Metrics,
	logger *zap.Logger,
) func(ctx huma.Context, next func(huma.Context)) {
	return func(ctx huma.Context, next func(huma.Context)) {
		cfg := ratelimit.EndpointConfigFor(ctx.Operation())
		if cfg != nil && cfg.Disabled {
			next(ctx)

			return
		}

		route := operationPath(ctx)
		key := trust.clientKey(ctx)

		var (
			exceeded *ratelimit.LimitExceeded
			err      error
		)

		if cfg != nil && len(cfg.Limits) > 0 {
			exceeded, err = limiter.AllowRoute(ctx.Context(), key, route, cfg.Limits)
		} else {
			exceeded, err = limiter.Allow(ctx.Context(), key, resolver.Resolve(ctx))
		}

		if err != nil {
			logger.Error("rate limit check failed", zap.String("path", route), zap.Error(err))
			_ = huma.WriteErr(api, ctx, http.StatusInternalServerError, "internal server error")

			return
		}

		if exceeded != nil {
			rejectRequest(api, ctx, exceeded, route, trust, m, logger)

			return
		}

		next(ctx)
	}
}

func operationPath(ctx huma.Context) string {
	if op := ctx.Operation(); op != nil {
		return op.Path
	}

	return ctx.URL().Path
}

func rejectRequest(
	api huma.API,
	ctx huma.Context,
	exceeded *ratelimit.LimitExceeded,
	route string,
	trust *ProxyTrust,
	m *metrics.Metrics,
	logger *zap.Logger,
) {
	scope := string(exceeded.Scope)
	if scope == "" {
		scope = "route"
	}

	if m != nil {
		m.RateLimited(scope)
	}

	logger.Warn("rate limit exceeded",
		zap.String("path", route),
		zap.String("method", ctx.Method()),
		zap.String("scope", scope),
		zap.Int64("count", exceeded.Count),
		zap.Int64("max", exceeded.Config.Max),
		zap.Duration("window", exceeded.Config.Window),
		zap.String("client_ip", trust.ClientIP(ctx)),
	)

	ctx.SetHeader("Retry-After", retryAfter(exceeded.Config))
	_ = huma.WriteErr(api, ctx, http.StatusTooManyRequests, "rate limit exceeded: "+exceeded.String())
}

// retryAfter is the Retry-After value for an exceeded limit, in whole seconds.
func retryAfter(limit ratelimit.LimitConfig) string {
	seconds := int64(limit.Window.Seconds())
	if seconds < 1 {
		seconds = 1
	}

	return strconv.FormatInt(seconds, 10)
}
