// Package ratelimit implements sliding-window rate limiting per client and scope.
package ratelimit

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

// Scope categorizes a request for rate limiting purposes.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeRead   Scope = "read"
	ScopeWrite  Scope = "write"
)

// MetadataKey is the operation metadata key holding an EndpointConfig.
const MetadataKey = "rateLimit"

// EndpointConfig is per-operation rate limit configuration, attached through
// huma.Operation.Metadata under MetadataKey.
type EndpointConfig struct {
	// Scope replaces method-based scope detection. Ignored when Limits is set.
	Scope Scope
	// Limits are applied instead of the policy's scope limits.
	Limits []LimitConfig
	// Disabled skips rate limiting for the operation.
	Disabled bool
}

// ScopeResolver determines which scopes apply to a given request.
type ScopeResolver interface {
	Resolve(ctx huma.Context) []Scope
}

// OperationScopeResolver uses the scope from operation metadata and falls
// back to classifying by HTTP method.
type OperationScopeResolver struct{}

// NewOperationScopeResolver creates a new operation-aware scope resolver.
func NewOperationScopeResolver() *OperationScopeResolver {
	return &OperationScopeResolver{}
}

// Resolve always includes ScopeGlobal.
func (r *OperationScopeResolver) Resolve(ctx huma.Context) []Scope {
	if cfg := EndpointConfigFor(ctx.Operation()); cfg != nil && cfg.Scope != "" {
		return []Scope{ScopeGlobal, cfg.Scope}
	}

	switch ctx.Method() {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return []Scope{ScopeGlobal, ScopeRead}
	default:
		return []Scope{ScopeGlobal, ScopeWrite}
	}
}

// EndpointConfigFor extracts the EndpointConfig from operation metadata, if present.
func EndpointConfigFor(op *huma.Operation) *EndpointConfig {
	if op == nil || op.Metadata == nil {
		return nil
	}

	cfg, ok := op.Metadata[MetadataKey].(EndpointConfig)
	if !ok {
		return nil
	}

	return &cfg
}
