package ratelimit

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LimitConfig allows at most Max requests in any sliding Window.
type LimitConfig struct {
	Window time.Duration
	Max    int64
}

func (c LimitConfig) String() string {
	return fmt.Sprintf("%d/%s", c.Max, c.Window)
}

// Policy maps each scope to the limits applied to it. A request must satisfy
// every limit of every scope it resolves to.
type Policy struct {
	Limits map[Scope][]LimitConfig
}

// PolicyBuilder assembles a Policy.
type PolicyBuilder struct {
	policy *Policy
}

// NewPolicyBuilder starts an empty policy.
func NewPolicyBuilder() *PolicyBuilder {
	return &PolicyBuilder{policy: &Policy{Limits: make(map[Scope][]LimitConfig)}}
}

// AddLimit appends a limit to scope. Non-positive values are ignored.
func (b *PolicyBuilder) AddLimit(scope Scope, maxRequests int64, window time.Duration) *PolicyBuilder {
	if maxRequests <= 0 || window <= 0 {
		return b
	}

	b.policy.Limits[scope] = append(b.policy.Limits[scope], LimitConfig{Window: window, Max: maxRequests})

	return b
}

// AddLimits appends all limits to scope.
func (b *PolicyBuilder) AddLimits(scope Scope, limits []LimitConfig) *PolicyBuilder {
	for _, l := range limits {
		b.AddLimit(scope, l.Max, l.Window)
	}

	return b
}

// Build returns the assembled policy.
func (b *PolicyBuilder) Build() *Policy {
	return b.policy
}

// ParseLimits reads a comma separated list of "<max>/<window>" pairs,
// e.g. "30/1m,500/1h". An empty string yields no limits.
func ParseLimits(s string) ([]LimitConfig, error) {
	var limits []LimitConfig

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		maxStr, windowStr, ok := strings.Cut(part, "/")
		if !ok {
			return nil, fmt.Errorf("rate limit %q: want <max>/<window>", part)
		}

		maxRequests, err := strconv.ParseInt(maxStr, 10, 64)
		if err != nil || maxRequests <= 0 {
			return nil, fmt.Errorf("rate limit %q: invalid max", part)
		}

		window, err := time.ParseDuration(windowStr)
		if err != nil || window <= 0 {
			return nil, fmt.Errorf("rate limit %q: invalid window", part)
		}

		limits = append(limits, LimitConfig{Window: window, Max: maxRequests})
	}

	return limits, nil
}
