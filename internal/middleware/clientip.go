package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net"
	"net/netip"
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// ProxyTrust decides whether forwarding headers can be believed. Only a peer
// inside one of the trusted networks may name the client through
// X-Forwarded-For or X-Real-IP; for everyone else the connection address is
// the client. A nil ProxyTrust trusts nobody.
type ProxyTrust struct {
	networks []netip.Prefix
}

// ParseTrustedProxies reads a comma separated list of IPs and CIDRs,
// e.g. "10.0.0.0/8,127.0.0.1". An empty string trusts nobody.
func ParseTrustedProxies(s string) (*ProxyTrust, error) {
	trust := &ProxyTrust{}

	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if !strings.Contains(part, "/") {
			addr, err := netip.ParseAddr(part)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", part, err)
			}

			trust.networks = append(trust.networks, netip.PrefixFrom(addr, addr.BitLen()))

			continue
		}

		prefix, err := netip.ParsePrefix(part)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", part, err)
		}

		trust.networks = append(trust.networks, prefix.Masked())
	}

	return trust, nil
}

func (p *ProxyTrust) trusts(ip string) bool {
	if p == nil {
		return false
	}

	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}

	addr = addr.Unmap()

	for _, network := range p.networks {
		if network.Contains(addr) {
			return true
		}
	}

	return false
}

// ClientIP returns the address of the client. Behind trusted proxies it is the
// right-most X-Forwarded-For hop that is not itself a trusted proxy.
func (p *ProxyTrust) ClientIP(ctx huma.Context) string {
	remote := remoteIP(ctx.RemoteAddr())
	if !p.trusts(remote) {
		return remote
	}

	if xff := ctx.Header("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		for i := len(hops) - 1; i >= 0; i-- {
			hop := strings.TrimSpace(hops[i])
			if hop != "" && !p.trusts(hop) {
				return hop
			}
		}

		return strings.TrimSpace(hops[0])
	}

	if xri := strings.TrimSpace(ctx.Header("X-Real-IP")); xri != "" {
		return xri
	}

	return remote
}

func remoteIP(addr string) string {
	ip, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}

	return ip
}

// clientKey identifies a client for rate limiting by IP and User-Agent.
func (p *ProxyTrust) clientKey(ctx huma.Context) string {
	hash := sha256.Sum256([]byte(p.ClientIP(ctx) + "|" + ctx.Header("User-Agent")))

	return hex.EncodeToString(hash[:])
}
