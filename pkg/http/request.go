package http

import (
	"net"
	"net/http"
	"strings"
)

// IPConfig holds configuration for IP extraction and validation
type IPConfig struct {
	TrustedProxies []string // CIDR ranges of trusted proxies
}

// ExtractClientIP returns the client address for a request. Forwarding
// headers are honored only when the direct peer falls inside one of the
// configured trusted proxy ranges; otherwise RemoteAddr wins, so clients
// cannot spoof their address to the rate limiter or the audit log.
func ExtractClientIP(r *http.Request, config *IPConfig) string {
	peer := remoteIP(r)

	if config == nil || !inTrustedRange(peer, config.TrustedProxies) {
		return peer
	}

	// X-Forwarded-For lists client first, then intermediate proxies.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, candidate := range strings.Split(xff, ",") {
			candidate = strings.TrimSpace(candidate)
			if net.ParseIP(candidate) != nil {
				return candidate
			}
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	return peer
}

func remoteIP(r *http.Request) string {
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func inTrustedRange(ip string, ranges []string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}

	for _, cidr := range ranges {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			continue
		}
		if network.Contains(parsed) {
			return true
		}
	}
	return false
}
