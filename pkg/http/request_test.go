package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/SUGALIRAHUL/adapti-finance-pal/pkg/http"
	"github.com/stretchr/testify/assert"
)

func ipRequest(remoteAddr string, headers map[string]string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return req
}

func TestExtractClientIP(t *testing.T) {
	internal := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8", "127.0.0.1/32"}}

	tests := []struct {
		name   string
		req    *http.Request
		config *pkghttp.IPConfig
		want   string
	}{
		{
			name: "direct connection ignores forwarding headers",
			req: ipRequest("203.0.113.10:54321", map[string]string{
				"X-Forwarded-For": "1.2.3.4, 5.6.7.8",
				"X-Real-IP":       "192.168.1.1",
			}),
			config: internal,
			want:   "203.0.113.10",
		},
		{
			name: "trusted proxy uses first forwarded address",
			req: ipRequest("10.0.0.5:54321", map[string]string{
				"X-Forwarded-For": "203.0.113.42, 203.0.113.43, 10.0.0.5",
			}),
			config: internal,
			want:   "203.0.113.42",
		},
		{
			name: "trusted proxy falls back to X-Real-IP",
			req: ipRequest("10.0.0.5:54321", map[string]string{
				"X-Real-IP": "203.0.113.42",
			}),
			config: internal,
			want:   "203.0.113.42",
		},
		{
			name:   "nil config never trusts headers",
			req:    ipRequest("203.0.113.10:54321", map[string]string{"X-Forwarded-For": "1.2.3.4"}),
			config: nil,
			want:   "203.0.113.10",
		},
		{
			name:   "empty proxy list never trusts headers",
			req:    ipRequest("203.0.113.10:54321", map[string]string{"X-Forwarded-For": "1.2.3.4"}),
			config: &pkghttp.IPConfig{TrustedProxies: []string{}},
			want:   "203.0.113.10",
		},
		{
			name:   "invalid CIDR entries are skipped",
			req:    ipRequest("203.0.113.10:54321", map[string]string{"X-Forwarded-For": "1.2.3.4"}),
			config: &pkghttp.IPConfig{TrustedProxies: []string{"not-a-cidr"}},
			want:   "203.0.113.10",
		},
		{
			name: "ipv6 proxy and client",
			req: ipRequest("[::1]:54321", map[string]string{
				"X-Forwarded-For": "2001:db8::1",
			}),
			config: &pkghttp.IPConfig{TrustedProxies: []string{"::1/128"}},
			want:   "2001:db8::1",
		},
		{
			name:   "port stripped from remote addr",
			req:    ipRequest("203.0.113.10:54321", nil),
			config: nil,
			want:   "203.0.113.10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pkghttp.ExtractClientIP(tt.req, tt.config))
		})
	}
}

// A client claiming to be localhost must not be able to dodge per-IP
// limits on the OTP endpoints.
func TestExtractClientIP_LocalhostSpoofIgnored(t *testing.T) {
	req := ipRequest("203.0.113.10:54321", map[string]string{
		"X-Forwarded-For": "127.0.0.1, 203.0.113.10",
	})
	config := &pkghttp.IPConfig{TrustedProxies: []string{"10.0.0.0/8"}}

	assert.Equal(t, "203.0.113.10", pkghttp.ExtractClientIP(req, config))
}
