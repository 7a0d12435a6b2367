package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSwaggerProtection(t *testing.T) {
	tests := []struct {
		name       string
		cfg        SwaggerConfig
		remoteAddr string
		wantStatus int
		wantCode   string
	}{
		{name: "disabled", cfg: SwaggerConfig{}, remoteAddr: "127.0.0.1:1000", wantStatus: http.StatusNotFound, wantCode: "NOT_FOUND"},
		{name: "open", cfg: SwaggerConfig{Enabled: true}, remoteAddr: "203.0.113.9:1000", wantStatus: http.StatusOK},
		{name: "whitelisted address", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, remoteAddr: "127.0.0.1:1000", wantStatus: http.StatusOK},
		{name: "address outside whitelist", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, remoteAddr: "203.0.113.9:1000", wantStatus: http.StatusForbidden, wantCode: "NOT_AUTHORIZED"},
		{name: "cidr range", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.1.0.0/16"}}, remoteAddr: "10.1.44.7:1000", wantStatus: http.StatusOK},
		{name: "only garbage entries deny all", cfg: SwaggerConfig{Enabled: true, AllowedIPs: []string{"not-an-ip"}}, remoteAddr: "127.0.0.1:1000", wantStatus: http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newEngine(SwaggerProtection(tt.cfg))
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.RemoteAddr = tt.remoteAddr

			w := serve(r, req)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestIsIPAllowed(t *testing.T) {
	allowed := []netip.Prefix{
		netip.MustParsePrefix("192.168.1.0/24"),
		netip.MustParsePrefix("::1/128"),
	}
	assert.True(t, isIPAllowed("192.168.1.20", allowed))
	assert.True(t, isIPAllowed("::ffff:192.168.1.20", allowed))
	assert.True(t, isIPAllowed("::1", allowed))
	assert.False(t, isIPAllowed("192.168.2.1", allowed))
	assert.False(t, isIPAllowed("", allowed))
}
