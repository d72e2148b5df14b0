package requestcontext

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T, config WithClientIPConfig) (*fiber.App, *string) {
	withClientIP, err := WithClientIP(config)
	require.NoError(t, err)

	var clientIP string
	app := fiber.New()
	app.Use(New(WithRequestId(), withClientIP))
	app.Get("/", func(c *fiber.Ctx) error {
		clientIP = GetClientIP(c.UserContext())
		return c.SendString(GetRequestId(c.UserContext()))
	})
	return app, &clientIP
}

func TestWithClientIP(t *testing.T) {
	tests := []struct {
		name     string
		config   WithClientIPConfig
		header   map[string]string
		expected string
		status   int
	}{
		{
			name:     "trusted header",
			config:   WithClientIPConfig{TrustedHeader: "X-Real-Ip"},
			header:   map[string]string{"X-Real-Ip": "1.2.3.4", fiber.HeaderXForwardedFor: "5.6.7.8"},
			expected: "1.2.3.4",
			status:   http.StatusOK,
		},
		{
			name:     "skip trusted proxies",
			config:   WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}},
			header:   map[string]string{fiber.HeaderXForwardedFor: "9.9.9.9, 1.2.3.4, 10.0.0.2"},
			expected: "1.2.3.4",
			status:   http.StatusOK,
		},
		{
			name:     "first forwarded ip",
			header:   map[string]string{fiber.HeaderXForwardedFor: "1.2.3.4, 10.0.0.2"},
			expected: "1.2.3.4",
			status:   http.StatusOK,
		},
		{
			name:   "reject malformed request",
			config: WithClientIPConfig{EnableRejectMalformedRequest: true},
			header: map[string]string{fiber.HeaderXForwardedFor: "1.2.3.4"},
			status: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, clientIP := newTestApp(t, tt.config)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.expected, *clientIP)
				assert.NotEmpty(t, resp.Header.Get(fiber.HeaderXRequestID))
			}
		})
	}
}

func TestWithClientIPInvalidProxies(t *testing.T) {
	_, err := WithClientIP(WithClientIPConfig{TrustedProxiesIP: []string{"not-a-cidr"}})
	assert.Error(t, err)
}
