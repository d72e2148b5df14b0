package requestcontext

import (
	"context"
	"log/slog"
	"net"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
)

type clientIPKey struct{}

type WithClientIPConfig struct {
	// TrustedProxiesIP are the CIDR ranges of every proxy between the server and the client.
	// The client IP is the last `X-Forwarded-For` entry outside of these ranges.
	TrustedProxiesIP []string `mapstructure:"trusted_proxies_ip"`

	// TrustedHeader carries the client IP, e.g. X-Real-IP or CF-Connecting-IP. It takes precedence when valid.
	TrustedHeader string `mapstructure:"trusted_proxies_header"`

	// EnableRejectMalformedRequest responds 403 when the request came through proxies but no client IP can be extracted.
	EnableRejectMalformedRequest bool `mapstructure:"enable_reject_malformed_request"`
}

// WithClientIP resolves the client IP with X-Forwarded-For spoofing prevention.
func WithClientIP(config WithClientIPConfig) (Option, error) {
	trustedProxies, err := parseCIDRs(config.TrustedProxiesIP)
	if err != nil {
		return nil, errors.Wrap(err, "invalid trusted proxies")
	}

	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		with := func(ip string) (context.Context, error) {
			return logger.WithContext(context.WithValue(ctx, clientIPKey{}, ip), slog.String("client_ip", ip)), nil
		}

		if config.TrustedHeader != "" {
			if headerIP := c.Get(config.TrustedHeader); net.ParseIP(headerIP) != nil {
				return with(headerIP)
			}
		}

		rawIPs := c.IPs()
		if len(rawIPs) == 0 {
			return with(c.IP())
		}

		if len(trustedProxies) > 0 {
			for i := len(rawIPs) - 1; i >= 0; i-- {
				if ip := net.ParseIP(rawIPs[i]); ip != nil && !isTrusted(trustedProxies, ip) {
					return with(ip.String())
				}
			}
			return with(rawIPs[0])
		}

		if config.EnableRejectMalformedRequest {
			logger.WarnContext(ctx, "Possible IP spoofing, rejecting request",
				slog.String("module", "requestcontext"),
				slog.String("ip", c.IP()),
				slogx.Any("ips", rawIPs),
			)
			return nil, rejectError{
				status:  fiber.StatusForbidden,
				message: "not allowed to access",
			}
		}
		return with(rawIPs[0])
	}, nil
}

// GetClientIP returns the client IP set by WithClientIP, or an empty string.
func GetClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func isTrusted(trustedProxies []*net.IPNet, ip net.IP) bool {
	return lo.ContainsBy(trustedProxies, func(r *net.IPNet) bool { return r.Contains(ip) })
}

func parseCIDRs(ranges []string) ([]*net.IPNet, error) {
	nets := make([]*net.IPNet, 0, len(ranges))
	for _, r := range ranges {
		_, ipnet, err := net.ParseCIDR(r)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to parse CIDR %q", r)
		}
		nets = append(nets, ipnet)
	}
	return nets, nil
}
