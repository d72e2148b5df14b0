// Package httpclient is a small fasthttp client for JSON APIs.
package httpclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/valyala/fasthttp"
)

const DefaultTimeout = 10 * time.Second

type Config struct {
	// Debug logs every request.
	Debug bool

	// Headers are sent with every request.
	Headers map[string]string

	// Timeout bounds a request when the context has no earlier deadline.
	Timeout time.Duration
}

type Client struct {
	baseURL *url.URL
	config  Config
}

func New(baseURL string, config ...Config) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "can't parse base url")
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Errorf("base url %q must be absolute", baseURL)
	}
	var cf Config
	if len(config) > 0 {
		cf = config[0]
	}
	if cf.Timeout <= 0 {
		cf.Timeout = DefaultTimeout
	}
	return &Client{baseURL: u, config: cf}, nil
}

// Response is a detached copy of a fasthttp response.
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

func (r *Response) IsError() bool {
	return r.StatusCode >= fasthttp.StatusBadRequest
}

// PostJSON posts body encoded as JSON to path, relative to the base URL.
func (h *Client) PostJSON(ctx context.Context, path string, body any) (*Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, "can't marshal request body")
	}
	return h.Do(ctx, fasthttp.MethodPost, path, b)
}

// Do sends body with method to path. A non-nil body is sent as JSON.
func (h *Client) Do(ctx context.Context, method, reqPath string, body []byte) (*Response, error) {
	u := *h.baseURL
	u.Path = path.Join(u.Path, reqPath)
	target := u.String()

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(method)
	req.SetRequestURI(target)
	for k, v := range h.config.Headers {
		req.Header.Set(k, v)
	}
	if body != nil {
		req.Header.SetContentType("application/json")
		req.SetBody(body)
	}

	deadline := time.Now().Add(h.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	start := time.Now()
	if err := fasthttp.DoDeadline(req, resp, deadline); err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, target)
	}
	if h.config.Debug {
		logger.DebugContext(ctx, "Finished http request",
			slog.String("package", "httpclient"),
			slog.String("method", method),
			slog.String("url", target),
			slog.Int("status_code", resp.StatusCode()),
			slog.Duration("latency", time.Since(start)),
		)
	}

	return &Response{
		URL:        target,
		StatusCode: resp.StatusCode(),
		Body:       append([]byte(nil), resp.Body()...),
	}, nil
}
