package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/agentstation/devicemap/pkg/constants"
	"github.com/agentstation/devicemap/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs authenticated JSON requests against one remote API.
// Writes (anything but GET/HEAD) pass through an optional rate limiter.
type Client struct {
	http     *http.Client
	auth     Authenticator
	token    string
	provider string
	limiter  *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithWriteRateLimit throttles write requests to rps per second.
// A non-positive rps leaves writes unthrottled.
func WithWriteRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			burst := int(rps)
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// New creates a transport client for provider, applying auth with token on every request.
func New(provider string, auth Authenticator, token string, opts ...Option) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	c := &Client{
		http:     &http.Client{Timeout: DefaultHTTPTimeout},
		auth:     auth,
		token:    token,
		provider: provider,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if c.limiter != nil && req.Method != http.MethodGet && req.Method != http.MethodHead {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.WrapResource("throttle", "request", req.Method+" "+req.URL.Path, err)
		}
	}

	if c.token != "" {
		c.auth.Apply(req, c.token)
	}
	req.Header.Set("Accept", "application/json")

	return c.http.Do(req.WithContext(ctx))
}

// JSON sends body (when non-nil) as JSON and decodes the response into result
// (when non-nil). Status codes >= 400 become *errors.APIError carrying the body text.
func (c *Client) JSON(ctx context.Context, method, url string, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.WrapParse("json", "request", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return errors.WrapResource("create", "request", method+" "+url, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return errors.WrapResource("send", "request", method+" "+url, err)
	}
	return c.decode(resp, method+" "+url, result)
}

// decode reads the body, maps failures to APIError and unmarshals successes.
func (c *Client) decode(resp *http.Response, endpoint string, result any) error {
	defer resp.Body.Close() //nolint:errcheck

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode >= 400 {
		return &errors.APIError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(respBody)),
			Endpoint:   endpoint,
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.WrapParse("json", endpoint, err)
		}
	}
	return nil
}

// DecodeResponse decodes a JSON response into the target structure.
func (c *Client) DecodeResponse(resp *http.Response, target any) error {
	endpoint := ""
	if resp.Request != nil && resp.Request.URL != nil {
		endpoint = resp.Request.Method + " " + resp.Request.URL.String()
	}
	return c.decode(resp, endpoint, target)
}
