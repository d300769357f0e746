package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/raywall/bitable-toolkit/bitable"
)

// Client performs authenticated JSON calls against the Bitable open API.
// A zero-option client talks to the public endpoint with a 30 second timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithBaseURL points the client at a different API host, usually a test
// server or a regional endpoint.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(base, "/") }
}

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client for the public Bitable endpoint.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    bitable.DefaultBaseURL,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API base.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchToken exchanges app credentials for a tenant access token. Its
// signature matches token.Fetcher so a Client plugs straight into the cache.
func (c *Client) FetchToken(ctx context.Context, appID, appSecret string) (string, int, error) {
	payload := bitable.TokenRequest{AppID: appID, AppSecret: appSecret}
	raw, err := c.do(ctx, http.MethodPost, bitable.PathAppAccessToken, "", nil, payload)
	if err != nil {
		return "", 0, err
	}

	var resp bitable.TokenResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", 0, bitable.WrapError(bitable.CodeResponseParseError, err, "malformed token response")
	}
	if resp.Code != 0 {
		return "", 0, bitable.NewError(bitable.CodeTokenAcquireFailed, "token endpoint returned code %d: %s", resp.Code, resp.Msg)
	}
	token := resp.TenantAccessToken
	if token == "" {
		token = resp.AppAccessToken
	}
	return token, resp.Expire, nil
}

// Call performs one authenticated API call and returns the envelope payload.
// A non-zero envelope code is surfaced as an API error even on HTTP 200.
func Call[T any](ctx context.Context, c *Client, method, path, token string, query url.Values, body any) (*T, error) {
	raw, err := c.do(ctx, method, path, token, query, body)
	if err != nil {
		return nil, err
	}

	var env bitable.Envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, bitable.WrapError(bitable.CodeResponseParseError, err, "malformed response from %s", path)
	}
	if env.Code != 0 {
		msg := env.Msg
		if msg == "" {
			msg = env.Error
		}
		return nil, bitable.NewError(bitable.CodeAPIError, "remote error %d on %s: %s", env.Code, path, msg)
	}
	return &env.Data, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, query url.Values, body any) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, bitable.WrapError(bitable.CodeEntityMappingFail, err, "cannot encode request body for %s", path)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, bitable.WrapError(bitable.CodeAPIError, err, "cannot build request for %s", path)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if token != "" {
		req.Header.Set("Authorization", bitable.AuthorizationPrefix+token)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, bitable.WrapError(bitable.CodeAPIError, err, "request to %s failed", path)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, bitable.WrapError(bitable.CodeAPIError, err, "cannot read response from %s", path)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("bitable call")

	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, bitable.NewError(bitable.CodeResponseEmpty, "empty response from %s (status %d)", path, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// the envelope usually still explains the failure
		var env bitable.Envelope[json.RawMessage]
		if json.Unmarshal(raw, &env) == nil && env.Code != 0 {
			msg := env.Msg
			if msg == "" {
				msg = env.Error
			}
			return nil, bitable.NewError(bitable.CodeAPIError, "remote error %d on %s: %s", env.Code, path, msg)
		}
		return nil, bitable.NewError(bitable.CodeAPIError, "unexpected status %d from %s", resp.StatusCode, path)
	}
	return raw, nil
}

// Path fills a path template with its positional segments.
func Path(template string, segments ...any) string {
	return fmt.Sprintf(template, segments...)
}
