// Package rest is the HTTP transport adapter between the stores and the blog
// REST API. It turns one logical operation into one request and turns the
// response into either a decoded value or a *domain.Failure.
package rest

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

	"github.com/rs/zerolog"

	"github.com/quillpress/blog-client/internal/core/domain"
	"github.com/quillpress/blog-client/internal/core/ports"
	"github.com/quillpress/blog-client/internal/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// operation describes one logical API call and how its failures are reported.
type operation struct {
	name     string
	kind     error
	fallback string
}

var (
	opList       = operation{"list", domain.ErrFetchFailed, "Failed to fetch articles"}
	opGet        = operation{"get", domain.ErrGetFailed, "Failed to fetch article"}
	opCreate     = operation{"create", domain.ErrCreateFailed, "Failed to create article"}
	opUpdate     = operation{"update", domain.ErrUpdateFailed, "Failed to update article"}
	opDelete     = operation{"delete", domain.ErrDeleteFailed, "Failed to delete article"}
	opSearch     = operation{"search", domain.ErrSearchFailed, "Failed to search articles"}
	opFilter     = operation{"filter", domain.ErrFilterFailed, "Failed to filter articles"}
	opLike       = operation{"like", domain.ErrLikeFailed, "Failed to like article"}
	opBookmark   = operation{"bookmark", domain.ErrBookmarkFailed, "Failed to bookmark article"}
	opCategories = operation{"categories", domain.ErrCategoriesFailed, "Failed to fetch categories"}
)

// Option mutates client configuration.
type Option func(*client)

// WithHTTPClient replaces the default *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTokenSource sets where bearer tokens are read from.
func WithTokenSource(ts ports.TokenSource) Option {
	return func(c *client) {
		c.tokens = ts
	}
}

// WithLogger injects a logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *client) {
		c.log = log
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

type client struct {
	base   *url.URL
	http   *http.Client
	tokens ports.TokenSource
	log    zerolog.Logger
}

func newClient(endpoint string, options ...Option) (*client, error) {
	base, err := url.Parse(strings.TrimRight(endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse endpoint %q: %w", endpoint, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("parse endpoint %q: absolute URL required", endpoint)
	}

	c := &client{
		base: base,
		http: &http.Client{Timeout: defaultTimeout},
		log:  zerolog.Nop(),
	}
	for _, option := range options {
		option(c)
	}
	return c, nil
}

// errorBody is the subset of an error payload the client understands.
type errorBody struct {
	Message string `json:"message"`
}

// do performs one request. segments are escaped and appended to the endpoint
// path, rawQuery is used verbatim, body is JSON-encoded when non-nil, and a 2xx
// payload is returned undecoded.
func (c *client) do(ctx context.Context, op operation, method string, segments []string, rawQuery string, body any) ([]byte, error) {
	start := time.Now()
	payload, status, err := c.roundTrip(ctx, method, segments, rawQuery, body)

	metrics.ClientRequestDuration.WithLabelValues(op.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(op.name, "failed").Inc()
		failure := c.failure(op, status, payload, err)
		c.log.Error().Err(err).
			Str("operation", op.name).
			Str("method", method).
			Int("status", status).
			Msg(failure.Message)
		return nil, failure
	}

	metrics.ClientRequestsTotal.WithLabelValues(op.name, "ok").Inc()
	c.log.Debug().
		Str("operation", op.name).
		Str("method", method).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")
	return payload, nil
}

// errStatus marks a response that arrived with a non-2xx status.
type errStatus int

func (e errStatus) Error() string {
	return fmt.Sprintf("unexpected status %d", int(e))
}

func (c *client) roundTrip(ctx context.Context, method string, segments []string, rawQuery string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	u := c.base.JoinPath(escaped...)
	u.RawQuery = rawQuery

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	c.authorize(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return data, resp.StatusCode, errStatus(resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return data, resp.StatusCode, nil
}

// authorize attaches the bearer token when one is stored. A missing token or
// an unreadable token store is not an error here; the server decides.
func (c *client) authorize(ctx context.Context, req *http.Request) {
	if c.tokens == nil {
		return
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		c.log.Warn().Err(err).Msg("token lookup failed, sending request without authorization")
		return
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// failure builds the user-facing failure, preferring the server message.
func (c *client) failure(op operation, status int, payload []byte, cause error) *domain.Failure {
	msg := op.fallback
	if len(payload) > 0 {
		var eb errorBody
		if json.Unmarshal(payload, &eb) == nil && strings.TrimSpace(eb.Message) != "" {
			msg = eb.Message
		}
	}
	return domain.NewFailure(op.kind, msg, status, cause)
}

// decodeOne decodes a single object payload.
func decodeOne[T any](op operation, payload []byte) (T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return v, domain.NewFailure(op.kind, op.fallback, http.StatusOK, fmt.Errorf("decode response: %w", err))
	}
	return v, nil
}

// decodeList decodes an array payload. Anything that is not a JSON array
// yields an empty, non-nil slice.
func decodeList[T any](op operation, payload []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return []T{}, nil
	}
	out := []T{}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return []T{}, domain.NewFailure(op.kind, op.fallback, http.StatusOK, fmt.Errorf("decode response: %w", err))
	}
	return out, nil
}

// escapeComponent percent-encodes s the way encodeURIComponent does for
// query values: spaces become %20 rather than '+'.
func escapeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
