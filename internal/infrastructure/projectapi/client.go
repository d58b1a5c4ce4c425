package projectapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"group_project_service/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Doer is the part of *http.Client the project API client needs.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the grading and workgroup membership service.
type Client struct {
	address string
	dryRun  bool
	token   string
	http    Doer
	json    jsoniter.API
}

type Option func(*Client)

func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the API rooted at address. In dry run mode no
// request ever leaves the process and every call yields an empty response.
func New(address string, dryRun bool, opts ...Option) *Client {
	c := &Client{
		address: strings.TrimRight(address, "/"),
		dryRun:  dryRun,
		http:    &http.Client{Timeout: 10 * time.Second},
		json:    jsoniter.ConfigCompatibleWithStandardLibrary,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	data            any
	hasData         bool
	query           url.Values
	noTrailingSlash bool
}

type RequestOption func(*request)

// WithData sends data as the JSON request body.
func WithData(data any) RequestOption {
	return func(r *request) {
		r.data = data
		r.hasData = true
	}
}

func WithQuery(query url.Values) RequestOption {
	return func(r *request) {
		r.query = query
	}
}

func WithoutTrailingSlash() RequestOption {
	return func(r *request) {
		r.noTrailingSlash = true
	}
}

// URL joins parts onto the API address. An absolute URL as the first part
// replaces the address, which is how the API links related resources.
func (c *Client) URL(parts []any, query url.Values, noTrailingSlash bool) string {
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		segments = append(segments, strings.Trim(fmt.Sprint(p), "/"))
	}

	base := c.address
	if len(segments) > 0 && isAbsoluteURL(segments[0]) {
		base = segments[0]
		segments = segments[1:]
	}

	var sb strings.Builder
	sb.WriteString(base)
	if len(segments) > 0 {
		sb.WriteString("/")
		sb.WriteString(strings.Join(segments, "/"))
	}
	if !noTrailingSlash {
		sb.WriteString("/")
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(query.Encode())
	}
	return sb.String()
}

// SendRequest performs a single call and returns the raw JSON body.
// DELETE calls return a nil body. Non-2xx responses are returned as *APIError.
func (c *Client) SendRequest(ctx context.Context, method string, parts []any, opts ...RequestOption) ([]byte, error) {
	var req request
	for _, opt := range opts {
		opt(&req)
	}

	if c.dryRun {
		return []byte("{}"), nil
	}

	target := c.URL(parts, req.query, req.noTrailingSlash)

	var body io.Reader
	if req.hasData {
		payload, err := c.json.Marshal(req.data)
		if err != nil {
			return nil, fmt.Errorf("projectapi: marshal %s %s body: %w", method, target, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("projectapi: build %s %s: %w", method, target, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Token "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("projectapi: %s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("projectapi: read %s %s response: %w", method, target, err)
	}

	logger(ctx).Debug("project api call",
		slog.String("method", method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Code:    resp.StatusCode,
			Message: http.StatusText(resp.StatusCode),
			Content: content,
			Method:  method,
			URL:     target,
		}
	}

	if method == http.MethodDelete {
		return nil, nil
	}
	return content, nil
}

// do sends the request and decodes the response into out, when both exist.
func (c *Client) do(ctx context.Context, method string, parts []any, out any, opts ...RequestOption) error {
	content, err := c.SendRequest(ctx, method, parts, opts...)
	if err != nil {
		return err
	}
	if out == nil || c.dryRun || len(content) == 0 {
		return nil
	}
	if err := c.json.Unmarshal(content, out); err != nil {
		return fmt.Errorf("projectapi: decode %s %v response: %w", method, parts, err)
	}
	return nil
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}
