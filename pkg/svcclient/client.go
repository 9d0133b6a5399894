// Package svcclient calls sibling CRUD services over HTTP and decodes their
// {data: ...} / {error: {code, message}} envelopes.
package svcclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/ablecloud-team/ablecloud-crm/pkg/config"
	"github.com/ablecloud-team/ablecloud-crm/pkg/metrics"
)

const defaultTimeout = 10 * time.Second

// Error is a non-2xx answer from a sibling service
type Error struct {
	Service    string
	StatusCode int
	Code       string
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s returned %d: %s", e.Service, e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from a sibling service
func IsNotFound(err error) bool {
	var svcErr *Error
	return errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound
}

// Options are the per-request inputs
type Options struct {
	Token string
	Query url.Values
	Body  interface{}
}

// Response is a raw upstream answer
type Response struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports a 2xx status
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Data returns the "data" member of the envelope
func (r *Response) Data() gjson.Result {
	return gjson.GetBytes(r.Body, "data")
}

// ErrorMessage extracts the message from an error envelope
func (r *Response) ErrorMessage() string {
	for _, path := range []string{"error.message", "message", "error"} {
		if v := gjson.GetBytes(r.Body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return http.StatusText(r.StatusCode)
}

// ErrorCode extracts the code from an error envelope
func (r *Response) ErrorCode() string {
	return gjson.GetBytes(r.Body, "error.code").String()
}

// Client talks to one sibling service
type Client struct {
	name    string
	http    *resty.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// New creates a client for the service called name
func New(name string, cfg config.APIConfig, logger *zap.Logger, m *metrics.Metrics) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &Client{name: name, http: rc, logger: logger, metrics: m}
}

// Name returns the service name used in logs and metrics
func (c *Client) Name() string {
	return c.name
}

// Do performs a request. Only transport failures are returned as errors.
func (c *Client) Do(ctx context.Context, method, path string, opts Options) (*Response, error) {
	req := c.http.R().SetContext(ctx)
	if opts.Token != "" {
		req.SetAuthToken(opts.Token)
	}
	if len(opts.Query) > 0 {
		req.SetQueryParamsFromValues(opts.Query)
	}
	if opts.Body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(opts.Body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	duration := time.Since(start)

	status := 0
	if resp != nil {
		status = resp.StatusCode()
	}
	c.metrics.RecordExternalAPICall("/"+c.name+path, method, status, duration, err)

	if err != nil {
		c.logger.Error("Upstream request failed",
			zap.String("service", c.name),
			zap.String("method", method),
			zap.String("path", path),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%s %s %s: %w", c.name, method, path, err)
	}

	if status >= 500 {
		c.logger.Warn("Upstream returned server error",
			zap.String("service", c.name),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}

	return &Response{StatusCode: status, Body: resp.Body()}, nil
}

// GetData fetches path and decodes the envelope data into out
func (c *Client) GetData(ctx context.Context, path, token string, out interface{}) error {
	resp, err := c.Do(ctx, http.MethodGet, path, Options{Token: token})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return c.asError(resp)
	}
	data := resp.Data()
	if !data.Exists() {
		return fmt.Errorf("%s %s: response has no data", c.name, path)
	}
	if err := json.Unmarshal([]byte(data.Raw), out); err != nil {
		return fmt.Errorf("%s %s: failed to decode data: %w", c.name, path, err)
	}
	return nil
}

func (c *Client) asError(resp *Response) *Error {
	return &Error{
		Service:    c.name,
		StatusCode: resp.StatusCode,
		Code:       resp.ErrorCode(),
		Message:    resp.ErrorMessage(),
	}
}

// AsError converts an unsuccessful response into an *Error
func (c *Client) AsError(resp *Response) error {
	if resp.IsSuccess() {
		return nil
	}
	return c.asError(resp)
}
