package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

// New instantiates a Client from cfg, filling defaults
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	headers := make(map[string]string, len(cfg.Headers))
	for k, v := range cfg.Headers {
		headers[k] = v
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		headers:    headers,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger.Named("httpclient"),
	}
}

// Do performs exactly one request and decodes the response body into T.
// JSON responses are unmarshaled; any other content type is returned as raw
// text, which requires T to be string, []byte or any.
func Do[T any](ctx context.Context, c *Client, method, target string, body any, opts ...RequestOption) (T, error) {
	var zero T

	contentType, data, err := c.execute(ctx, method, target, body, opts)
	if err != nil {
		return zero, err
	}

	return decode[T](contentType, data)
}

// Get issues a GET request
func Get[T any](ctx context.Context, c *Client, target string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodGet, target, nil, opts...)
}

// Post issues a POST request with body serialized as JSON
func Post[T any](ctx context.Context, c *Client, target string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPost, target, body, opts...)
}

// Put issues a PUT request with body serialized as JSON
func Put[T any](ctx context.Context, c *Client, target string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPut, target, body, opts...)
}

// Patch issues a PATCH request with body serialized as JSON
func Patch[T any](ctx context.Context, c *Client, target string, body any, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodPatch, target, body, opts...)
}

// Delete issues a DELETE request
func Delete[T any](ctx context.Context, c *Client, target string, opts ...RequestOption) (T, error) {
	return Do[T](ctx, c, http.MethodDelete, target, nil, opts...)
}

func (c *Client) execute(ctx context.Context, method, target string, body any, opts []RequestOption) (string, []byte, error) {
	if c == nil {
		return "", nil, fmt.Errorf("httpclient: client is nil")
	}

	rc := requestConfig{timeout: c.timeout}
	for _, opt := range opts {
		opt(&rc)
	}
	if rc.timeout <= 0 {
		rc.timeout = c.timeout
	}

	u, err := c.buildURL(target, rc.params)
	if err != nil {
		return "", nil, &NetworkError{Err: err}
	}

	var reader io.Reader
	if body != nil {
		payload, err := encodeJSON(body)
		if err != nil {
			return "", nil, fmt.Errorf("httpclient: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	timeoutErr := &TimeoutError{Duration: rc.timeout}
	timer := time.AfterFunc(rc.timeout, func() { cancel(timeoutErr) })
	defer timer.Stop()

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return "", nil, &NetworkError{Err: err}
	}
	req.Header = c.mergeHeaders(rc.headers)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		failure := transportError(ctx, timeoutErr, err)
		c.logger.Warn("request failed", "method", method, "url", u, "err", failure)
		return "", nil, failure
	}
	timer.Stop()
	defer func() {
		_ = resp.Body.Close()
	}()

	c.logger.Debug("response received",
		"method", method,
		"url", u,
		"status", resp.StatusCode,
		"latency", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		failure := &HTTPStatusError{Code: resp.StatusCode, Text: statusText(resp)}
		c.logger.Warn("request rejected", "method", method, "url", u, "err", failure)
		return "", nil, failure
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, transportError(ctx, timeoutErr, err)
	}

	return resp.Header.Get("Content-Type"), data, nil
}

func (c *Client) buildURL(target string, params Params) (string, error) {
	full := target
	if !isAbsolute(target) {
		full = c.baseURL + target
	}

	if len(params) == 0 {
		return full, nil
	}

	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", full, err)
	}

	query := params.Encode()
	if u.RawQuery != "" {
		u.RawQuery += "&" + query
	} else {
		u.RawQuery = query
	}

	return u.String(), nil
}

func (c *Client) mergeHeaders(custom map[string]string) http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	for k, v := range c.headers {
		h.Set(k, v)
	}
	for k, v := range custom {
		h.Set(k, v)
	}
	return h
}

func isAbsolute(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// encodeJSON serializes v without HTML escaping and without a trailing newline.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func transportError(ctx context.Context, timeoutErr *TimeoutError, err error) error {
	if context.Cause(ctx) == error(timeoutErr) {
		return timeoutErr
	}
	return &NetworkError{Err: err}
}

func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

func isJSON(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.Contains(contentType, "application/json")
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}

func decode[T any](contentType string, data []byte) (T, error) {
	var out T

	if isJSON(contentType) {
		if err := json.Unmarshal(data, &out); err != nil {
			return out, &DecodeError{Err: err}
		}
		return out, nil
	}

	switch p := any(&out).(type) {
	case *string:
		*p = string(data)
	case *[]byte:
		*p = data
	case *any:
		*p = string(data)
	default:
		return out, &DecodeError{Err: fmt.Errorf("content type %q cannot populate %T", contentType, out)}
	}

	return out, nil
}
