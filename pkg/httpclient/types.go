package httpclient

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

// DefaultTimeout applies when neither the call nor the client sets one.
const DefaultTimeout = 30 * time.Second

// Config defines client-wide request settings
type Config struct {
	// BaseURL is prepended to every target that is not already absolute
	BaseURL string
	// Headers override the default Content-Type and are overridden by per-call headers
	Headers    map[string]string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client executes single JSON-oriented HTTP requests
type Client struct {
	baseURL    string
	headers    map[string]string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logging.Logger
}

// Param is one query string entry.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered query parameter list. Repeated keys are kept as-is.
type Params []Param

// Add appends key=value, keeping any earlier entry with the same key.
func (p *Params) Add(key, value string) {
	*p = append(*p, Param{Key: key, Value: value})
}

// Encode renders the params in insertion order using form encoding.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, kv := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(kv.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(kv.Value))
	}
	return sb.String()
}

type requestConfig struct {
	params  Params
	headers map[string]string
	timeout time.Duration
}

// RequestOption customizes a single call
type RequestOption func(*requestConfig)

// WithParams appends query parameters to the request URL
func WithParams(params Params) RequestOption {
	return func(rc *requestConfig) {
		rc.params = append(rc.params, params...)
	}
}

// WithHeader sets a per-call header, overriding client defaults
func WithHeader(key, value string) RequestOption {
	return func(rc *requestConfig) {
		if rc.headers == nil {
			rc.headers = make(map[string]string)
		}
		rc.headers[key] = value
	}
}

// WithHeaders sets several per-call headers at once
func WithHeaders(headers map[string]string) RequestOption {
	return func(rc *requestConfig) {
		for k, v := range headers {
			WithHeader(k, v)(rc)
		}
	}
}

// WithTimeout overrides the client timeout for one call
func WithTimeout(d time.Duration) RequestOption {
	return func(rc *requestConfig) {
		rc.timeout = d
	}
}
