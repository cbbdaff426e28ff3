package torre

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/mbernardes19/torre-matheus/pkg/httpclient"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

const (
	defaultBaseURL = "https://search.torre.co"
	searchPath     = "/opportunities/_search"
)

// Client translates search expressions into calls against the Torre search API
type Client struct {
	http   *httpclient.Client
	logger *logging.Logger
}

// NewClient instantiates a Torre search client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Client{
		http: httpclient.New(httpclient.Config{
			BaseURL:    baseURL,
			Headers:    cfg.Headers,
			Timeout:    cfg.Timeout,
			HTTPClient: cfg.HTTPClient,
			Logger:     logger,
		}),
		logger: logger.Named("torre"),
	}
}

// SearchOpportunities posts expr to the search endpoint. Executor failures are
// returned unchanged so callers can errors.As them into httpclient error types.
func (c *Client) SearchOpportunities(ctx context.Context, expr Expression, params *Params) (*ResultPage, error) {
	if c == nil {
		return nil, fmt.Errorf("torre: client is nil")
	}

	raw, err := httpclient.Post[json.RawMessage](ctx, c.http, searchPath, expr,
		httpclient.WithParams(buildSearchParams(params)))
	if err != nil {
		return nil, err
	}

	page := &ResultPage{}
	if err := json.Unmarshal(raw, page); err != nil {
		return nil, &httpclient.DecodeError{Err: err}
	}
	page.Raw = raw

	c.logger.Debug("search completed",
		"total", page.Total,
		"offset", page.Offset,
		"results", len(page.Results),
	)

	return page, nil
}

// buildSearchParams keeps a fixed key order so identical input yields an identical query string.
func buildSearchParams(p *Params) httpclient.Params {
	if p == nil {
		return nil
	}

	var out httpclient.Params
	if p.Currency != "" {
		out.Add("currency", string(p.Currency))
	}
	if p.Periodicity != "" {
		out.Add("periodicity", string(p.Periodicity))
	}
	if p.Lang != "" {
		out.Add("lang", p.Lang)
	}
	if p.Size != nil {
		out.Add("size", strconv.Itoa(*p.Size))
	}
	if p.ContextFeature != "" {
		out.Add("contextFeature", p.ContextFeature)
	}
	if p.Offset != nil {
		out.Add("offset", strconv.Itoa(*p.Offset))
	}
	if p.Aggregate != nil {
		out.Add("aggregate", strconv.FormatBool(*p.Aggregate))
	}
	if p.Before != "" {
		out.Add("before", p.Before)
	}
	if p.After != "" {
		out.Add("after", p.After)
	}

	return out
}
