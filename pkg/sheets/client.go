package sheets

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"unicode"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	inputRaw    = "RAW"
	insertRows  = "INSERT_ROWS"
	defaultTab  = "Sheet1"
	headerRange = "A1"
	bodyRange   = "A2"
)

type Client struct {
	service *sheets.Service
}

// Config selects credentials. Endpoint and HTTPClient point the client at a
// non-Google server; with neither credential set that server is called unauthenticated.
type Config struct {
	CredentialsPath string
	CredentialsJSON []byte
	Endpoint        string
	HTTPClient      *http.Client
}

func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	var opts []option.ClientOption

	switch {
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	case len(cfg.CredentialsJSON) > 0:
		opts = append(opts, option.WithCredentialsJSON(cfg.CredentialsJSON))
	case cfg.Endpoint != "":
		opts = append(opts, option.WithoutAuthentication())
	default:
		return nil, fmt.Errorf("sheets: credentials path or JSON is required")
	}

	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	service, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: failed to create service: %w", err)
	}

	return &Client{
		service: service,
	}, nil
}

// AppendValues inserts rows after the last table row in rng and returns how many rows were written
func (c *Client) AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error) {
	if c == nil || c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Append(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(inputRaw).
		InsertDataOption(insertRows).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: append %s: %w", rng, err)
	}
	if resp.Updates == nil {
		return 0, nil
	}
	return int(resp.Updates.UpdatedRows), nil
}

// UpdateValues overwrites rows starting at rng and returns how many rows were written
func (c *Client) UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error) {
	if c == nil || c.service == nil {
		return 0, fmt.Errorf("sheets: service is nil")
	}

	resp, err := c.service.Spreadsheets.Values.Update(spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption(inputRaw).
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("sheets: update %s: %w", rng, err)
	}
	return int(resp.UpdatedRows), nil
}

func (c *Client) ClearValues(ctx context.Context, spreadsheetID, rng string) error {
	if c == nil || c.service == nil {
		return fmt.Errorf("sheets: service is nil")
	}

	_, err := c.service.Spreadsheets.Values.Clear(spreadsheetID, rng, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: clear %s: %w", rng, err)
	}
	return nil
}

// TabRange returns the A1 range for the header row of tab, or the first body row when body is set
func TabRange(tab string, body bool) string {
	if body {
		return quoteTab(tab) + "!" + bodyRange
	}
	return quoteTab(tab) + "!" + headerRange
}

// BodyClearRange covers every row below the header of tab
func BodyClearRange(tab string) string {
	return quoteTab(tab) + "!A2:Z"
}

// quoteTab wraps tab names that are not plain identifiers in single quotes, as A1 notation requires.
func quoteTab(tab string) string {
	if tab == "" {
		return defaultTab
	}
	for _, r := range tab {
		if !(r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
		}
	}
	return tab
}
