package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/output"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/pagination"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
	"github.com/mbernardes19/torre-matheus/pkg/validate"
)

// OpportunitySearchParams defines the arguments for the opportunity_search tool
type OpportunitySearchParams struct {
	Term       string         `json:"term,omitempty" jsonschema:"Free-text term; matches open opportunities by keyword"`
	Expression map[string]any `json:"expression,omitempty" jsonschema:"Search expression with and/or/not groups of keywords, language, skill/role and status filters; wins over term"`
	Params     *torre.Params  `json:"params,omitempty" jsonschema:"Query options: currency, periodicity, lang, size, contextFeature, offset, aggregate"`
	SessionID  string         `json:"session_id,omitempty" jsonschema:"Existing session to replace; a new one is created when empty"`
}

// OpportunityPageParams defines the arguments for the opportunity_page tool
type OpportunityPageParams struct {
	SessionID string `json:"session_id" jsonschema:"Session returned by opportunity_search"`
	Direction string `json:"direction" jsonschema:"next or previous"`
}

type searchTool struct {
	service opportunity.Service
	logger  *logging.Logger
}

// WithOpportunitySearch registers the opportunity_search and opportunity_page tools
func WithOpportunitySearch(service opportunity.Service) Option {
	return func(reg *registry) {
		handler := searchTool{service: service, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "opportunity_search",
			Description: "Search Torre job opportunities by term or filter expression and return one page of results",
		}, handler.search)
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "opportunity_page",
			Description: "Fetch the next or previous page of an earlier opportunity_search session",
		}, handler.page)
	}
}

func (t searchTool) search(ctx context.Context, _ *sdkmcp.CallToolRequest, params OpportunitySearchParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("opportunity service not configured")
	}

	req := opportunity.SearchRequest{
		Term:   params.Term,
		Params: params.Params,
	}

	if len(params.Expression) > 0 {
		expr, err := decodeExpression(params.Expression)
		if err != nil {
			return nil, nil, err
		}
		req.Expression = &expr
	}
	if params.Params != nil {
		if err := validate.Struct(params.Params); err != nil {
			return nil, nil, fmt.Errorf("invalid params: %w", err)
		}
	}
	if params.SessionID != "" {
		id, err := parseSessionID(params.SessionID)
		if err != nil {
			return nil, nil, err
		}
		req.SessionID = id
	}

	t.logger.Info("opportunity_search request",
		"term", params.Term,
		"expression", req.Expression != nil,
		"session", params.SessionID,
	)

	result, err := t.service.Search(ctx, req)
	if err != nil {
		t.logger.Error("opportunity_search failed", "err", err)
		return nil, nil, err
	}

	return textResult(output.String(result)), result, nil
}

func (t searchTool) page(ctx context.Context, _ *sdkmcp.CallToolRequest, params OpportunityPageParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("opportunity service not configured")
	}

	id, err := parseSessionID(params.SessionID)
	if err != nil {
		return nil, nil, err
	}
	if id == uuid.Nil {
		return nil, nil, fmt.Errorf("session_id is required")
	}

	dir := pagination.Direction(params.Direction)
	result, err := t.service.Page(ctx, id, dir)
	if err != nil {
		t.logger.Warn("opportunity_page failed", "session", id.String(), "direction", params.Direction, "err", err)
		return nil, nil, err
	}

	return textResult(output.String(result)), result, nil
}

// decodeExpression round-trips the loosely typed tool argument through the expression decoder
func decodeExpression(raw map[string]any) (torre.Expression, error) {
	var expr torre.Expression
	data, err := json.Marshal(raw)
	if err != nil {
		return expr, fmt.Errorf("invalid expression: %w", err)
	}
	if err := json.Unmarshal(data, &expr); err != nil {
		return expr, fmt.Errorf("invalid expression: %w", err)
	}
	return expr, nil
}
