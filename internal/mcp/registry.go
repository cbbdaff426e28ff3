package mcp

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/export"
	"github.com/mbernardes19/torre-matheus/internal/mcp/tools"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

type ToolRegistry struct {
	logger *logging.Logger
}

// Resources are the services shared by the MCP tools and the REST API
type Resources struct {
	Opportunities opportunity.Service
	Exporter      *export.Exporter
}

func NewToolRegistry(logger *logging.Logger) *ToolRegistry {
	return &ToolRegistry{logger: logger}
}

func (r *ToolRegistry) RegisterAll(server *sdkmcp.Server, res *Resources) {
	tools.Register(server, r.logger,
		tools.WithOpportunitySearch(res.Opportunities),
		tools.WithSheetsExport(res.Opportunities, res.Exporter),
	)
}
