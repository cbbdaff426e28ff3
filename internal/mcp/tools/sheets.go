package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	"github.com/mbernardes19/torre-matheus/internal/export"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
)

// SheetsExportParams defines the arguments for the sheets_export tool
type SheetsExportParams struct {
	SessionID string `json:"session_id" jsonschema:"Session whose current page is exported"`
	Upsert    bool   `json:"upsert,omitempty" jsonschema:"Overwrite rows from A2 (true) or append below existing data (false)"`
	ClearTab  bool   `json:"clear_tab,omitempty" jsonschema:"If true, clears the rows below the header before writing"`
	Sheet     struct {
		SpreadsheetID string `json:"spreadsheet_id" jsonschema:"Google Sheets document ID"`
		Tab           string `json:"tab,omitempty" jsonschema:"Tab name to write to"`
		Range         string `json:"range,omitempty" jsonschema:"Optional A1 range override"`
	} `json:"sheet" jsonschema:"Destination sheet information"`
}

type sheetsTool struct {
	service  opportunity.Service
	exporter *export.Exporter
	logger   *logging.Logger
}

// WithSheetsExport registers the sheets_export tool
func WithSheetsExport(service opportunity.Service, exporter *export.Exporter) Option {
	if exporter == nil {
		exporter = export.NewExporter(nil)
	}
	return func(reg *registry) {
		handler := sheetsTool{service: service, exporter: exporter, logger: reg.logger}
		sdkmcp.AddTool(reg.server, &sdkmcp.Tool{
			Name:        "sheets_export",
			Description: "Export the current result page of a search session to Google Sheets",
		}, handler.handle)
	}
}

func (t sheetsTool) handle(ctx context.Context, _ *sdkmcp.CallToolRequest, params SheetsExportParams) (*sdkmcp.CallToolResult, any, error) {
	if t.service == nil {
		return nil, nil, fmt.Errorf("opportunity service not configured")
	}

	id, err := parseSessionID(params.SessionID)
	if err != nil {
		return nil, nil, err
	}

	sess, err := t.service.Session(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	t.logger.Info("sheets_export request",
		"session", id.String(),
		"spreadsheet_id", params.Sheet.SpreadsheetID,
		"tab", params.Sheet.Tab,
		"upsert", params.Upsert,
	)

	result, err := t.exporter.Export(ctx, export.Request{
		Session: sess,
		Target: export.Target{
			SpreadsheetID: params.Sheet.SpreadsheetID,
			Tab:           params.Sheet.Tab,
			Range:         params.Sheet.Range,
		},
		ClearTab: params.ClearTab,
		Upsert:   params.Upsert,
	})
	if err != nil {
		t.logger.Error("sheets_export failed", "session", id.String(), "err", err)
		return nil, nil, err
	}

	msg := fmt.Sprintf("[sheets_export] %s (mode=%s spreadsheet_id=%q tab=%q)", result.Message, result.Mode, result.SpreadsheetID, result.Tab)
	return textResult(msg), result, nil
}
