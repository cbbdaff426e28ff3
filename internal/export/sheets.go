package export

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/domain/opportunity"
	sheetsclient "github.com/mbernardes19/torre-matheus/pkg/sheets"
)

// ErrNotConfigured is returned when no spreadsheet client was set up
var ErrNotConfigured = errors.New("sheets export not configured (GOOGLE_SHEETS_CREDENTIALS_PATH not set)")

// Header is the first row written when a tab is cleared or appended to from the top
var Header = []any{"ID", "Title", "Company", "Location", "Remote", "Compensation", "Commitment", "Skills", "Status", "Deadline", "URL", "Exported At"}

const opportunityURL = "https://torre.ai/post/"

// ValuesWriter is the subset of the Sheets client used for export
type ValuesWriter interface {
	AppendValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error)
	UpdateValues(ctx context.Context, spreadsheetID, rng string, values [][]any) (int, error)
	ClearValues(ctx context.Context, spreadsheetID, rng string) error
}

var _ ValuesWriter = (*sheetsclient.Client)(nil)

// Target is the destination sheet
type Target struct {
	SpreadsheetID string
	Tab           string
	// Range overrides the computed A1 range
	Range string
}

// Request exports the current page of one search session
type Request struct {
	Session  domain.Session
	Target   Target
	ClearTab bool
	// Upsert overwrites the body rows instead of appending below existing data
	Upsert bool
}

// Result describes the summary returned after export
type Result struct {
	SpreadsheetID string    `json:"spreadsheet_id"`
	Tab           string    `json:"tab,omitempty"`
	WrittenRows   int       `json:"written_rows"`
	Mode          string    `json:"mode"`
	CompletedAt   time.Time `json:"completed_at"`
	Message       string    `json:"message,omitempty"`
}

// Exporter writes opportunity rows to Google Sheets
type Exporter struct {
	writer ValuesWriter
	clock  func() time.Time
}

// NewExporter builds an Exporter; a nil writer yields ErrNotConfigured on every export
func NewExporter(writer ValuesWriter) *Exporter {
	return &Exporter{
		writer: writer,
		clock:  time.Now,
	}
}

// Configured reports whether exports can reach a spreadsheet
func (e *Exporter) Configured() bool {
	return e != nil && e.writer != nil
}

func (e *Exporter) Export(ctx context.Context, req Request) (Result, error) {
	now := e.clock().UTC()
	result := Result{
		SpreadsheetID: req.Target.SpreadsheetID,
		Tab:           req.Target.Tab,
		Mode:          mode(req),
		CompletedAt:   now,
	}

	if !e.Configured() {
		result.Message = ErrNotConfigured.Error()
		return result, ErrNotConfigured
	}
	if strings.TrimSpace(req.Target.SpreadsheetID) == "" {
		return result, fmt.Errorf("export: spreadsheet id is required")
	}

	summaries := opportunity.Summarize(req.Session.Page)
	if len(summaries) == 0 {
		result.Message = "no rows to export"
		return result, nil
	}

	if req.ClearTab {
		if err := e.writer.ClearValues(ctx, req.Target.SpreadsheetID, sheetsclient.BodyClearRange(req.Target.Tab)); err != nil {
			return result, fmt.Errorf("export: failed to clear sheet: %w", err)
		}
	}

	values := Rows(summaries, now)
	rng := buildRange(req)

	var (
		written int
		err     error
	)
	if req.Upsert {
		written, err = e.writer.UpdateValues(ctx, req.Target.SpreadsheetID, rng, values)
		if err != nil {
			return result, fmt.Errorf("export: failed to upsert rows: %w", err)
		}
	} else {
		values = append([][]any{Header}, values...)
		written, err = e.writer.AppendValues(ctx, req.Target.SpreadsheetID, rng, values)
		if err != nil {
			return result, fmt.Errorf("export: failed to append rows: %w", err)
		}
	}

	result.WrittenRows = written
	result.Message = fmt.Sprintf("successfully exported %d row(s)", written)
	return result, nil
}

// Rows converts summaries to sheet values in Header column order
func Rows(summaries []domain.OpportunitySummary, exportedAt time.Time) [][]any {
	values := make([][]any, len(summaries))
	for i, s := range summaries {
		values[i] = []any{
			s.ID,
			s.Title,
			s.Company,
			s.Location,
			s.Remote,
			s.Compensation,
			s.Commitment,
			strings.Join(s.Skills, ", "),
			s.Status,
			s.Deadline,
			opportunityURL + s.ID,
			exportedAt.Format(time.RFC3339),
		}
	}
	return values
}

func buildRange(req Request) string {
	if req.Target.Range != "" {
		return req.Target.Range
	}
	return sheetsclient.TabRange(req.Target.Tab, req.Upsert)
}

func mode(req Request) string {
	if req.Upsert {
		return "upsert"
	}
	return "append"
}
