// Package output renders search results for terminals and MCP text content.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mbernardes19/torre-matheus/internal/domain"
)

// Format is the rendering of a search result
type Format string

const (
	// Text is human-readable text (default).
	Text Format = "text"
	// JSON is the indented result view.
	JSON Format = "json"
	// Raw is the upstream response body exactly as received.
	Raw Format = "raw"
)

// WriteResult writes res to w in the given format.
func WriteResult(w io.Writer, res domain.SearchResult, format Format) error {
	switch format {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case Raw:
		if res.Page == nil || len(res.Page.Raw) == 0 {
			_, err := io.WriteString(w, "null\n")
			return err
		}
		_, err := fmt.Fprintf(w, "%s\n", res.Page.Raw)
		return err
	default:
		writeText(w, res)
		return nil
	}
}

// String renders res as text.
func String(res domain.SearchResult) string {
	var b strings.Builder
	writeText(&b, res)
	return b.String()
}

func writeText(w io.Writer, res domain.SearchResult) {
	if res.Empty() {
		fmt.Fprintln(w, "No search term. Results cleared.")
		return
	}
	if res.Total == 0 || len(res.Summaries) == 0 {
		fmt.Fprintln(w, "No opportunities found.")
		return
	}

	p := res.Pagination
	fmt.Fprintf(w, "Found %d opportunities (page %d of %d)\n", res.Total, p.CurrentPage, p.TotalPages)
	fmt.Fprintf(w, "Session: %s\n\n", res.SessionID)

	for i, s := range res.Summaries {
		writeSummary(w, res.Offset+i+1, s)
	}

	var nav []string
	if p.CanGoPrevious {
		nav = append(nav, "previous")
	}
	if p.CanGoNext {
		nav = append(nav, "next")
	}
	if len(nav) > 0 {
		fmt.Fprintf(w, "More pages: %s\n", strings.Join(nav, ", "))
	}
}

func writeSummary(w io.Writer, n int, s domain.OpportunitySummary) {
	fmt.Fprintf(w, "%d. %s\n", n, s.Title)
	fmt.Fprintf(w, "   %s", s.Company)
	if s.Location != "" {
		fmt.Fprintf(w, " | %s", s.Location)
	}
	if s.Commitment != "" {
		fmt.Fprintf(w, " | %s", s.Commitment)
	}
	fmt.Fprintln(w)
	if s.Compensation != "" {
		fmt.Fprintf(w, "   %s\n", s.Compensation)
	}
	if len(s.Skills) > 0 {
		skills := strings.Join(s.Skills, ", ")
		if s.MoreSkills > 0 {
			skills += fmt.Sprintf(" +%d more", s.MoreSkills)
		}
		fmt.Fprintf(w, "   Skills: %s\n", skills)
	}
	fmt.Fprintf(w, "   ID: %s\n\n", s.ID)
}
