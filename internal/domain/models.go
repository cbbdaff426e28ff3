package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mbernardes19/torre-matheus/pkg/pagination"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

var (
	// ErrSessionNotFound is returned for unknown or expired search sessions
	ErrSessionNotFound = errors.New("search session not found")
	// ErrStaleResult is returned when a newer request on the same session was issued first
	ErrStaleResult = errors.New("search result superseded by a newer request")
)

// SessionID uniquely identifies a search session
type SessionID = uuid.UUID

// Query is the expression and parameters that produced a page.
// Cursors of that page are only valid together with this query.
type Query struct {
	Expression torre.Expression `json:"expression"`
	Params     *torre.Params    `json:"params,omitempty"`
}

// Session binds the latest page of a search to the query that produced it
type Session struct {
	ID        SessionID
	Seq       uint64
	Query     Query
	Page      *torre.ResultPage
	UpdatedAt time.Time
}

// OpportunitySummary is the display-friendly opportunity view
type OpportunitySummary struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Type         string   `json:"type,omitempty"`
	Company      string   `json:"company"`
	Logo         string   `json:"logo,omitempty"`
	Location     string   `json:"location,omitempty"`
	Remote       bool     `json:"remote"`
	Compensation string   `json:"compensation,omitempty"`
	Commitment   string   `json:"commitment,omitempty"`
	Skills       []string `json:"skills,omitempty"`
	MoreSkills   int      `json:"moreSkills,omitempty"`
	Status       string   `json:"status,omitempty"`
	Deadline     string   `json:"deadline,omitempty"`
}

// SearchResult wraps one page of search output
type SearchResult struct {
	SessionID  SessionID            `json:"sessionId"`
	Total      int                  `json:"total"`
	Offset     int                  `json:"offset"`
	Pagination pagination.State     `json:"pagination"`
	Summaries  []OpportunitySummary `json:"summaries"`
	Page       *torre.ResultPage    `json:"page,omitempty"`
	FetchedAt  time.Time            `json:"fetchedAt"`
}

// Empty reports whether the result carries no page, as for a blank search.
func (r SearchResult) Empty() bool {
	return r.Page == nil
}
