package repository

import (
	"context"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// SessionRepository defines the interface for search session storage operations
type SessionRepository interface {
	// Issue reserves the next request sequence number for a session, creating it if needed
	Issue(ctx context.Context, id domain.SessionID) (uint64, error)

	// Commit stores page as the session's current page when seq is still the latest issued.
	// It returns domain.ErrStaleResult otherwise.
	Commit(ctx context.Context, id domain.SessionID, seq uint64, query domain.Query, page *torre.ResultPage) (domain.Session, error)

	// Reset drops the session's query and page when seq is still the latest issued,
	// leaving the sequence untouched. It returns domain.ErrStaleResult otherwise.
	Reset(ctx context.Context, id domain.SessionID, seq uint64) error

	// Get loads a session, or domain.ErrSessionNotFound
	Get(ctx context.Context, id domain.SessionID) (domain.Session, error)
}
