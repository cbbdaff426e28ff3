package memory

import (
	"context"
	"sync"
	"time"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/repository"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// Ensure SessionRepository implements repository.SessionRepository
var _ repository.SessionRepository = (*SessionRepository)(nil)

// DefaultTTL is how long an idle session is kept
const DefaultTTL = 30 * time.Minute

type entry struct {
	session   domain.Session
	expiresAt time.Time
}

// SessionRepository keeps search sessions in process memory
type SessionRepository struct {
	mu       sync.Mutex
	sessions map[domain.SessionID]*entry
	ttl      time.Duration
	clock    func() time.Time
}

// NewSessionRepository creates an in-memory repository; a non-positive ttl uses DefaultTTL
func NewSessionRepository(ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionRepository{
		sessions: make(map[domain.SessionID]*entry),
		ttl:      ttl,
		clock:    time.Now,
	}
}

// WithClock replaces the clock used for expiry
func (r *SessionRepository) WithClock(clock func() time.Time) *SessionRepository {
	r.clock = clock
	return r
}

func (r *SessionRepository) Issue(_ context.Context, id domain.SessionID) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	r.evictLocked(now)

	e, ok := r.sessions[id]
	if !ok {
		e = &entry{session: domain.Session{ID: id}}
		r.sessions[id] = e
	}
	e.session.Seq++
	e.session.UpdatedAt = now
	e.expiresAt = now.Add(r.ttl)

	return e.session.Seq, nil
}

func (r *SessionRepository) Commit(
	_ context.Context,
	id domain.SessionID,
	seq uint64,
	query domain.Query,
	page *torre.ResultPage,
) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	e, ok := r.sessions[id]
	if !ok || now.After(e.expiresAt) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if e.session.Seq != seq {
		return domain.Session{}, domain.ErrStaleResult
	}

	e.session.Query = query
	e.session.Page = page
	e.session.UpdatedAt = now
	e.expiresAt = now.Add(r.ttl)

	return e.session, nil
}

func (r *SessionRepository) Reset(_ context.Context, id domain.SessionID, seq uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	e, ok := r.sessions[id]
	if !ok || now.After(e.expiresAt) {
		return domain.ErrSessionNotFound
	}
	if e.session.Seq != seq {
		return domain.ErrStaleResult
	}

	e.session.Query = domain.Query{}
	e.session.Page = nil
	e.session.UpdatedAt = now
	e.expiresAt = now.Add(r.ttl)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, id domain.SessionID) (domain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || r.clock().After(e.expiresAt) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	return e.session, nil
}

// Len reports the number of live sessions
func (r *SessionRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.evictLocked(r.clock())
	return len(r.sessions)
}

func (r *SessionRepository) evictLocked(now time.Time) {
	for id, e := range r.sessions {
		if now.After(e.expiresAt) {
			delete(r.sessions, id)
		}
	}
}
