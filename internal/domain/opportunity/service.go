package opportunity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/repository"
	"github.com/mbernardes19/torre-matheus/pkg/logging"
	"github.com/mbernardes19/torre-matheus/pkg/pagination"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

const defaultLocale = "en"

var (
	ErrSessionNotFound  = domain.ErrSessionNotFound
	ErrStaleResult      = domain.ErrStaleResult
	ErrNoSuchPage       = errors.New("no page in that direction")
	ErrInvalidDirection = errors.New("direction must be next or previous")
)

// SearchRequest starts or replaces a search.
// Expression wins over Term; a blank Term with no Expression clears the search.
type SearchRequest struct {
	Term       string
	Expression *torre.Expression
	Params     *torre.Params
	// SessionID reuses an existing session so earlier in-flight searches on it become stale
	SessionID domain.SessionID
}

type Service interface {
	Search(ctx context.Context, req SearchRequest) (domain.SearchResult, error)
	Page(ctx context.Context, id domain.SessionID, dir pagination.Direction) (domain.SearchResult, error)
	Session(ctx context.Context, id domain.SessionID) (domain.Session, error)
}

// Option configures Service
type Option func(*config)

type config struct {
	searcher Searcher
	repo     repository.SessionRepository
	locale   string
	clock    func() time.Time
	logger   *logging.Logger
}

// WithSearcher sets the upstream search backend
func WithSearcher(s Searcher) Option {
	return func(c *config) {
		c.searcher = s
	}
}

// WithRepository sets the session repository
func WithRepository(repo repository.SessionRepository) Option {
	return func(c *config) {
		c.repo = repo
	}
}

// WithLocale sets the keyword locale used for term searches
func WithLocale(locale string) Option {
	return func(c *config) {
		c.locale = locale
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		c.clock = clock
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// NewService builds Service from options
func NewService(opts ...Option) (Service, error) {
	cfg := &config{
		locale: defaultLocale,
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.searcher == nil {
		return nil, fmt.Errorf("opportunity.Service: searcher is required")
	}
	if cfg.repo == nil {
		return nil, fmt.Errorf("opportunity.Service: repository is required")
	}
	if cfg.logger == nil {
		cfg.logger = logging.NewNop()
	}

	return &service{
		searcher: cfg.searcher,
		repo:     cfg.repo,
		locale:   cfg.locale,
		clock:    cfg.clock,
		logger:   cfg.logger.Named("opportunity"),
	}, nil
}

type service struct {
	searcher Searcher
	repo     repository.SessionRepository
	locale   string
	clock    func() time.Time
	logger   *logging.Logger
}

// TermExpression is the default search for a free-text term: open opportunities matching the keywords.
func TermExpression(term, locale string) torre.Expression {
	return torre.Expression{
		And: []torre.Filter{
			torre.Keywords{Term: term, Locale: locale},
			torre.Status{Code: torre.StatusOpen},
		},
	}
}

// Search runs a fresh query. A blank term makes no upstream call and returns an empty result.
func (s *service) Search(ctx context.Context, req SearchRequest) (domain.SearchResult, error) {
	var expr torre.Expression
	switch {
	case req.Expression != nil:
		expr = *req.Expression
	case strings.TrimSpace(req.Term) != "":
		expr = TermExpression(strings.TrimSpace(req.Term), s.locale)
	default:
		return s.clear(ctx, req.SessionID)
	}

	id := req.SessionID
	if id == uuid.Nil {
		id = uuid.New()
	}

	query := domain.Query{Expression: expr, Params: req.Params}
	return s.run(ctx, id, query)
}

// Page moves a session one step using the cursor of its current page.
// The session's expression and parameters are reused unchanged except for the cursor.
func (s *service) Page(ctx context.Context, id domain.SessionID, dir pagination.Direction) (domain.SearchResult, error) {
	if !dir.Valid() {
		return domain.SearchResult{}, ErrInvalidDirection
	}

	sess, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.SearchResult{}, err
	}

	cursor, ok := pagination.Derive(sess.Page, nil).Cursor(dir)
	if !ok {
		return domain.SearchResult{}, ErrNoSuchPage
	}

	params := sess.Query.Params.Clone()
	params.Offset = nil
	params.Before, params.After = "", ""
	if dir == pagination.Next {
		params.After = cursor
	} else {
		params.Before = cursor
	}

	return s.run(ctx, id, domain.Query{Expression: sess.Query.Expression, Params: params})
}

func (s *service) Session(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	return s.repo.Get(ctx, id)
}

func (s *service) run(ctx context.Context, id domain.SessionID, query domain.Query) (domain.SearchResult, error) {
	seq, err := s.repo.Issue(ctx, id)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("opportunity: issue request: %w", err)
	}

	page, err := s.searcher.SearchOpportunities(ctx, query.Expression, query.Params)
	if err != nil {
		s.logger.Warn("search failed", "session", id.String(), "error", err)
		if rerr := s.repo.Reset(ctx, id, seq); rerr != nil && !errors.Is(rerr, ErrStaleResult) {
			s.logger.Warn("failed to reset session", "session", id.String(), "error", rerr)
		}
		return domain.SearchResult{}, err
	}

	sess, err := s.repo.Commit(ctx, id, seq, query, page)
	if err != nil {
		if errors.Is(err, ErrStaleResult) {
			s.logger.Debug("discarding stale result", "session", id.String(), "seq", seq)
			return domain.SearchResult{}, err
		}
		return domain.SearchResult{}, fmt.Errorf("opportunity: store page: %w", err)
	}

	s.logger.Info("search completed",
		"session", id.String(),
		"total", page.Total,
		"results", len(page.Results),
	)

	return ResultFor(sess, s.clock()), nil
}

// clear bumps the session sequence, if any, so in-flight searches are discarded,
// and drops its page so navigation has nothing to follow.
func (s *service) clear(ctx context.Context, id domain.SessionID) (domain.SearchResult, error) {
	if id != uuid.Nil {
		seq, err := s.repo.Issue(ctx, id)
		if err != nil {
			return domain.SearchResult{}, fmt.Errorf("opportunity: issue request: %w", err)
		}
		if err := s.repo.Reset(ctx, id, seq); err != nil && !errors.Is(err, ErrStaleResult) {
			return domain.SearchResult{}, fmt.Errorf("opportunity: reset session: %w", err)
		}
	}

	return domain.SearchResult{
		SessionID:  id,
		Pagination: pagination.Derive(nil, nil),
		Summaries:  []domain.OpportunitySummary{},
		FetchedAt:  s.clock(),
	}, nil
}

// ResultFor builds the result view of a session's current page
func ResultFor(sess domain.Session, now time.Time) domain.SearchResult {
	res := domain.SearchResult{
		SessionID:  sess.ID,
		Pagination: pagination.Derive(sess.Page, nil),
		Summaries:  Summarize(sess.Page),
		Page:       sess.Page,
		FetchedAt:  now,
	}
	if sess.Page != nil {
		res.Total = sess.Page.Total
		res.Offset = sess.Page.Offset
	}
	return res
}
