package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/internal/repository"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

// Ensure SessionRepository implements repository.SessionRepository
var _ repository.SessionRepository = (*SessionRepository)(nil)

const (
	defaultTTL = 30 * time.Minute
	keyPrefix  = "torre:session:"
)

// NewClient parses redisURL and verifies connectivity.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// SessionRepository stores search sessions in Redis.
// Each session uses a counter key for request sequencing and a JSON key for the current page.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a Redis-backed repository; a non-positive ttl uses 30 minutes
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SessionRepository{
		client: client,
		ttl:    ttl,
	}
}

type record struct {
	Query     domain.Query    `json:"query"`
	Page      json.RawMessage `json:"page,omitempty"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

func seqKey(id domain.SessionID) string  { return keyPrefix + id.String() + ":seq" }
func dataKey(id domain.SessionID) string { return keyPrefix + id.String() }

func (r *SessionRepository) Issue(ctx context.Context, id domain.SessionID) (uint64, error) {
	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, seqKey(id))
		p.Expire(ctx, seqKey(id), r.ttl)
		p.Expire(ctx, dataKey(id), r.ttl)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("redis: issue %s: %w", id, err)
	}
	return uint64(incr.Val()), nil
}

func (r *SessionRepository) Commit(
	ctx context.Context,
	id domain.SessionID,
	seq uint64,
	query domain.Query,
	page *torre.ResultPage,
) (domain.Session, error) {
	raw, err := encodePage(page)
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: encode page: %w", err)
	}
	now := time.Now().UTC()
	payload, err := json.Marshal(record{Query: query, Page: raw, UpdatedAt: now})
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: encode session: %w", err)
	}

	err = r.ifCurrent(ctx, id, seq, func(p redis.Pipeliner) {
		p.Set(ctx, dataKey(id), payload, r.ttl)
	})
	if err != nil {
		return domain.Session{}, r.wrap("commit", id, err)
	}

	return domain.Session{
		ID:        id,
		Seq:       seq,
		Query:     query,
		Page:      page,
		UpdatedAt: now,
	}, nil
}

func (r *SessionRepository) Reset(ctx context.Context, id domain.SessionID, seq uint64) error {
	err := r.ifCurrent(ctx, id, seq, func(p redis.Pipeliner) {
		p.Del(ctx, dataKey(id))
	})
	if err != nil {
		return r.wrap("reset", id, err)
	}
	return nil
}

// ifCurrent runs write in a transaction that only commits while seq is the latest issued
func (r *SessionRepository) ifCurrent(ctx context.Context, id domain.SessionID, seq uint64, write func(redis.Pipeliner)) error {
	return r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, seqKey(id)).Uint64()
		if errors.Is(err, redis.Nil) {
			return domain.ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		if current != seq {
			return domain.ErrStaleResult
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			write(p)
			p.Expire(ctx, seqKey(id), r.ttl)
			return nil
		})
		return err
	}, seqKey(id))
}

func (r *SessionRepository) wrap(op string, id domain.SessionID, err error) error {
	switch {
	case errors.Is(err, redis.TxFailedErr):
		// the counter moved between read and write: a newer request was issued
		return domain.ErrStaleResult
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrStaleResult):
		return err
	default:
		return fmt.Errorf("redis: %s %s: %w", op, id, err)
	}
}

func (r *SessionRepository) Get(ctx context.Context, id domain.SessionID) (domain.Session, error) {
	var seqCmd, dataCmd *redis.StringCmd
	_, err := r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		seqCmd = p.Get(ctx, seqKey(id))
		dataCmd = p.Get(ctx, dataKey(id))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return domain.Session{}, fmt.Errorf("redis: get %s: %w", id, err)
	}

	seq, err := seqCmd.Uint64()
	if errors.Is(err, redis.Nil) {
		return domain.Session{}, domain.ErrSessionNotFound
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: read seq %s: %w", id, err)
	}

	sess := domain.Session{ID: id, Seq: seq}

	data, err := dataCmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return sess, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("redis: read session %s: %w", id, err)
	}

	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Session{}, fmt.Errorf("redis: decode session %s: %w", id, err)
	}
	sess.Query = rec.Query
	sess.UpdatedAt = rec.UpdatedAt

	if len(rec.Page) > 0 {
		page, err := decodePage(rec.Page)
		if err != nil {
			return domain.Session{}, fmt.Errorf("redis: decode page %s: %w", id, err)
		}
		sess.Page = page
	}

	return sess, nil
}

// encodePage keeps the upstream body when there is one so Raw survives a round trip.
func encodePage(page *torre.ResultPage) (json.RawMessage, error) {
	if page == nil {
		return nil, nil
	}
	if len(page.Raw) > 0 {
		return page.Raw, nil
	}
	return json.Marshal(page)
}

func decodePage(raw json.RawMessage) (*torre.ResultPage, error) {
	page := &torre.ResultPage{}
	if err := json.Unmarshal(raw, page); err != nil {
		return nil, err
	}
	page.Raw = raw
	return page, nil
}
