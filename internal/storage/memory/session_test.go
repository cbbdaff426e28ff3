package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mbernardes19/torre-matheus/internal/domain"
	"github.com/mbernardes19/torre-matheus/pkg/torre"
)

func TestIssueCommitGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	id := uuid.New()

	seq, err := repo.Issue(ctx, id)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if seq != 1 {
		t.Errorf("first seq: got %d", seq)
	}

	query := domain.Query{Expression: torre.Expression{And: []torre.Filter{torre.Keywords{Term: "go"}}}}
	page := &torre.ResultPage{Total: 3}
	if _, err := repo.Commit(ctx, id, seq, query, page); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	sess, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Page != page || sess.Seq != 1 || len(sess.Query.Expression.And) != 1 {
		t.Errorf("unexpected session: %+v", sess)
	}
}

func TestCommitDiscardsStaleSequence(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	id := uuid.New()

	first, _ := repo.Issue(ctx, id)
	second, _ := repo.Issue(ctx, id)

	if _, err := repo.Commit(ctx, id, second, domain.Query{}, &torre.ResultPage{Total: 2}); err != nil {
		t.Fatalf("Commit latest: %v", err)
	}
	_, err := repo.Commit(ctx, id, first, domain.Query{}, &torre.ResultPage{Total: 1})
	if !errors.Is(err, domain.ErrStaleResult) {
		t.Fatalf("expected ErrStaleResult, got %v", err)
	}

	sess, _ := repo.Get(ctx, id)
	if sess.Page.Total != 2 {
		t.Errorf("stale page overwrote latest: total %d", sess.Page.Total)
	}
}

func TestSessionsExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewSessionRepository(time.Minute).WithClock(func() time.Time { return now })
	id := uuid.New()

	seq, _ := repo.Issue(ctx, id)
	now = now.Add(2 * time.Minute)

	if _, err := repo.Commit(ctx, id, seq, domain.Query{}, &torre.ResultPage{}); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Commit after expiry: got %v", err)
	}
	if _, err := repo.Get(ctx, id); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Get after expiry: got %v", err)
	}
	if repo.Len() != 0 {
		t.Errorf("expired session not evicted")
	}
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewSessionRepository(0)
	if _, err := repo.Get(context.Background(), uuid.New()); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("got %v", err)
	}
}

func TestResetClearsCurrentSession(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	id := uuid.New()

	seq, _ := repo.Issue(ctx, id)
	query := domain.Query{Params: &torre.Params{Size: torre.Int(10)}}
	if _, err := repo.Commit(ctx, id, seq, query, &torre.ResultPage{Total: 3}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := repo.Reset(ctx, id, seq); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	sess, err := repo.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if sess.Page != nil || sess.Query.Params != nil || sess.Seq != seq {
		t.Errorf("unexpected session after reset: %+v", sess)
	}
}

func TestResetStaleSequenceKeepsPage(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(time.Minute)
	id := uuid.New()

	first, _ := repo.Issue(ctx, id)
	second, _ := repo.Issue(ctx, id)
	if _, err := repo.Commit(ctx, id, second, domain.Query{}, &torre.ResultPage{Total: 2}); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if err := repo.Reset(ctx, id, first); !errors.Is(err, domain.ErrStaleResult) {
		t.Fatalf("expected ErrStaleResult, got %v", err)
	}
	if sess, _ := repo.Get(ctx, id); sess.Page == nil || sess.Page.Total != 2 {
		t.Errorf("stale reset dropped the latest page")
	}
	if err := repo.Reset(ctx, uuid.New(), 1); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("Reset unknown: got %v", err)
	}
}
