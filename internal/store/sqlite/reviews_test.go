package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

func seedReviewLog(t *testing.T, s *Store, id, bookID string) *domain.ReviewLog {
	t.Helper()
	now := time.Now()
	log := &domain.ReviewLog{
		ID:        id,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateReviewLog(context.Background(), log); err != nil {
		t.Fatalf("create review log: %v", err)
	}
	return log
}

func TestAppendReview(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBook(t, s, "book-1", "Dune", 412)
	seedReviewLog(t, s, "rev-1", "book-1")

	for i := 1; i <= 3; i++ {
		entry := domain.ReviewEntry{
			Author:    "alice",
			Message:   fmt.Sprintf("review %d", i),
			CreatedAt: time.Now(),
		}
		log, err := s.AppendReview(ctx, "book-1", entry)
		if err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
		if len(log.Entries) != i {
			t.Fatalf("expected %d entries, got %d", i, len(log.Entries))
		}
	}

	// Entries come back in append order.
	log, err := s.GetReviewLog(ctx, "book-1")
	if err != nil {
		t.Fatalf("get review log: %v", err)
	}
	for i, entry := range log.Entries {
		want := fmt.Sprintf("review %d", i+1)
		if entry.Message != want {
			t.Errorf("entry %d: got %q, want %q", i, entry.Message, want)
		}
	}
}

func TestAppendReview_NoLog(t *testing.T) {
	s := newTestStore(t)

	entry := domain.ReviewEntry{Author: "alice", Message: "hi", CreatedAt: time.Now()}
	_, err := s.AppendReview(context.Background(), "book-missing", entry)
	if !errors.Is(err, store.ErrReviewLogNotFound) {
		t.Errorf("expected ErrReviewLogNotFound, got %v", err)
	}
}

func TestGetReviewLog_Empty(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBook(t, s, "book-1", "Dune", 412)
	seedReviewLog(t, s, "rev-1", "book-1")

	log, err := s.GetReviewLog(ctx, "book-1")
	if err != nil {
		t.Fatalf("get review log: %v", err)
	}
	if len(log.Entries) != 0 {
		t.Errorf("expected empty entries, got %d", len(log.Entries))
	}

	if _, err := s.GetReviewLog(ctx, "book-missing"); !errors.Is(err, store.ErrReviewLogNotFound) {
		t.Errorf("expected ErrReviewLogNotFound, got %v", err)
	}
}
