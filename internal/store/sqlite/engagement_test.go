package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

func TestUpsertEngagement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	seedBook(t, s, "book-1", "Dune", 412)

	now := time.Now()
	rec := &domain.EngagementRecord{
		ID:          "eng-1",
		UserID:      "usr-1",
		BookID:      "book-1",
		Status:      domain.ReadStatusReading,
		PageReading: 42,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.UpsertEngagement(ctx, rec); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := s.GetEngagement(ctx, "usr-1", "book-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "eng-1" || got.PageReading != 42 || got.Status != domain.ReadStatusReading {
		t.Errorf("got %+v", got)
	}

	// Second upsert for the same (user, book) pair updates in place and
	// keeps the original ID and created_at.
	later := now.Add(time.Hour)
	update := &domain.EngagementRecord{
		ID:          "eng-2",
		UserID:      "usr-1",
		BookID:      "book-1",
		Status:      domain.ReadStatusRead,
		PageReading: 300,
		IsFavorite:  true,
		Rating:      5,
		CreatedAt:   later,
		UpdatedAt:   later,
	}
	if err := s.UpsertEngagement(ctx, update); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err = s.GetEngagement(ctx, "usr-1", "book-1")
	if err != nil {
		t.Fatalf("get after upsert: %v", err)
	}
	if got.ID != "eng-1" {
		t.Errorf("expected original ID kept, got %s", got.ID)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Errorf("expected original created_at kept, got %v", got.CreatedAt)
	}
	if got.Status != domain.ReadStatusRead || got.PageReading != 300 || !got.IsFavorite || got.Rating != 5 {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestGetEngagement_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetEngagement(context.Background(), "usr-1", "book-missing")
	if !errors.Is(err, store.ErrEngagementNotFound) {
		t.Errorf("expected ErrEngagementNotFound, got %v", err)
	}
}

func TestListEngagementsByUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	seedUser(t, s, "usr-2", "bob", domain.RoleMember)
	seedBook(t, s, "book-1", "Dune", 412)
	seedBook(t, s, "book-2", "Hyperion", 482)
	seedBook(t, s, "book-3", "Solaris", 204)

	now := time.Now()
	records := []*domain.EngagementRecord{
		{ID: "eng-1", UserID: "usr-1", BookID: "book-1", Status: domain.ReadStatusReading, PageReading: 10},
		{ID: "eng-2", UserID: "usr-1", BookID: "book-2", Status: domain.ReadStatusRead, IsFavorite: true, Rating: 4},
		{ID: "eng-3", UserID: "usr-1", BookID: "book-3", Status: domain.ReadStatusUnread, IsFavorite: true},
		{ID: "eng-4", UserID: "usr-2", BookID: "book-1", Status: domain.ReadStatusRead},
	}
	for _, r := range records {
		r.CreatedAt = now
		r.UpdatedAt = now
		if err := s.UpsertEngagement(ctx, r); err != nil {
			t.Fatalf("upsert %s: %v", r.ID, err)
		}
	}

	all, err := s.ListEngagementsByUser(ctx, "usr-1", EngagementFilter{})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 records for usr-1, got %d", len(all))
	}

	favs, err := s.ListEngagementsByUser(ctx, "usr-1", EngagementFilter{FavoritesOnly: true})
	if err != nil {
		t.Fatalf("list favorites: %v", err)
	}
	if len(favs) != 2 {
		t.Errorf("expected 2 favorites, got %d", len(favs))
	}

	read, err := s.ListEngagementsByUser(ctx, "usr-1", EngagementFilter{
		Statuses: []domain.ReadStatus{domain.ReadStatusRead},
	})
	if err != nil {
		t.Fatalf("list read: %v", err)
	}
	if len(read) != 1 || read[0].BookID != "book-2" {
		t.Errorf("expected book-2 only, got %+v", read)
	}

	inProgress, err := s.ListEngagementsByUser(ctx, "usr-1", EngagementFilter{
		Statuses: []domain.ReadStatus{domain.ReadStatusReading, domain.ReadStatusRead},
	})
	if err != nil {
		t.Fatalf("list reading+read: %v", err)
	}
	if len(inProgress) != 2 {
		t.Errorf("expected 2 records, got %d", len(inProgress))
	}
}
