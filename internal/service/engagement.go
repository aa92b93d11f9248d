package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// EngagementService tracks per-user reading state: page progress, favorites
// and ratings.
type EngagementService struct {
	catalog  *sqlite.Store
	recorder ActivityRecorder
	logger   *slog.Logger
}

// NewEngagementService creates a new engagement service.
func NewEngagementService(catalog *sqlite.Store, recorder ActivityRecorder, logger *slog.Logger) *EngagementService {
	return &EngagementService{
		catalog:  catalog,
		recorder: recorder,
		logger:   logger,
	}
}

// Get returns the engagement record for a (user, book) pair. A pair with no
// interactions yet yields an unread record with zero progress.
func (s *EngagementService) Get(ctx context.Context, userID, bookID string) (*domain.EngagementRecord, error) {
	rec, err := s.catalog.GetEngagement(ctx, userID, bookID)
	if errors.Is(err, store.ErrEngagementNotFound) {
		return &domain.EngagementRecord{
			UserID: userID,
			BookID: bookID,
			Status: domain.ReadStatusUnread,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get engagement: %w", err)
	}
	return rec, nil
}

// ListForUser returns a user's engagement records, optionally narrowed to
// favorites or a set of read statuses.
func (s *EngagementService) ListForUser(ctx context.Context, userID string, filter sqlite.EngagementFilter) ([]*domain.EngagementRecord, error) {
	return s.catalog.ListEngagementsByUser(ctx, userID, filter)
}

// RecordProgress moves a user's bookmark in a book. Pages beyond the
// paperback count clamp to the last page and mark the book read; zero or
// negative pages reset to unread. Reaching a page emits a feed entry.
func (s *EngagementService) RecordProgress(ctx context.Context, user *domain.User, bookID string, page int) (*domain.EngagementRecord, error) {
	book, err := s.activeBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	rec, err := s.loadOrCreate(ctx, user.ID, bookID)
	if err != nil {
		return nil, err
	}

	rec.ApplyProgress(page, book.Paperback)
	rec.UpdatedAt = time.Now()

	if err := s.catalog.UpsertEngagement(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert engagement: %w", err)
	}

	switch rec.Status {
	case domain.ReadStatusRead:
		s.recorder.Record(ctx, user, domain.ActionFinished, domain.BookTarget(book))
	case domain.ReadStatusReading:
		s.recorder.Record(ctx, user, domain.ActionReadingToPage(rec.PageReading), domain.BookTarget(book))
	}

	return rec, nil
}

// SetFavorite flips the favorite flag on a book for a user. A feed entry is
// emitted only when the flag actually changes.
func (s *EngagementService) SetFavorite(ctx context.Context, user *domain.User, bookID string, favorite bool) (*domain.EngagementRecord, error) {
	book, err := s.activeBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	rec, err := s.loadOrCreate(ctx, user.ID, bookID)
	if err != nil {
		return nil, err
	}

	changed := rec.IsFavorite != favorite
	rec.IsFavorite = favorite
	rec.UpdatedAt = time.Now()

	if err := s.catalog.UpsertEngagement(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert engagement: %w", err)
	}

	if changed {
		action := domain.ActionFavorite
		if !favorite {
			action = domain.ActionUnfavorite
		}
		s.recorder.Record(ctx, user, action, domain.BookTarget(book))
	}

	return rec, nil
}

// SetRating scores a book 1 through 5 for a user. Re-rating overwrites the
// previous score.
func (s *EngagementService) SetRating(ctx context.Context, user *domain.User, bookID string, rating int) (*domain.EngagementRecord, error) {
	if !domain.ValidRating(rating) {
		return nil, domainerrors.Validationf("rating must be between 1 and 5, got %d", rating)
	}

	if _, err := s.activeBook(ctx, bookID); err != nil {
		return nil, err
	}

	rec, err := s.loadOrCreate(ctx, user.ID, bookID)
	if err != nil {
		return nil, err
	}

	rec.Rating = rating
	rec.UpdatedAt = time.Now()

	if err := s.catalog.UpsertEngagement(ctx, rec); err != nil {
		return nil, fmt.Errorf("upsert engagement: %w", err)
	}

	return rec, nil
}

func (s *EngagementService) activeBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}
	if !book.Active {
		return nil, store.ErrBookNotFound
	}
	return book, nil
}

func (s *EngagementService) loadOrCreate(ctx context.Context, userID, bookID string) (*domain.EngagementRecord, error) {
	rec, err := s.catalog.GetEngagement(ctx, userID, bookID)
	if err == nil {
		return rec, nil
	}
	if !errors.Is(err, store.ErrEngagementNotFound) {
		return nil, fmt.Errorf("get engagement: %w", err)
	}

	recordID, err := id.Generate("eng")
	if err != nil {
		return nil, fmt.Errorf("generate engagement ID: %w", err)
	}
	now := time.Now()
	return &domain.EngagementRecord{
		ID:        recordID,
		UserID:    userID,
		BookID:    bookID,
		Status:    domain.ReadStatusUnread,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
