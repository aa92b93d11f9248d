package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// ReviewService appends reader comments to per-book review logs. Entries
// are append-only; there is no edit or delete.
type ReviewService struct {
	catalog  *sqlite.Store
	recorder ActivityRecorder
	logger   *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(catalog *sqlite.Store, recorder ActivityRecorder, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		catalog:  catalog,
		recorder: recorder,
		logger:   logger,
	}
}

// AddReview appends one comment to a book's review log, creating the log on
// first review, and emits a feed entry.
func (s *ReviewService) AddReview(ctx context.Context, actor *domain.User, bookID, message string) (*domain.ReviewLog, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domainerrors.Validation("review message must not be empty")
	}

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	if err := s.ensureLog(ctx, bookID); err != nil {
		return nil, err
	}

	entry := domain.ReviewEntry{
		Author:    actor.Name(),
		Message:   message,
		CreatedAt: time.Now(),
	}
	log, err := s.catalog.AppendReview(ctx, bookID, entry)
	if err != nil {
		return nil, fmt.Errorf("append review: %w", err)
	}

	s.recorder.Record(ctx, actor, domain.ActionComment, domain.BookTarget(book))

	return log, nil
}

// ListReviews returns a book's review log. A book nobody reviewed yet yields
// a log with no entries.
func (s *ReviewService) ListReviews(ctx context.Context, bookID string) (*domain.ReviewLog, error) {
	if _, err := s.catalog.GetBook(ctx, bookID); err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	log, err := s.catalog.GetReviewLog(ctx, bookID)
	if errors.Is(err, store.ErrReviewLogNotFound) {
		return &domain.ReviewLog{BookID: bookID, Entries: []domain.ReviewEntry{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get review log: %w", err)
	}
	return log, nil
}

func (s *ReviewService) ensureLog(ctx context.Context, bookID string) error {
	_, err := s.catalog.GetReviewLog(ctx, bookID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrReviewLogNotFound) {
		return fmt.Errorf("get review log: %w", err)
	}

	logID, err := id.Generate("rev")
	if err != nil {
		return fmt.Errorf("generate review log ID: %w", err)
	}
	now := time.Now()
	createErr := s.catalog.CreateReviewLog(ctx, &domain.ReviewLog{
		ID:        logID,
		BookID:    bookID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	// A concurrent first reviewer may have created the log between the
	// lookup and the insert; appending still works either way.
	if createErr != nil && !errors.Is(createErr, store.ErrAlreadyExists) {
		return fmt.Errorf("create review log: %w", createErr)
	}
	return nil
}
