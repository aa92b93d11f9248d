package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"errors"
	"strings"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

// GetReviewLog retrieves a book's review log.
// Returns store.ErrReviewLogNotFound when the book has no reviews yet.
func (s *Store) GetReviewLog(ctx context.Context, bookID string) (*domain.ReviewLog, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, book_id, entries, created_at, updated_at FROM review_logs WHERE book_id = ?`,
		bookID)

	log, err := scanReviewLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrReviewLogNotFound
	}
	if err != nil {
		return nil, err
	}
	return log, nil
}

// CreateReviewLog inserts a book's review log with its first entries.
func (s *Store) CreateReviewLog(ctx context.Context, log *domain.ReviewLog) error {
	entries, err := json.Marshal(log.Entries)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO review_logs (id, book_id, entries, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		log.ID,
		log.BookID,
		string(entries),
		formatTime(log.CreatedAt),
		formatTime(log.UpdatedAt),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists.WithMessage("review log already exists for book")
	}
	return err
}

// AppendReview appends one entry to a book's review log inside a transaction,
// so concurrent reviewers cannot drop each other's entries.
func (s *Store) AppendReview(ctx context.Context, bookID string, entry domain.ReviewEntry) (*domain.ReviewLog, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT id, book_id, entries, created_at, updated_at FROM review_logs WHERE book_id = ?`,
		bookID)

	log, err := scanReviewLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrReviewLogNotFound
	}
	if err != nil {
		return nil, err
	}

	log.Entries = append(log.Entries, entry)
	log.UpdatedAt = entry.CreatedAt

	entries, err := json.Marshal(log.Entries)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE review_logs SET entries = ?, updated_at = ? WHERE book_id = ?`,
		string(entries), formatTime(log.UpdatedAt), bookID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return log, nil
}

func scanReviewLog(scanner interface{ Scan(dest ...any) error }) (*domain.ReviewLog, error) {
	var log domain.ReviewLog

	var (
		entries   string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&log.ID, &log.BookID, &entries, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(entries), &log.Entries); err != nil {
		return nil, err
	}

	log.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	log.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &log, nil
}
