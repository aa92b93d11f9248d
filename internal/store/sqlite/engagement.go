package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

const engagementColumns = `id, user_id, book_id, status, page_reading, is_favorite, rating,
	created_at, updated_at`

// scanEngagement scans a sql.Row (or sql.Rows via its Scan method) into a domain.EngagementRecord.
func scanEngagement(scanner interface{ Scan(dest ...any) error }) (*domain.EngagementRecord, error) {
	var r domain.EngagementRecord

	var (
		status     string
		isFavorite int
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&r.ID,
		&r.UserID,
		&r.BookID,
		&status,
		&r.PageReading,
		&isFavorite,
		&r.Rating,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	r.Status = domain.ReadStatus(status)
	r.IsFavorite = isFavorite != 0

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &r, nil
}

// GetEngagement retrieves the record for a (user, book) pair.
// Returns store.ErrEngagementNotFound if no record exists yet.
func (s *Store) GetEngagement(ctx context.Context, userID, bookID string) (*domain.EngagementRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+engagementColumns+` FROM engagement_records WHERE user_id = ? AND book_id = ?`,
		userID, bookID)

	r, err := scanEngagement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrEngagementNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpsertEngagement creates or updates the record for its (user, book) pair
// as a single atomic conditional write. The unique constraint on the pair
// means concurrent first writes cannot produce duplicate records; the ID
// and created_at of an existing row are preserved.
func (s *Store) UpsertEngagement(ctx context.Context, r *domain.EngagementRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO engagement_records (
			id, user_id, book_id, status, page_reading, is_favorite, rating,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, book_id) DO UPDATE SET
			status = excluded.status,
			page_reading = excluded.page_reading,
			is_favorite = excluded.is_favorite,
			rating = excluded.rating,
			updated_at = excluded.updated_at`,
		r.ID,
		r.UserID,
		r.BookID,
		string(r.Status),
		r.PageReading,
		boolToInt(r.IsFavorite),
		r.Rating,
		formatTime(r.CreatedAt),
		formatTime(r.UpdatedAt),
	)
	return err
}

// EngagementFilter narrows ListEngagementsByUser results.
type EngagementFilter struct {
	// FavoritesOnly keeps only records with the favorite flag set.
	FavoritesOnly bool
	// Statuses keeps only records in any of the given states.
	Statuses []domain.ReadStatus
}

// ListEngagementsByUser returns all of a user's records matching the filter.
func (s *Store) ListEngagementsByUser(ctx context.Context, userID string, filter EngagementFilter) ([]*domain.EngagementRecord, error) {
	query := `SELECT ` + engagementColumns + ` FROM engagement_records WHERE user_id = ?`
	args := []any{userID}

	if filter.FavoritesOnly {
		query += ` AND is_favorite = 1`
	}
	if len(filter.Statuses) > 0 {
		query += ` AND status IN (?`
		args = append(args, string(filter.Statuses[0]))
		for _, st := range filter.Statuses[1:] {
			query += `,?`
			args = append(args, string(st))
		}
		query += `)`
	}

	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.EngagementRecord{}
	for rows.Next() {
		r, err := scanEngagement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
