package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

// GetFollow retrieves the follow edge for an ordered (follower, following) pair.
// Returns store.ErrFollowNotFound if the pair has never interacted.
func (s *Store) GetFollow(ctx context.Context, followerID, followingID string) (*domain.FollowRelation, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT follower_id, following_id, status, created_at, updated_at
		FROM follow_relations
		WHERE follower_id = ? AND following_id = ?`,
		followerID, followingID)

	f, err := scanFollow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrFollowNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// UpsertFollow creates or updates the edge for its ordered pair as a single
// atomic conditional write. The pair's primary key guarantees no duplicate
// rows; repeated follow/unfollow actions flip the status in place.
func (s *Store) UpsertFollow(ctx context.Context, f *domain.FollowRelation) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO follow_relations (follower_id, following_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (follower_id, following_id) DO UPDATE SET
			status = excluded.status,
			updated_at = excluded.updated_at`,
		f.FollowerID,
		f.FollowingID,
		string(f.Status),
		formatTime(f.CreatedAt),
		formatTime(f.UpdatedAt),
	)
	return err
}

// ListFollowers returns the users actively following userID.
func (s *Store) ListFollowers(ctx context.Context, userID string) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE active = 1 AND id IN (
			SELECT follower_id FROM follow_relations
			WHERE following_id = ? AND status = ?
		)
		ORDER BY username`,
		userID, string(domain.FollowStatusFollow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

// ListFollowing returns the users userID actively follows.
func (s *Store) ListFollowing(ctx context.Context, userID string) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE active = 1 AND id IN (
			SELECT following_id FROM follow_relations
			WHERE follower_id = ? AND status = ?
		)
		ORDER BY username`,
		userID, string(domain.FollowStatusFollow))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectUsers(rows)
}

func scanFollow(scanner interface{ Scan(dest ...any) error }) (*domain.FollowRelation, error) {
	var f domain.FollowRelation

	var (
		status    string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(&f.FollowerID, &f.FollowingID, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	f.Status = domain.FollowStatus(status)

	f.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	f.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &f, nil
}
