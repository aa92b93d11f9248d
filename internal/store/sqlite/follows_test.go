package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

func upsertFollow(t *testing.T, s *Store, followerID, followingID string, status domain.FollowStatus) {
	t.Helper()
	now := time.Now()
	err := s.UpsertFollow(context.Background(), &domain.FollowRelation{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		t.Fatalf("upsert follow %s -> %s: %v", followerID, followingID, err)
	}
}

func TestUpsertFollow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	seedUser(t, s, "usr-2", "bob", domain.RoleMember)

	upsertFollow(t, s, "usr-1", "usr-2", domain.FollowStatusFollow)

	got, err := s.GetFollow(ctx, "usr-1", "usr-2")
	if err != nil {
		t.Fatalf("get follow: %v", err)
	}
	if !got.IsFollowing() {
		t.Error("expected following status")
	}

	// Upserting the same pair flips the status instead of duplicating.
	upsertFollow(t, s, "usr-1", "usr-2", domain.FollowStatusUnfollow)

	got, err = s.GetFollow(ctx, "usr-1", "usr-2")
	if err != nil {
		t.Fatalf("get follow after unfollow: %v", err)
	}
	if got.IsFollowing() {
		t.Error("expected unfollow status")
	}

	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM follow_relations`).Scan(&count); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Errorf("expected 1 relation row, got %d", count)
	}

	if _, err := s.GetFollow(ctx, "usr-2", "usr-1"); !errors.Is(err, store.ErrFollowNotFound) {
		t.Errorf("expected ErrFollowNotFound for reverse pair, got %v", err)
	}
}

func TestListFollowersAndFollowing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	seedUser(t, s, "usr-2", "bob", domain.RoleMember)
	seedUser(t, s, "usr-3", "carol", domain.RoleMember)

	upsertFollow(t, s, "usr-2", "usr-1", domain.FollowStatusFollow)
	upsertFollow(t, s, "usr-3", "usr-1", domain.FollowStatusFollow)
	upsertFollow(t, s, "usr-1", "usr-3", domain.FollowStatusFollow)
	// Unfollowed relations are excluded from lists.
	upsertFollow(t, s, "usr-1", "usr-2", domain.FollowStatusUnfollow)

	followers, err := s.ListFollowers(ctx, "usr-1")
	if err != nil {
		t.Fatalf("list followers: %v", err)
	}
	if len(followers) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(followers))
	}
	if followers[0].Username != "bob" || followers[1].Username != "carol" {
		t.Errorf("unexpected followers: %s, %s", followers[0].Username, followers[1].Username)
	}

	following, err := s.ListFollowing(ctx, "usr-1")
	if err != nil {
		t.Fatalf("list following: %v", err)
	}
	if len(following) != 1 || following[0].Username != "carol" {
		t.Errorf("expected carol only, got %+v", following)
	}
}
