package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// SocialService manages the follow graph between users.
type SocialService struct {
	catalog  *sqlite.Store
	recorder ActivityRecorder
	logger   *slog.Logger
}

// NewSocialService creates a new social service.
func NewSocialService(catalog *sqlite.Store, recorder ActivityRecorder, logger *slog.Logger) *SocialService {
	return &SocialService{
		catalog:  catalog,
		recorder: recorder,
		logger:   logger,
	}
}

// Follow creates or reactivates the edge from actor to the target user and
// emits a feed entry. Following yourself is rejected; following twice is a
// no-op.
func (s *SocialService) Follow(ctx context.Context, actor *domain.User, targetID string) error {
	return s.setFollow(ctx, actor, targetID, domain.FollowStatusFollow)
}

// Unfollow deactivates the edge from actor to the target user. Unfollowing
// someone never followed is a no-op edge in the unfollow state.
func (s *SocialService) Unfollow(ctx context.Context, actor *domain.User, targetID string) error {
	return s.setFollow(ctx, actor, targetID, domain.FollowStatusUnfollow)
}

func (s *SocialService) setFollow(ctx context.Context, actor *domain.User, targetID string, status domain.FollowStatus) error {
	if actor.ID == targetID {
		return domainerrors.Validation("users cannot follow themselves")
	}

	target, err := s.catalog.GetUser(ctx, targetID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	now := time.Now()
	relation := &domain.FollowRelation{
		FollowerID:  actor.ID,
		FollowingID: targetID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	existing, err := s.catalog.GetFollow(ctx, actor.ID, targetID)
	switch {
	case err == nil:
		if existing.Status == status {
			return nil
		}
		relation.CreatedAt = existing.CreatedAt
	case !errors.Is(err, store.ErrFollowNotFound):
		return fmt.Errorf("get follow: %w", err)
	}

	if err := s.catalog.UpsertFollow(ctx, relation); err != nil {
		return fmt.Errorf("upsert follow: %w", err)
	}

	action := domain.ActionFollow
	if status == domain.FollowStatusUnfollow {
		action = domain.ActionUnfollow
	}
	s.recorder.Record(ctx, actor, action, domain.UserTarget(target))

	return nil
}

// Followers returns the users actively following userID.
func (s *SocialService) Followers(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.catalog.ListFollowers(ctx, userID)
}

// Following returns the users userID actively follows.
func (s *SocialService) Following(ctx context.Context, userID string) ([]*domain.User, error) {
	return s.catalog.ListFollowing(ctx, userID)
}
