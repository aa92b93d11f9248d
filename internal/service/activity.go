package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

// ActivityRecorder records user actions into the activity log. Recording is
// fire-and-forget: a failed write never fails the action that triggered it.
type ActivityRecorder interface {
	Record(ctx context.Context, actor *domain.User, action string, target domain.ActivityTarget)
}

// ActivityService writes and reads the append-only activity log.
type ActivityService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewActivityService creates a new activity service.
func NewActivityService(store *store.Store, logger *slog.Logger) *ActivityService {
	return &ActivityService{
		store:  store,
		logger: logger,
	}
}

// Record appends one activity line for the actor. Failures are logged and
// swallowed so engagement and social writes never roll back over a feed entry.
func (s *ActivityService) Record(ctx context.Context, actor *domain.User, action string, target domain.ActivityTarget) {
	activityID, err := id.Generate("act")
	if err != nil {
		s.logger.Warn("generate activity ID", "error", err)
		return
	}

	activity := &domain.Activity{
		ID:        activityID,
		UserID:    actor.ID,
		Username:  actor.Name(),
		Action:    action,
		Target:    target,
		CreatedAt: time.Now(),
	}

	if err := s.store.CreateActivity(ctx, activity); err != nil {
		s.logger.Warn("record activity",
			"user_id", actor.ID,
			"action", action,
			"error", err,
		)
		return
	}

	s.logger.Debug("activity recorded",
		"user_id", actor.ID,
		"action", action,
		"target_kind", target.Kind,
		"target_id", target.ID,
	)
}

// Feed returns the newest activities across all users.
func (s *ActivityService) Feed(ctx context.Context, limit int) ([]*domain.Activity, error) {
	return s.store.GetActivitiesFeed(ctx, normalizeLimit(limit))
}

// UserFeed returns the newest activities by one user.
func (s *ActivityService) UserFeed(ctx context.Context, userID string, limit int) ([]*domain.Activity, error) {
	return s.store.GetUserActivities(ctx, userID, normalizeLimit(limit))
}

// BookFeed returns the newest activities targeting one book.
func (s *ActivityService) BookFeed(ctx context.Context, bookID string, limit int) ([]*domain.Activity, error) {
	return s.store.GetBookActivities(ctx, bookID, normalizeLimit(limit))
}

func normalizeLimit(limit int) int {
	if limit <= 0 || limit > domain.DefaultFeedLimit {
		return domain.DefaultFeedLimit
	}
	return limit
}
