package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

func (s *Server) registerActivityRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getActivityFeed",
		Method:      http.MethodGet,
		Path:        "/api/v1/activities",
		Summary:     "Get activity feed",
		Description: "Returns the newest activities across all users",
		Tags:        []string{"Activity"},
	}, s.handleGetActivityFeed)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUserActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/activities",
		Summary:     "Get a user's activities",
		Description: "Returns the newest activities by one user",
		Tags:        []string{"Activity"},
	}, s.handleGetUserActivities)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBookActivities",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/activities",
		Summary:     "Get a book's activities",
		Description: "Returns the newest activities targeting one book",
		Tags:        []string{"Activity"},
	}, s.handleGetBookActivities)
}

// === DTOs ===

// FeedInput contains parameters for reading the global feed.
type FeedInput struct {
	UserID string `header:"X-User-ID" doc:"Caller identity forwarded by the gateway"`
	Limit  int    `query:"limit" doc:"Max entries (default 20, max 20)"`
}

// ScopedFeedInput contains parameters for reading a user or book feed.
type ScopedFeedInput struct {
	UserID   string `header:"X-User-ID" doc:"Caller identity forwarded by the gateway"`
	TargetID string `path:"id" doc:"User or book whose feed to read"`
	Limit    int    `query:"limit" doc:"Max entries (default 20, max 20)"`
}

// ActivityResponse is one rendered feed line.
type ActivityResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	Action     string    `json:"action"`
	TargetKind string    `json:"target_kind"`
	TargetID   string    `json:"target_id"`
	TargetName string    `json:"target_name"`
	CreatedAt  time.Time `json:"created_at"`
}

// FeedOutput wraps a list of activities.
type FeedOutput struct {
	Body struct {
		Activities []ActivityResponse `json:"activities"`
	}
}

func toActivityResponses(activities []*domain.Activity) []ActivityResponse {
	out := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		out[i] = ActivityResponse{
			ID:         a.ID,
			UserID:     a.UserID,
			Username:   a.Username,
			Action:     a.Action,
			TargetKind: string(a.Target.Kind),
			TargetID:   a.Target.ID,
			TargetName: a.Target.DisplayName,
			CreatedAt:  a.CreatedAt,
		}
	}
	return out
}

// === Handlers ===

func (s *Server) handleGetActivityFeed(ctx context.Context, input *FeedInput) (*FeedOutput, error) {
	if _, err := s.resolveIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	activities, err := s.services.Activity.Feed(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &FeedOutput{}
	out.Body.Activities = toActivityResponses(activities)
	return out, nil
}

func (s *Server) handleGetUserActivities(ctx context.Context, input *ScopedFeedInput) (*FeedOutput, error) {
	if _, err := s.resolveIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	activities, err := s.services.Activity.UserFeed(ctx, input.TargetID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &FeedOutput{}
	out.Body.Activities = toActivityResponses(activities)
	return out, nil
}

func (s *Server) handleGetBookActivities(ctx context.Context, input *ScopedFeedInput) (*FeedOutput, error) {
	if _, err := s.resolveIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	activities, err := s.services.Activity.BookFeed(ctx, input.TargetID, input.Limit)
	if err != nil {
		return nil, err
	}

	out := &FeedOutput{}
	out.Body.Activities = toActivityResponses(activities)
	return out, nil
}
