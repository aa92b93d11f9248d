package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sunlibapp/sunlib-server/internal/color"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

func (s *Server) registerSocialRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "followUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/follow",
		Summary:     "Follow a user",
		Description: "Creates or reactivates the follow edge from the caller to the given user",
		Tags:        []string{"Social"},
	}, s.handleFollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "unfollowUser",
		Method:      http.MethodPost,
		Path:        "/api/v1/users/{id}/unfollow",
		Summary:     "Unfollow a user",
		Description: "Deactivates the follow edge from the caller to the given user",
		Tags:        []string{"Social"},
	}, s.handleUnfollowUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowers",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/followers",
		Summary:     "List followers",
		Description: "Returns the users actively following the given user",
		Tags:        []string{"Social"},
	}, s.handleListFollowers)

	huma.Register(s.api, huma.Operation{
		OperationID: "listFollowing",
		Method:      http.MethodGet,
		Path:        "/api/v1/users/{id}/following",
		Summary:     "List following",
		Description: "Returns the users the given user actively follows",
		Tags:        []string{"Social"},
	}, s.handleListFollowing)
}

// === DTOs ===

// FollowInput identifies the caller and the user to (un)follow.
type FollowInput struct {
	UserID   string `header:"X-User-ID" doc:"Caller identity forwarded by the gateway"`
	TargetID string `path:"id" doc:"User to follow or unfollow"`
}

// FollowOutput acknowledges a follow graph change.
type FollowOutput struct {
	Body struct {
		Success bool `json:"success"`
	}
}

// UserListInput identifies the caller and the user whose graph to read.
type UserListInput struct {
	UserID   string `header:"X-User-ID" doc:"Caller identity forwarded by the gateway"`
	TargetID string `path:"id" doc:"User whose follow graph to read"`
}

// UserSummary is the public slice of an account shown in follow lists.
type UserSummary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Location    string `json:"location,omitempty"`
	AvatarColor string `json:"avatar_color"`
}

// UserListOutput wraps a follow graph listing.
type UserListOutput struct {
	Body struct {
		Users []UserSummary `json:"users"`
	}
}

func toUserSummaries(users []*domain.User) []UserSummary {
	summaries := make([]UserSummary, len(users))
	for i, u := range users {
		summaries[i] = UserSummary{
			ID:          u.ID,
			Username:    u.Username,
			Location:    u.Location,
			AvatarColor: color.ForUser(u.ID),
		}
	}
	return summaries
}

// === Handlers ===

func (s *Server) handleFollowUser(ctx context.Context, input *FollowInput) (*FollowOutput, error) {
	actor, err := s.resolveIdentity(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Follow(ctx, actor, input.TargetID); err != nil {
		return nil, err
	}

	out := &FollowOutput{}
	out.Body.Success = true
	return out, nil
}

func (s *Server) handleUnfollowUser(ctx context.Context, input *FollowInput) (*FollowOutput, error) {
	actor, err := s.resolveIdentity(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if err := s.services.Social.Unfollow(ctx, actor, input.TargetID); err != nil {
		return nil, err
	}

	out := &FollowOutput{}
	out.Body.Success = true
	return out, nil
}

func (s *Server) handleListFollowers(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	if _, err := s.resolveIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	users, err := s.services.Social.Followers(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}

	out := &UserListOutput{}
	out.Body.Users = toUserSummaries(users)
	return out, nil
}

func (s *Server) handleListFollowing(ctx context.Context, input *UserListInput) (*UserListOutput, error) {
	if _, err := s.resolveIdentity(ctx, input.UserID); err != nil {
		return nil, err
	}

	users, err := s.services.Social.Following(ctx, input.TargetID)
	if err != nil {
		return nil, err
	}

	out := &UserListOutput{}
	out.Body.Users = toUserSummaries(users)
	return out, nil
}
