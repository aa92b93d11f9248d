package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

// resolveIdentity maps a forwarded user ID to an active account for
// OpenAPI-registered operations, which receive the header as input instead
// of passing through requireIdentity.
func (s *Server) resolveIdentity(ctx context.Context, userID string) (*domain.User, error) {
	if userID == "" {
		return nil, huma.Error401Unauthorized("Missing " + identityHeader + " header")
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, huma.Error401Unauthorized("Unknown user")
	}
	if !user.Active {
		return nil, huma.Error401Unauthorized("Account is deactivated")
	}
	return user, nil
}
