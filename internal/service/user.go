package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// UserService manages member accounts, profiles and roles.
type UserService struct {
	catalog *sqlite.Store
	logger  *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(catalog *sqlite.Store, logger *slog.Logger) *UserService {
	return &UserService{
		catalog: catalog,
		logger:  logger,
	}
}

// CreateUserInput carries the fields of a new account.
type CreateUserInput struct {
	Username string
	Email    string
	Role     domain.Role
}

// CreateUser registers an account. Role defaults to member when empty.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if username == "" {
		return nil, domainerrors.Validation("username must not be empty")
	}
	if email == "" {
		return nil, domainerrors.Validation("email must not be empty")
	}

	role := input.Role
	if role == "" {
		role = domain.RoleMember
	}
	if !role.Valid() {
		return nil, domainerrors.Validationf("unknown role %q", role)
	}

	userID, err := id.Generate("usr")
	if err != nil {
		return nil, fmt.Errorf("generate user ID: %w", err)
	}

	now := time.Now()
	user := &domain.User{
		ID:        userID,
		Username:  username,
		Email:     email,
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.catalog.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user created", "user_id", user.ID, "username", username, "role", role)
	return user, nil
}

// Get retrieves one user by ID. Profiles are visible to any member.
func (s *UserService) Get(ctx context.Context, userID string) (*domain.User, error) {
	return s.catalog.GetUser(ctx, userID)
}

// ProfileInput carries the self-editable profile fields.
type ProfileInput struct {
	Username  string
	Education string
	Location  string
	Skills    string
	Notes     string
}

// UpdateProfile edits a user's profile. Users edit their own; admins edit
// anyone's.
func (s *UserService) UpdateProfile(ctx context.Context, actor *domain.User, userID string, input ProfileInput) (*domain.User, error) {
	if actor.ID != userID && !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("cannot edit another user's profile")
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if username := strings.TrimSpace(input.Username); username != "" {
		user.Username = username
	}
	user.Education = input.Education
	user.Location = input.Location
	user.Skills = input.Skills
	user.Notes = input.Notes
	user.UpdatedAt = time.Now()

	if err := s.catalog.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return user, nil
}

// ChangeRole promotes or demotes a user. Admin only; admins cannot demote
// themselves, so the system always keeps at least one admin.
func (s *UserService) ChangeRole(ctx context.Context, actor *domain.User, userID string, role domain.Role) (*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can change roles")
	}
	if !role.Valid() {
		return nil, domainerrors.Validationf("unknown role %q", role)
	}
	if actor.ID == userID && role != domain.RoleAdmin {
		return nil, domainerrors.Conflict("admins cannot demote themselves")
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	user.Role = role
	user.UpdatedAt = time.Now()

	if err := s.catalog.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("role changed", "user_id", userID, "role", role, "by", actor.ID)
	return user, nil
}

// Deactivate disables an account. Admin only. The account and its
// engagement history survive; it just cannot act anymore.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.User, userID string) error {
	if !actor.IsAdmin() {
		return domainerrors.Forbidden("only admins can deactivate accounts")
	}
	if actor.ID == userID {
		return domainerrors.Conflict("admins cannot deactivate themselves")
	}

	user, err := s.catalog.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	user.Active = false
	user.UpdatedAt = time.Now()

	if err := s.catalog.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.Info("user deactivated", "user_id", userID, "by", actor.ID)
	return nil
}

// List returns all active users ordered by username. Admin only; the
// listing exposes email addresses.
func (s *UserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can list users")
	}
	return s.catalog.ListUsers(ctx)
}

// Search matches active users by username or email. Admin only.
func (s *UserService) Search(ctx context.Context, actor *domain.User, q string) ([]*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can search users")
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domainerrors.Validation("search query must not be empty")
	}
	return s.catalog.SearchUsers(ctx, q)
}
