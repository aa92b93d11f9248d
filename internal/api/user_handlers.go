package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// CreateUserRequest represents the request body for registering an account.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=2,max=64"`
	Email    string `json:"email" validate:"required,email"`
	Role     string `json:"role" validate:"omitempty,oneof=admin member"`
}

// UpdateProfileRequest represents the request body for editing a profile.
type UpdateProfileRequest struct {
	Username  string `json:"username" validate:"omitempty,min=2,max=64"`
	Education string `json:"education" validate:"max=256"`
	Location  string `json:"location" validate:"max=256"`
	Skills    string `json:"skills" validate:"max=1024"`
	Notes     string `json:"notes" validate:"max=4096"`
}

// ChangeRoleRequest represents the request body for changing a user's role.
type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin member"`
}

// handleCreateUser registers a new account.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.services.User.CreateUser(r.Context(), service.CreateUserInput{
		Username: req.Username,
		Email:    req.Email,
		Role:     domain.Role(req.Role),
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, user, s.logger)
}

// handleGetCurrentUser returns the caller's own account.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	response.Success(w, currentUser(r.Context()), s.logger)
}

// handleGetUser returns one user's profile.
func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.services.User.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleListUsers returns all active users. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.User.List(r.Context(), currentUser(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, users, s.logger)
}

// handleSearchUsers matches users by username or email. Admin only.
func (s *Server) handleSearchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.User.Search(r.Context(), currentUser(r.Context()), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, users, s.logger)
}

// handleUpdateProfile edits a user's profile fields.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.services.User.UpdateProfile(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), service.ProfileInput{
		Username:  req.Username,
		Education: req.Education,
		Location:  req.Location,
		Skills:    req.Skills,
		Notes:     req.Notes,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleChangeRole promotes or demotes a user.
func (s *Server) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	var req ChangeRoleRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	user, err := s.services.User.ChangeRole(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), domain.Role(req.Role))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, user, s.logger)
}

// handleDeactivateUser disables an account.
func (s *Server) handleDeactivateUser(w http.ResponseWriter, r *http.Request) {
	if err := s.services.User.Deactivate(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
