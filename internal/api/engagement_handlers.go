package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
)

// RecordProgressRequest represents the request body for moving a bookmark.
type RecordProgressRequest struct {
	PageReading int `json:"page_reading" validate:"gte=0"`
}

// SetFavoriteRequest represents the request body for flagging a favorite.
type SetFavoriteRequest struct {
	IsFavorite bool `json:"is_favorite"`
}

// SetRatingRequest represents the request body for rating a book.
type SetRatingRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// handleGetEngagement returns the caller's reading state for one book.
func (s *Server) handleGetEngagement(w http.ResponseWriter, r *http.Request) {
	rec, err := s.services.Engagement.Get(r.Context(), currentUser(r.Context()).ID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, rec, s.logger)
}

// handleRecordProgress moves the caller's bookmark in a book.
func (s *Server) handleRecordProgress(w http.ResponseWriter, r *http.Request) {
	var req RecordProgressRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	rec, err := s.services.Engagement.RecordProgress(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), req.PageReading)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, rec, s.logger)
}

// handleSetFavorite flips the favorite flag on a book.
func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	var req SetFavoriteRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	rec, err := s.services.Engagement.SetFavorite(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), req.IsFavorite)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, rec, s.logger)
}

// handleSetRating scores a book 1 through 5.
func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req SetRatingRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	rec, err := s.services.Engagement.SetRating(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), req.Rating)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, rec, s.logger)
}
