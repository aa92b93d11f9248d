package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
)

// AddReviewRequest represents the request body for commenting on a book.
type AddReviewRequest struct {
	Message string `json:"message" validate:"required,max=4096"`
}

// handleAddReview appends a comment to a book's review log.
func (s *Server) handleAddReview(w http.ResponseWriter, r *http.Request) {
	var req AddReviewRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	log, err := s.services.Review.AddReview(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), req.Message)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, log, s.logger)
}

// handleListReviews returns a book's review log, oldest entry first.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	log, err := s.services.Review.ListReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, log, s.logger)
}
