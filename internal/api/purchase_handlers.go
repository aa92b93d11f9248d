package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// CreatePurchaseRequestBody represents the request body for filing a
// purchase request.
type CreatePurchaseRequestBody struct {
	CategoryID string `json:"category_id"`
	BookURL    string `json:"book_url" validate:"omitempty,url"`
	Name       string `json:"name" validate:"required,max=256"`
	PriceCents int64  `json:"price_cents" validate:"gte=0"`
}

// UpdatePurchaseStatusRequest represents the request body for deciding a
// purchase request.
type UpdatePurchaseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=approved bought rejected"`
}

// handleCreatePurchaseRequest files a purchase request for the caller.
func (s *Server) handleCreatePurchaseRequest(w http.ResponseWriter, r *http.Request) {
	var req CreatePurchaseRequestBody
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	request, err := s.services.Purchase.Create(r.Context(), currentUser(r.Context()), service.PurchaseInput{
		CategoryID: req.CategoryID,
		BookURL:    req.BookURL,
		Name:       req.Name,
		PriceCents: req.PriceCents,
	})
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, request, s.logger)
}

// handleGetPurchaseRequest returns one purchase request.
func (s *Server) handleGetPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	request, err := s.services.Purchase.Get(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, request, s.logger)
}

// handleListPurchaseRequests returns active requests: all for admins, the
// caller's own otherwise.
func (s *Server) handleListPurchaseRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := s.services.Purchase.List(r.Context(), currentUser(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, requests, s.logger)
}

// handleUpdatePurchaseStatus decides a waiting purchase request.
func (s *Server) handleUpdatePurchaseStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdatePurchaseStatusRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	request, err := s.services.Purchase.UpdateStatus(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), domain.PurchaseStatus(req.Status))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, request, s.logger)
}

// handleWithdrawPurchaseRequest deactivates a purchase request.
func (s *Server) handleWithdrawPurchaseRequest(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Purchase.Withdraw(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}
