package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

// PurchaseService manages book purchase requests and their status workflow.
type PurchaseService struct {
	catalog *sqlite.Store
	logger  *slog.Logger
}

// NewPurchaseService creates a new purchase service.
func NewPurchaseService(catalog *sqlite.Store, logger *slog.Logger) *PurchaseService {
	return &PurchaseService{
		catalog: catalog,
		logger:  logger,
	}
}

// PurchaseInput carries the fields of a new purchase request.
type PurchaseInput struct {
	CategoryID string
	BookURL    string
	Name       string
	PriceCents int64
}

// Create files a purchase request for the actor. New requests always start
// in the waiting state.
func (s *PurchaseService) Create(ctx context.Context, actor *domain.User, input PurchaseInput) (*domain.PurchaseRequest, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.Validation("book name must not be empty")
	}
	if input.PriceCents < 0 {
		return nil, domainerrors.Validation("price must not be negative")
	}
	if input.CategoryID != "" {
		if _, err := s.catalog.GetCategory(ctx, input.CategoryID); err != nil {
			return nil, fmt.Errorf("get category: %w", err)
		}
	}

	requestID, err := id.Generate("req")
	if err != nil {
		return nil, fmt.Errorf("generate request ID: %w", err)
	}

	now := time.Now()
	request := &domain.PurchaseRequest{
		ID:         requestID,
		UserID:     actor.ID,
		CategoryID: input.CategoryID,
		BookURL:    input.BookURL,
		Name:       strings.TrimSpace(input.Name),
		PriceCents: input.PriceCents,
		Status:     domain.PurchaseWaiting,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.catalog.CreatePurchaseRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("create purchase request: %w", err)
	}

	s.logger.Info("purchase request filed",
		"request_id", request.ID,
		"user_id", actor.ID,
		"name", request.Name,
	)
	return request, nil
}

// Get retrieves one purchase request. Members see only their own requests.
func (s *PurchaseService) Get(ctx context.Context, actor *domain.User, requestID string) (*domain.PurchaseRequest, error) {
	request, err := s.catalog.GetPurchaseRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get purchase request: %w", err)
	}
	if !actor.IsAdmin() && request.UserID != actor.ID {
		return nil, domainerrors.Forbidden("purchase request belongs to another user")
	}
	return request, nil
}

// UpdateStatus moves a request through the purchase workflow. Only admins
// decide requests, and only requests still waiting can move; approved,
// bought and rejected are final.
func (s *PurchaseService) UpdateStatus(ctx context.Context, actor *domain.User, requestID string, next domain.PurchaseStatus) (*domain.PurchaseRequest, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can decide purchase requests")
	}
	if !next.Valid() {
		return nil, domainerrors.Validationf("unknown purchase status %q", next)
	}

	request, err := s.catalog.GetPurchaseRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("get purchase request: %w", err)
	}

	if !request.Status.CanTransition(next) {
		return nil, domainerrors.Conflictf("purchase request is %s and cannot move to %s", request.Status, next)
	}

	now := time.Now()
	if err := s.catalog.UpdatePurchaseStatus(ctx, requestID, next, now); err != nil {
		// A concurrent decision can win between the read above and this
		// write; the store's conditional update catches it.
		if errors.Is(err, store.ErrPurchaseRequestDecided) {
			return nil, domainerrors.Conflictf("purchase request is already decided")
		}
		return nil, fmt.Errorf("update purchase status: %w", err)
	}

	request.Status = next
	request.UpdatedAt = now

	s.logger.Info("purchase request decided",
		"request_id", requestID,
		"status", next,
		"by", actor.ID,
	)
	return request, nil
}

// List returns active purchase requests: all of them for admins, the
// actor's own otherwise.
func (s *PurchaseService) List(ctx context.Context, actor *domain.User) ([]*domain.PurchaseRequest, error) {
	if actor.IsAdmin() {
		return s.catalog.ListPurchaseRequests(ctx)
	}
	return s.catalog.ListPurchaseRequestsByUser(ctx, actor.ID)
}

// Withdraw deactivates a purchase request. The owner or an admin may do it.
func (s *PurchaseService) Withdraw(ctx context.Context, actor *domain.User, requestID string) error {
	request, err := s.catalog.GetPurchaseRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("get purchase request: %w", err)
	}
	if !actor.IsAdmin() && request.UserID != actor.ID {
		return domainerrors.Forbidden("purchase request belongs to another user")
	}

	if err := s.catalog.DeactivatePurchaseRequest(ctx, requestID, time.Now()); err != nil {
		return fmt.Errorf("deactivate purchase request: %w", err)
	}
	return nil
}
