package domain

import "time"

// PurchaseStatus is the lifecycle state of a book purchase request.
type PurchaseStatus string

const (
	// PurchaseWaiting is the initial state of every request.
	PurchaseWaiting PurchaseStatus = "waiting"
	// PurchaseApproved means an admin accepted the request.
	PurchaseApproved PurchaseStatus = "approved"
	// PurchaseBought means the book was acquired.
	PurchaseBought PurchaseStatus = "bought"
	// PurchaseRejected means an admin declined the request.
	PurchaseRejected PurchaseStatus = "rejected"
)

// Valid checks if the status is a known value.
func (s PurchaseStatus) Valid() bool {
	switch s {
	case PurchaseWaiting, PurchaseApproved, PurchaseBought, PurchaseRejected:
		return true
	default:
		return false
	}
}

// Terminal reports whether no further transition leaves this state.
func (s PurchaseStatus) Terminal() bool {
	return s == PurchaseApproved || s == PurchaseBought || s == PurchaseRejected
}

// CanTransition reports whether the forward-only request machine allows
// moving from s to next. Requests only ever leave waiting, and never
// return to it.
func (s PurchaseStatus) CanTransition(next PurchaseStatus) bool {
	return s == PurchaseWaiting && next.Terminal()
}

// PurchaseRequest is a member's request for the library to acquire a book.
// Requests are soft-deactivated, never deleted.
type PurchaseRequest struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	CategoryID string         `json:"category_id"`
	BookURL    string         `json:"book_url"`
	Name       string         `json:"name"`
	PriceCents int64          `json:"price_cents"`
	Status     PurchaseStatus `json:"status"`
	Active     bool           `json:"active"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
