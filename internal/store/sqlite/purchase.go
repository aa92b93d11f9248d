package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

const purchaseColumns = `id, user_id, category_id, book_url, name, price_cents, status,
	active, created_at, updated_at`

// scanPurchaseRequest scans a sql.Row (or sql.Rows via its Scan method) into a domain.PurchaseRequest.
func scanPurchaseRequest(scanner interface{ Scan(dest ...any) error }) (*domain.PurchaseRequest, error) {
	var p domain.PurchaseRequest

	var (
		categoryID sql.NullString
		status     string
		active     int
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&p.ID,
		&p.UserID,
		&categoryID,
		&p.BookURL,
		&p.Name,
		&p.PriceCents,
		&status,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.CategoryID = categoryID.String
	p.Status = domain.PurchaseStatus(status)
	p.Active = active != 0

	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePurchaseRequest inserts a new purchase request.
func (s *Store) CreatePurchaseRequest(ctx context.Context, p *domain.PurchaseRequest) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO purchase_requests (
			id, user_id, category_id, book_url, name, price_cents, status,
			active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.UserID,
		nullString(p.CategoryID),
		p.BookURL,
		p.Name,
		p.PriceCents,
		string(p.Status),
		boolToInt(p.Active),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	return err
}

// GetPurchaseRequest retrieves a purchase request by ID.
// Returns store.ErrPurchaseRequestNotFound if it does not exist.
func (s *Store) GetPurchaseRequest(ctx context.Context, id string) (*domain.PurchaseRequest, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchase_requests WHERE id = ?`, id)

	p, err := scanPurchaseRequest(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrPurchaseRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UpdatePurchaseStatus decides a waiting request. The transition is a
// single conditional write, so two concurrent decisions cannot both land.
// Returns store.ErrPurchaseRequestNotFound if the ID is absent and
// store.ErrPurchaseRequestDecided if the request already left waiting.
func (s *Store) UpdatePurchaseStatus(ctx context.Context, id string, status domain.PurchaseStatus, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE purchase_requests SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(status), formatTime(updatedAt), id, string(domain.PurchaseWaiting))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM purchase_requests WHERE id = ?`, id).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.ErrPurchaseRequestNotFound
		}
		return store.ErrPurchaseRequestDecided
	}
	return nil
}

// DeactivatePurchaseRequest soft-deactivates a request. Requests are never deleted.
func (s *Store) DeactivatePurchaseRequest(ctx context.Context, id string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE purchase_requests SET active = 0, updated_at = ? WHERE id = ?`,
		formatTime(updatedAt), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrPurchaseRequestNotFound
	}
	return nil
}

// ListPurchaseRequests returns all active requests, most recently updated first.
func (s *Store) ListPurchaseRequests(ctx context.Context) ([]*domain.PurchaseRequest, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+purchaseColumns+` FROM purchase_requests WHERE active = 1 ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPurchaseRequests(rows)
}

// ListPurchaseRequestsByUser returns a user's active requests, most recently updated first.
func (s *Store) ListPurchaseRequestsByUser(ctx context.Context, userID string) ([]*domain.PurchaseRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+` FROM purchase_requests
		WHERE active = 1 AND user_id = ?
		ORDER BY updated_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPurchaseRequests(rows)
}

func collectPurchaseRequests(rows *sql.Rows) ([]*domain.PurchaseRequest, error) {
	requests := []*domain.PurchaseRequest{}
	for rows.Next() {
		p, err := scanPurchaseRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, p)
	}
	return requests, rows.Err()
}
