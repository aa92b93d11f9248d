package domain

import "time"

// ReadStatus represents where a user stands with a book.
type ReadStatus string

const (
	// ReadStatusUnread means the user has interacted with the book
	// (favorite, rating) but recorded no page progress.
	ReadStatusUnread ReadStatus = "unread"
	// ReadStatusReading means the user is partway through the book.
	ReadStatusReading ReadStatus = "reading"
	// ReadStatusRead means the user reached the last page.
	ReadStatusRead ReadStatus = "read"
)

// Valid checks if the status is a known value.
func (s ReadStatus) Valid() bool {
	switch s {
	case ReadStatusUnread, ReadStatusReading, ReadStatusRead:
		return true
	default:
		return false
	}
}

// EngagementRecord is the per-user per-book reading state: page progress,
// favorite flag and rating. One record exists per (user, book) pair; it is
// created on first interaction and never deleted.
//
// Invariant: Status derives from PageReading vs the book's page count —
// read iff PageReading == paperback, reading iff 0 < PageReading < paperback.
type EngagementRecord struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	BookID      string     `json:"book_id"`
	Status      ReadStatus `json:"status"`
	PageReading int        `json:"page_reading"`
	IsFavorite  bool       `json:"is_favorite"`
	Rating      int        `json:"rating,omitempty"` // 1-5, 0 = unrated
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// StatusForPage derives the read status from a page position.
// Pages past the end count as finished.
func StatusForPage(page, paperback int) ReadStatus {
	switch {
	case page <= 0:
		return ReadStatusUnread
	case page >= paperback:
		return ReadStatusRead
	default:
		return ReadStatusReading
	}
}

// ClampPage bounds a page position to [0, paperback].
func ClampPage(page, paperback int) int {
	if page < 0 {
		return 0
	}
	if page > paperback {
		return paperback
	}
	return page
}

// ApplyProgress records a page position against a book of the given length,
// clamping overflow and deriving the status invariant.
func (r *EngagementRecord) ApplyProgress(page, paperback int) {
	r.PageReading = ClampPage(page, paperback)
	r.Status = StatusForPage(r.PageReading, paperback)
}

// Finished returns true once the record reached the last page.
func (r *EngagementRecord) Finished() bool {
	return r.Status == ReadStatusRead
}

// ValidRating reports whether a rating value is inside the 1-5 scale.
func ValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}
