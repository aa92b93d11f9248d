package domain

import "time"

// ReviewEntry is a single timestamped message in a book's review log.
type ReviewEntry struct {
	Author    string    `json:"author"` // username at the time of writing
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// ReviewLog holds the ordered review messages for one book.
// Entries only ever get appended; there is no edit, delete, or cap.
type ReviewLog struct {
	ID        string        `json:"id"`
	BookID    string        `json:"book_id"`
	Entries   []ReviewEntry `json:"entries"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
