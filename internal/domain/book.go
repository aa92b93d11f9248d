package domain

import "time"

// BookCategory is a label books can belong to (many-to-many).
type BookCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book represents a title in the catalog.
// Books are created by admins and soft-deleted via the Active flag;
// they are never removed from the catalog.
type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	CategoryIDs []string  `json:"category_ids"`
	Paperback   int       `json:"paperback"` // page count
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
