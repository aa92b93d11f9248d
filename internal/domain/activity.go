package domain

import (
	"fmt"
	"time"
)

// TargetKind tags what an activity entry points at.
type TargetKind string

const (
	// TargetBook marks activities about a book.
	TargetBook TargetKind = "book"
	// TargetUser marks activities about another user.
	TargetUser TargetKind = "user"
)

// ActivityTarget is the tagged variant describing the object an action
// touched. Callers construct it; the recorder never type-inspects.
type ActivityTarget struct {
	Kind        TargetKind `json:"kind"`
	ID          string     `json:"id"`
	DisplayName string     `json:"display_name"`
}

// BookTarget builds an activity target for a book.
func BookTarget(b *Book) ActivityTarget {
	return ActivityTarget{Kind: TargetBook, ID: b.ID, DisplayName: b.Name}
}

// UserTarget builds an activity target for a user.
func UserTarget(u *User) ActivityTarget {
	return ActivityTarget{Kind: TargetUser, ID: u.ID, DisplayName: u.Name()}
}

// Action labels recorded in the activity log. These render directly after
// the acting user's name ("alice have liked the book Dune").
const (
	ActionFavorite   = "have liked the book"
	ActionUnfavorite = "have unliked the book"
	ActionFinished   = "have finished the book"
	ActionFollow     = "followed the user"
	ActionUnfollow   = "unfollowed the user"
	ActionComment    = "commented on the book"
)

// ActionReadingToPage labels in-progress reading with the page reached.
func ActionReadingToPage(page int) string {
	return fmt.Sprintf("are reading to page %d", page)
}

// Activity is one immutable log line describing a user action. It lives in
// the secondary log store only; user and target info is denormalized so the
// feed renders without touching the primary store.
type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Username  string         `json:"username"`
	Action    string         `json:"action"`
	Target    ActivityTarget `json:"target"`
	CreatedAt time.Time      `json:"created_at"`
}

// DefaultFeedLimit caps activity feed queries when no limit is given.
const DefaultFeedLimit = 20
