package domain

import "time"

// FollowStatus is the state of a directed follow edge.
type FollowStatus string

const (
	// FollowStatusFollow means the edge is active.
	FollowStatusFollow FollowStatus = "follow"
	// FollowStatusUnfollow means the edge exists but is inactive.
	// Unfollowing flips the row in place rather than deleting it.
	FollowStatusUnfollow FollowStatus = "unfollow"
)

// FollowRelation is a directed social edge between two users.
// Exactly one row exists per ordered (follower, following) pair.
type FollowRelation struct {
	FollowerID  string       `json:"follower_id"`
	FollowingID string       `json:"following_id"`
	Status      FollowStatus `json:"status"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// IsFollowing reports whether the edge is currently active.
func (f *FollowRelation) IsFollowing() bool {
	return f.Status == FollowStatusFollow
}
