package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunlibapp/sunlib-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func makeActivity(id, userID, action string, target domain.ActivityTarget, at time.Time) *domain.Activity {
	return &domain.Activity{
		ID:        id,
		UserID:    userID,
		Username:  userID,
		Action:    action,
		Target:    target,
		CreatedAt: at,
	}
}

func TestCreateAndGetActivity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	target := domain.ActivityTarget{Kind: domain.TargetBook, ID: "book-1", DisplayName: "Dune"}
	act := makeActivity("act-1", "usr-1", domain.ActionFavorite, target, time.Now())
	require.NoError(t, s.CreateActivity(ctx, act))

	got, err := s.GetActivity(ctx, "act-1")
	require.NoError(t, err)
	assert.Equal(t, "usr-1", got.UserID)
	assert.Equal(t, domain.ActionFavorite, got.Action)
	assert.Equal(t, domain.TargetBook, got.Target.Kind)
	assert.Equal(t, "Dune", got.Target.DisplayName)
}

func TestGetActivity_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetActivity(context.Background(), "act-missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetUserActivities_NewestFirstAndLimited(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	target := domain.ActivityTarget{Kind: domain.TargetBook, ID: "book-1", DisplayName: "Dune"}
	for i := 0; i < 30; i++ {
		act := makeActivity(
			fmt.Sprintf("act-%02d", i),
			"usr-1",
			domain.ActionReadingToPage(i+1),
			target,
			base.Add(time.Duration(i)*time.Minute),
		)
		require.NoError(t, s.CreateActivity(ctx, act))
	}

	// One entry from another user must not leak in.
	other := makeActivity("act-other", "usr-2", domain.ActionFavorite, target, base)
	require.NoError(t, s.CreateActivity(ctx, other))

	activities, err := s.GetUserActivities(ctx, "usr-1", 20)
	require.NoError(t, err)
	require.Len(t, activities, 20)

	for i := 1; i < len(activities); i++ {
		assert.False(t, activities[i].CreatedAt.After(activities[i-1].CreatedAt),
			"activities must be sorted newest first")
	}
	for _, a := range activities {
		assert.Equal(t, "usr-1", a.UserID)
	}
	// The newest entry comes first.
	assert.Equal(t, "act-29", activities[0].ID)
}

func TestGetBookActivities(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	bookTarget := domain.ActivityTarget{Kind: domain.TargetBook, ID: "book-1", DisplayName: "Dune"}
	userTarget := domain.ActivityTarget{Kind: domain.TargetUser, ID: "usr-2", DisplayName: "bob"}

	now := time.Now()
	require.NoError(t, s.CreateActivity(ctx, makeActivity("act-1", "usr-1", domain.ActionFavorite, bookTarget, now)))
	require.NoError(t, s.CreateActivity(ctx, makeActivity("act-2", "usr-1", domain.ActionFollow, userTarget, now.Add(time.Second))))

	activities, err := s.GetBookActivities(ctx, "book-1", 10)
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, "act-1", activities[0].ID)
}

func TestGetActivitiesFeed(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	target := domain.ActivityTarget{Kind: domain.TargetBook, ID: "book-1", DisplayName: "Dune"}
	now := time.Now()
	require.NoError(t, s.CreateActivity(ctx, makeActivity("act-1", "usr-1", domain.ActionFavorite, target, now)))
	require.NoError(t, s.CreateActivity(ctx, makeActivity("act-2", "usr-2", domain.ActionFinished, target, now.Add(time.Second))))

	feed, err := s.GetActivitiesFeed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "act-2", feed[0].ID)
	assert.Equal(t, "act-1", feed[1].ID)
}

func TestCreateActivity_CancelledContext(t *testing.T) {
	s := newTestStore(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	target := domain.ActivityTarget{Kind: domain.TargetBook, ID: "book-1", DisplayName: "Dune"}
	err := s.CreateActivity(ctx, makeActivity("act-1", "usr-1", domain.ActionFavorite, target, time.Now()))
	assert.ErrorIs(t, err, context.Canceled)
}
