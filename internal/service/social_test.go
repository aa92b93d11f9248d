package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/store"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

func setupSocialService(t *testing.T) (*SocialService, *captureRecorder, *sqlite.Store) {
	t.Helper()
	catalog := newTestCatalog(t)
	recorder := &captureRecorder{}
	svc := NewSocialService(catalog, recorder, testLogger())
	return svc, recorder, catalog
}

func TestFollow(t *testing.T) {
	svc, recorder, catalog := setupSocialService(t)
	ctx := context.Background()

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)
	createTestUser(t, catalog, "usr-2", "bob", domain.RoleMember)

	require.NoError(t, svc.Follow(ctx, alice, "usr-2"))

	followers, err := svc.Followers(ctx, "usr-2")
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, "alice", followers[0].Username)

	following, err := svc.Following(ctx, "usr-1")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "bob", following[0].Username)

	activities := recorder.all()
	require.Len(t, activities, 1)
	assert.Equal(t, domain.ActionFollow, activities[0].Action)
	assert.Equal(t, domain.TargetUser, activities[0].Target.Kind)
	assert.Equal(t, "usr-2", activities[0].Target.ID)
}

func TestFollow_Idempotent(t *testing.T) {
	svc, recorder, catalog := setupSocialService(t)
	ctx := context.Background()

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)
	createTestUser(t, catalog, "usr-2", "bob", domain.RoleMember)

	require.NoError(t, svc.Follow(ctx, alice, "usr-2"))
	require.NoError(t, svc.Follow(ctx, alice, "usr-2"))

	followers, err := svc.Followers(ctx, "usr-2")
	require.NoError(t, err)
	assert.Len(t, followers, 1)

	// Repeat follows stay out of the feed.
	assert.Len(t, recorder.all(), 1)
}

func TestFollow_Self(t *testing.T) {
	svc, _, catalog := setupSocialService(t)

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)

	err := svc.Follow(context.Background(), alice, "usr-1")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestFollow_UnknownTarget(t *testing.T) {
	svc, _, catalog := setupSocialService(t)

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)

	err := svc.Follow(context.Background(), alice, "usr-missing")
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestUnfollow(t *testing.T) {
	svc, recorder, catalog := setupSocialService(t)
	ctx := context.Background()

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)
	createTestUser(t, catalog, "usr-2", "bob", domain.RoleMember)

	require.NoError(t, svc.Follow(ctx, alice, "usr-2"))
	require.NoError(t, svc.Unfollow(ctx, alice, "usr-2"))

	followers, err := svc.Followers(ctx, "usr-2")
	require.NoError(t, err)
	assert.Empty(t, followers)

	activities := recorder.all()
	require.Len(t, activities, 2)
	assert.Equal(t, domain.ActionUnfollow, activities[1].Action)

	// Re-follow after unfollow works.
	require.NoError(t, svc.Follow(ctx, alice, "usr-2"))
	followers, err = svc.Followers(ctx, "usr-2")
	require.NoError(t, err)
	assert.Len(t, followers, 1)
}
