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

func setupUserService(t *testing.T) (*UserService, *sqlite.Store) {
	t.Helper()
	catalog := newTestCatalog(t)
	return NewUserService(catalog, testLogger()), catalog
}

func TestCreateUser(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, CreateUserInput{
		Username: "alice",
		Email:    "Alice@Example.COM",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleMember, user.Role)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.True(t, user.Active)

	// Duplicate email is rejected whatever the casing.
	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, store.ErrAlreadyExists)
}

func TestCreateUser_Invalid(t *testing.T) {
	svc, _ := setupUserService(t)
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, CreateUserInput{Username: "", Email: "a@b.com"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "alice", Email: ""})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)

	_, err = svc.CreateUser(ctx, CreateUserInput{Username: "alice", Email: "a@b.com", Role: "superuser"})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestUpdateProfile(t *testing.T) {
	svc, catalog := setupUserService(t)
	ctx := context.Background()

	alice := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)
	bob := createTestUser(t, catalog, "usr-2", "bob", domain.RoleMember)
	admin := createTestUser(t, catalog, "usr-admin", "admin", domain.RoleAdmin)

	updated, err := svc.UpdateProfile(ctx, alice, alice.ID, ProfileInput{
		Username:  "alice",
		Education: "literature",
		Location:  "Porto",
	})
	require.NoError(t, err)
	assert.Equal(t, "literature", updated.Education)
	assert.Equal(t, "Porto", updated.Location)

	// Members cannot edit each other, admins can edit anyone.
	_, err = svc.UpdateProfile(ctx, bob, alice.ID, ProfileInput{Notes: "not yours"})
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.UpdateProfile(ctx, admin, alice.ID, ProfileInput{Username: "alice", Notes: "welcome"})
	assert.NoError(t, err)
}

func TestChangeRole(t *testing.T) {
	svc, catalog := setupUserService(t)
	ctx := context.Background()

	admin := createTestUser(t, catalog, "usr-admin", "admin", domain.RoleAdmin)
	member := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)

	promoted, err := svc.ChangeRole(ctx, admin, member.ID, domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, promoted.Role)

	_, err = svc.ChangeRole(ctx, member, admin.ID, domain.RoleMember)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.ChangeRole(ctx, admin, admin.ID, domain.RoleMember)
	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	_, err = svc.ChangeRole(ctx, admin, member.ID, "librarian")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestDeactivateUser(t *testing.T) {
	svc, catalog := setupUserService(t)
	ctx := context.Background()

	admin := createTestUser(t, catalog, "usr-admin", "admin", domain.RoleAdmin)
	member := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)

	assert.ErrorIs(t, svc.Deactivate(ctx, member, admin.ID), domainerrors.ErrForbidden)
	assert.ErrorIs(t, svc.Deactivate(ctx, admin, admin.ID), domainerrors.ErrConflict)

	require.NoError(t, svc.Deactivate(ctx, admin, member.ID))

	users, err := svc.List(ctx, admin)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, admin.ID, users[0].ID)
}

func TestListUsers_AdminOnly(t *testing.T) {
	svc, catalog := setupUserService(t)
	ctx := context.Background()

	member := createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)

	_, err := svc.List(ctx, member)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)

	_, err = svc.Search(ctx, member, "ali")
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestSearchUsers(t *testing.T) {
	svc, catalog := setupUserService(t)
	ctx := context.Background()

	admin := createTestUser(t, catalog, "usr-admin", "admin", domain.RoleAdmin)
	createTestUser(t, catalog, "usr-1", "alice", domain.RoleMember)
	createTestUser(t, catalog, "usr-2", "alicia", domain.RoleMember)

	users, err := svc.Search(ctx, admin, "alic")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	_, err = svc.Search(ctx, admin, "  ")
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
