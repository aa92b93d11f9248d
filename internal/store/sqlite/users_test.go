package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

func TestCreateUser_DuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)

	now := time.Now()
	dup := &domain.User{
		ID:        "usr-2",
		Username:  "alice2",
		Email:     "alice@example.com",
		Role:      domain.RoleMember,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.CreateUser(ctx, dup)
	if !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	want := seedUser(t, s, "usr-1", "alice", domain.RoleAdmin)

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Username != want.Username || got.Email != want.Email || got.Role != domain.RoleAdmin {
		t.Errorf("got %+v, want %+v", got, want)
	}

	_, err = s.GetUser(ctx, "usr-missing")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	u.Education = "philosophy"
	u.Location = "Lisbon"
	u.Role = domain.RoleAdmin
	u.UpdatedAt = time.Now()

	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}

	got, err := s.GetUser(ctx, "usr-1")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Education != "philosophy" || got.Location != "Lisbon" || got.Role != domain.RoleAdmin {
		t.Errorf("update not persisted: %+v", got)
	}

	missing := &domain.User{ID: "usr-missing", UpdatedAt: time.Now()}
	if err := s.UpdateUser(ctx, missing); !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestListUsers_ActiveOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "bob", domain.RoleMember)
	seedUser(t, s, "usr-2", "alice", domain.RoleMember)

	inactive := seedUser(t, s, "usr-3", "carol", domain.RoleMember)
	inactive.Active = false
	inactive.UpdatedAt = time.Now()
	if err := s.UpdateUser(ctx, inactive); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	users, err := s.ListUsers(ctx)
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(users))
	}
	// Ordered by username.
	if users[0].Username != "alice" || users[1].Username != "bob" {
		t.Errorf("unexpected order: %s, %s", users[0].Username, users[1].Username)
	}
}

func TestSearchUsers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "usr-1", "alice", domain.RoleMember)
	seedUser(t, s, "usr-2", "alicia", domain.RoleMember)
	seedUser(t, s, "usr-3", "bob", domain.RoleMember)

	users, err := s.SearchUsers(ctx, "alic")
	if err != nil {
		t.Fatalf("search users: %v", err)
	}
	if len(users) != 2 {
		t.Errorf("expected 2 matches, got %d", len(users))
	}

	// Email is searched too.
	users, err = s.SearchUsers(ctx, "bob@example")
	if err != nil {
		t.Fatalf("search users: %v", err)
	}
	if len(users) != 1 || users[0].ID != "usr-3" {
		t.Errorf("expected usr-3 via email, got %+v", users)
	}
}
