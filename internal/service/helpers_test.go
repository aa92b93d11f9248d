package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
)

func newTestCatalog(t *testing.T) *sqlite.Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	catalog, err := sqlite.Open(dbPath, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })
	return catalog
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// captureRecorder collects emitted activities for assertions.
type captureRecorder struct {
	mu       sync.Mutex
	recorded []capturedActivity
}

type capturedActivity struct {
	UserID string
	Action string
	Target domain.ActivityTarget
}

func (r *captureRecorder) Record(_ context.Context, actor *domain.User, action string, target domain.ActivityTarget) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, capturedActivity{
		UserID: actor.ID,
		Action: action,
		Target: target,
	})
}

func (r *captureRecorder) all() []capturedActivity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]capturedActivity(nil), r.recorded...)
}

func createTestUser(t *testing.T, catalog *sqlite.Store, id, username string, role domain.Role) *domain.User {
	t.Helper()
	now := time.Now()
	user := &domain.User{
		ID:        id,
		Username:  username,
		Email:     username + "@test.com",
		Role:      role,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, catalog.CreateUser(context.Background(), user))
	return user
}

func createTestBook(t *testing.T, catalog *sqlite.Store, id, name string, paperback int) *domain.Book {
	t.Helper()
	now := time.Now()
	book := &domain.Book{
		ID:        id,
		Name:      name,
		Paperback: paperback,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, catalog.CreateBook(context.Background(), book))
	return book
}
