package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

func seedCategory(t *testing.T, s *Store, id, name string) *domain.BookCategory {
	t.Helper()
	c := &domain.BookCategory{ID: id, Name: name}
	if err := s.CreateCategory(context.Background(), c); err != nil {
		t.Fatalf("create category %s: %v", id, err)
	}
	return c
}

func TestCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedCategory(t, s, "cat-1", "Novels")
	seedCategory(t, s, "cat-2", "Essays")

	got, err := s.GetCategory(ctx, "cat-1")
	if err != nil {
		t.Fatalf("get category: %v", err)
	}
	if got.Name != "Novels" {
		t.Errorf("expected Novels, got %s", got.Name)
	}

	if _, err := s.GetCategory(ctx, "cat-missing"); !errors.Is(err, store.ErrCategoryNotFound) {
		t.Errorf("expected ErrCategoryNotFound, got %v", err)
	}

	cats, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	// Ordered by name.
	if cats[0].Name != "Essays" || cats[1].Name != "Novels" {
		t.Errorf("unexpected order: %s, %s", cats[0].Name, cats[1].Name)
	}

	dup := &domain.BookCategory{ID: "cat-3", Name: "Novels"}
	if err := s.CreateCategory(ctx, dup); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists for duplicate name, got %v", err)
	}
}

func TestCreateBook_CategoryLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedCategory(t, s, "cat-1", "Novels")
	seedCategory(t, s, "cat-2", "Essays")

	now := time.Now()
	b := &domain.Book{
		ID:          "book-1",
		Name:        "The Magic Mountain",
		Description: "A novel of ideas",
		CategoryIDs: []string{"cat-1", "cat-2"},
		Paperback:   720,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("create book: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if got.Name != b.Name || got.Paperback != 720 {
		t.Errorf("got %+v", got)
	}
	if len(got.CategoryIDs) != 2 {
		t.Errorf("expected 2 category links, got %v", got.CategoryIDs)
	}
}

func TestUpdateBook_ReplacesLinks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedCategory(t, s, "cat-1", "Novels")
	seedCategory(t, s, "cat-2", "Essays")

	b := seedBook(t, s, "book-1", "Essays One", 200)
	b.CategoryIDs = []string{"cat-1"}
	b.UpdatedAt = time.Now()
	if err := s.UpdateBook(ctx, b); err != nil {
		t.Fatalf("update book: %v", err)
	}

	b.CategoryIDs = []string{"cat-2"}
	b.UpdatedAt = time.Now()
	if err := s.UpdateBook(ctx, b); err != nil {
		t.Fatalf("second update: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("get book: %v", err)
	}
	if len(got.CategoryIDs) != 1 || got.CategoryIDs[0] != "cat-2" {
		t.Errorf("expected links replaced with cat-2, got %v", got.CategoryIDs)
	}

	missing := &domain.Book{ID: "book-missing", UpdatedAt: time.Now()}
	if err := s.UpdateBook(ctx, missing); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestSoftDeleteBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedBook(t, s, "book-1", "Old Edition", 100)

	if err := s.SoftDeleteBook(ctx, "book-1", time.Now()); err != nil {
		t.Fatalf("soft delete: %v", err)
	}

	// Record survives but drops out of listings.
	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("get book after delete: %v", err)
	}
	if got.Active {
		t.Error("expected book inactive after soft delete")
	}

	books, err := s.ListBooks(ctx, BookListFilter{})
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected no active books, got %d", len(books))
	}

	if err := s.SoftDeleteBook(ctx, "book-missing", time.Now()); !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestListBooks_Filters(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	seedCategory(t, s, "cat-1", "Novels")

	seedBook(t, s, "book-1", "First", 100)
	b2 := seedBook(t, s, "book-2", "Second", 200)
	seedBook(t, s, "book-3", "Third", 300)

	b2.CategoryIDs = []string{"cat-1"}
	b2.UpdatedAt = time.Now()
	if err := s.UpdateBook(ctx, b2); err != nil {
		t.Fatalf("update book: %v", err)
	}

	// No filter returns everything active.
	books, err := s.ListBooks(ctx, BookListFilter{})
	if err != nil {
		t.Fatalf("list books: %v", err)
	}
	if len(books) != 3 {
		t.Errorf("expected 3 books, got %d", len(books))
	}

	// ID filter.
	books, err = s.ListBooks(ctx, BookListFilter{IDs: []string{"book-1", "book-3"}})
	if err != nil {
		t.Fatalf("list by IDs: %v", err)
	}
	if len(books) != 2 {
		t.Errorf("expected 2 books, got %d", len(books))
	}

	// Non-nil empty slice means no matches, not no filter.
	books, err = s.ListBooks(ctx, BookListFilter{IDs: []string{}})
	if err != nil {
		t.Fatalf("list by empty IDs: %v", err)
	}
	if len(books) != 0 {
		t.Errorf("expected 0 books for empty ID set, got %d", len(books))
	}

	// Category filter.
	books, err = s.ListBooks(ctx, BookListFilter{CategoryID: "cat-1"})
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(books) != 1 || books[0].ID != "book-2" {
		t.Errorf("expected book-2 only, got %+v", books)
	}
}

func TestSearchBooks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	now := time.Now()
	b := &domain.Book{
		ID:          "book-1",
		Name:        "Walden",
		Description: "Life in the woods",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.CreateBook(ctx, b); err != nil {
		t.Fatalf("create book: %v", err)
	}
	seedBook(t, s, "book-2", "Moby Dick", 600)

	books, err := s.SearchBooks(ctx, "woods")
	if err != nil {
		t.Fatalf("search by description: %v", err)
	}
	if len(books) != 1 || books[0].ID != "book-1" {
		t.Errorf("expected book-1 via description, got %+v", books)
	}

	books, err = s.SearchBooks(ctx, "moby")
	if err != nil {
		t.Fatalf("search by name: %v", err)
	}
	if len(books) != 1 || books[0].ID != "book-2" {
		t.Errorf("expected book-2 via name, got %+v", books)
	}
}
