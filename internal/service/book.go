package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	domainerrors "github.com/sunlibapp/sunlib-server/internal/errors"
	"github.com/sunlibapp/sunlib-server/internal/id"
	"github.com/sunlibapp/sunlib-server/internal/store/sqlite"
	"github.com/sunlibapp/sunlib-server/internal/util"
)

// Shelf is a reader-relative view over the catalog.
type Shelf string

const (
	ShelfFavorites Shelf = "favorites"
	ShelfReading   Shelf = "reading"
	ShelfRead      Shelf = "read"
)

// Valid checks if the shelf is a known value.
func (s Shelf) Valid() bool {
	switch s {
	case ShelfFavorites, ShelfReading, ShelfRead:
		return true
	default:
		return false
	}
}

// BookService manages the catalog: books, categories and shelf views.
// Catalog writes are admin-only.
type BookService struct {
	catalog *sqlite.Store
	logger  *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(catalog *sqlite.Store, logger *slog.Logger) *BookService {
	return &BookService{
		catalog: catalog,
		logger:  logger,
	}
}

// BookInput carries the writable fields of a book.
type BookInput struct {
	Name        string
	Description string
	ImageURL    string
	CategoryIDs []string
	Paperback   int
}

// CreateBook adds a book to the catalog. Admin only.
func (s *BookService) CreateBook(ctx context.Context, actor *domain.User, input BookInput) (*domain.Book, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can manage the catalog")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now()
	book := &domain.Book{
		ID:          bookID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		CategoryIDs: input.CategoryIDs,
		Paperback:   input.Paperback,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.catalog.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("book created", "book_id", book.ID, "name", book.Name, "by", actor.ID)
	return book, nil
}

// UpdateBook replaces a book's writable fields and category links. Admin only.
func (s *BookService) UpdateBook(ctx context.Context, actor *domain.User, bookID string, input BookInput) (*domain.Book, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can manage the catalog")
	}
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	book, err := s.catalog.GetBook(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("get book: %w", err)
	}

	book.Name = strings.TrimSpace(input.Name)
	book.Description = input.Description
	book.ImageURL = input.ImageURL
	book.CategoryIDs = input.CategoryIDs
	book.Paperback = input.Paperback
	book.UpdatedAt = time.Now()

	if err := s.catalog.UpdateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("update book: %w", err)
	}

	return book, nil
}

// DeleteBook soft-deletes a book: it drops out of listings but engagement
// records pointing at it survive. Admin only.
func (s *BookService) DeleteBook(ctx context.Context, actor *domain.User, bookID string) error {
	if !actor.IsAdmin() {
		return domainerrors.Forbidden("only admins can manage the catalog")
	}
	if err := s.catalog.SoftDeleteBook(ctx, bookID, time.Now()); err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	s.logger.Info("book deleted", "book_id", bookID, "by", actor.ID)
	return nil
}

// GetBook retrieves one book by ID.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	return s.catalog.GetBook(ctx, bookID)
}

// BookListQuery narrows a catalog listing.
type BookListQuery struct {
	// Shelf restricts books to the viewer's favorites or read state.
	Shelf Shelf
	// CategoryID restricts books to one category.
	CategoryID string
}

// ListBooks returns active books, optionally narrowed to a category or to a
// viewer-relative shelf.
func (s *BookService) ListBooks(ctx context.Context, viewer *domain.User, query BookListQuery) ([]*domain.Book, error) {
	filter := sqlite.BookListFilter{CategoryID: query.CategoryID}

	if query.Shelf != "" {
		if !query.Shelf.Valid() {
			return nil, domainerrors.Validationf("unknown shelf %q", query.Shelf)
		}
		ids, err := s.shelfBookIDs(ctx, viewer.ID, query.Shelf)
		if err != nil {
			return nil, err
		}
		filter.IDs = ids
	}

	return s.catalog.ListBooks(ctx, filter)
}

// SearchBooks matches active books by name or description.
func (s *BookService) SearchBooks(ctx context.Context, q string) ([]*domain.Book, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domainerrors.Validation("search query must not be empty")
	}
	return s.catalog.SearchBooks(ctx, q)
}

// CreateCategory adds a book category. Admin only.
func (s *BookService) CreateCategory(ctx context.Context, actor *domain.User, name string) (*domain.BookCategory, error) {
	if !actor.IsAdmin() {
		return nil, domainerrors.Forbidden("only admins can manage the catalog")
	}
	name = strings.TrimSpace(name)
	slug := util.NormalizeCategorySlug(name)
	if slug == "" {
		return nil, domainerrors.Validation("category name must not be empty")
	}

	// Names that normalize to the same slug are the same category.
	existing, err := s.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	for _, c := range existing {
		if util.NormalizeCategorySlug(c.Name) == slug {
			return nil, domainerrors.Conflictf("category %q already exists as %q", name, c.Name)
		}
	}

	categoryID, err := id.Generate("cat")
	if err != nil {
		return nil, fmt.Errorf("generate category ID: %w", err)
	}

	category := &domain.BookCategory{ID: categoryID, Name: name}
	if err := s.catalog.CreateCategory(ctx, category); err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return category, nil
}

// ListCategories returns all categories.
func (s *BookService) ListCategories(ctx context.Context) ([]*domain.BookCategory, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *BookService) validateInput(ctx context.Context, input BookInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domainerrors.Validation("book name must not be empty")
	}
	if input.Paperback < 0 {
		return domainerrors.Validation("paperback page count must not be negative")
	}
	for _, categoryID := range input.CategoryIDs {
		if _, err := s.catalog.GetCategory(ctx, categoryID); err != nil {
			return fmt.Errorf("get category %s: %w", categoryID, err)
		}
	}
	return nil
}

// shelfBookIDs resolves a shelf to the set of book IDs on it. The result is
// never nil so an empty shelf lists no books instead of every book.
func (s *BookService) shelfBookIDs(ctx context.Context, userID string, shelf Shelf) ([]string, error) {
	var filter sqlite.EngagementFilter
	switch shelf {
	case ShelfFavorites:
		filter.FavoritesOnly = true
	case ShelfReading:
		filter.Statuses = []domain.ReadStatus{domain.ReadStatusReading}
	case ShelfRead:
		filter.Statuses = []domain.ReadStatus{domain.ReadStatusRead}
	}

	records, err := s.catalog.ListEngagementsByUser(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("list engagements: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.BookID)
	}
	return ids, nil
}
