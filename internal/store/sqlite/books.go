package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sunlibapp/sunlib-server/internal/domain"
	"github.com/sunlibapp/sunlib-server/internal/store"
)

const bookColumns = `id, name, description, image_url, paperback, active, created_at, updated_at`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
// Category links are loaded separately.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		active    int
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&b.ID,
		&b.Name,
		&b.Description,
		&b.ImageURL,
		&b.Paperback,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	b.Active = active != 0

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &b, nil
}

// CreateCategory inserts a new book category.
func (s *Store) CreateCategory(ctx context.Context, c *domain.BookCategory) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO book_categories (id, name) VALUES (?, ?)`, c.ID, c.Name)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists.WithMessage("category name already exists")
	}
	return err
}

// ListCategories returns all categories ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]*domain.BookCategory, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name FROM book_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []*domain.BookCategory{}
	for rows.Next() {
		var c domain.BookCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.BookCategory, error) {
	var c domain.BookCategory
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name FROM book_categories WHERE id = ?`, id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrCategoryNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateBook inserts a book and its category links in one transaction.
func (s *Store) CreateBook(ctx context.Context, b *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO books (id, name, description, image_url, paperback, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID,
		b.Name,
		b.Description,
		b.ImageURL,
		b.Paperback,
		boolToInt(b.Active),
		formatTime(b.CreatedAt),
		formatTime(b.UpdatedAt),
	)
	if err != nil {
		return err
	}

	if err := replaceCategoryLinks(ctx, tx, b.ID, b.CategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// UpdateBook persists book fields and replaces category links.
func (s *Store) UpdateBook(ctx context.Context, b *domain.Book) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE books
		SET name = ?, description = ?, image_url = ?, paperback = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		b.Name,
		b.Description,
		b.ImageURL,
		b.Paperback,
		boolToInt(b.Active),
		formatTime(b.UpdatedAt),
		b.ID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrBookNotFound
	}

	if err := replaceCategoryLinks(ctx, tx, b.ID, b.CategoryIDs); err != nil {
		return err
	}

	return tx.Commit()
}

// SoftDeleteBook flips the active flag off. Books are never hard-deleted.
func (s *Store) SoftDeleteBook(ctx context.Context, id string, updatedAt time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE books SET active = 0, updated_at = ? WHERE id = ?`, formatTime(updatedAt), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return store.ErrBookNotFound
	}
	return nil
}

// GetBook retrieves a book by ID with its category links.
// Returns store.ErrBookNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.loadCategoryLinks(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// BookListFilter narrows ListBooks results.
type BookListFilter struct {
	// IDs restricts results to the given book IDs when non-nil.
	// A non-nil empty slice yields no results.
	IDs []string
	// CategoryID restricts results to books linked to the category.
	CategoryID string
}

// ListBooks returns active books ordered by most recently updated,
// optionally narrowed by filter.
func (s *Store) ListBooks(ctx context.Context, filter BookListFilter) ([]*domain.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books WHERE active = 1`
	var args []any

	if filter.IDs != nil {
		if len(filter.IDs) == 0 {
			return []*domain.Book{}, nil
		}
		query += ` AND id IN (?` + strings.Repeat(",?", len(filter.IDs)-1) + `)`
		for _, id := range filter.IDs {
			args = append(args, id)
		}
	}

	if filter.CategoryID != "" {
		query += ` AND id IN (SELECT book_id FROM book_category_links WHERE category_id = ?)`
		args = append(args, filter.CategoryID)
	}

	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectBooks(ctx, rows)
}

// SearchBooks matches active books by name or description using the
// relational store's text matching.
func (s *Store) SearchBooks(ctx context.Context, q string) ([]*domain.Book, error) {
	pattern := "%" + q + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookColumns+` FROM books
		WHERE active = 1 AND (name LIKE ? OR description LIKE ?)
		ORDER BY updated_at DESC`,
		pattern, pattern)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectBooks(ctx, rows)
}

func (s *Store) collectBooks(ctx context.Context, rows *sql.Rows) ([]*domain.Book, error) {
	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, b := range books {
		if err := s.loadCategoryLinks(ctx, b); err != nil {
			return nil, err
		}
	}
	return books, nil
}

func (s *Store) loadCategoryLinks(ctx context.Context, b *domain.Book) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category_id FROM book_category_links WHERE book_id = ? ORDER BY category_id`, b.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	b.CategoryIDs = nil
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		b.CategoryIDs = append(b.CategoryIDs, id)
	}
	return rows.Err()
}

func replaceCategoryLinks(ctx context.Context, tx *sql.Tx, bookID string, categoryIDs []string) error {
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM book_category_links WHERE book_id = ?`, bookID); err != nil {
		return err
	}
	for _, categoryID := range categoryIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO book_category_links (book_id, category_id) VALUES (?, ?)`,
			bookID, categoryID); err != nil {
			return err
		}
	}
	return nil
}
