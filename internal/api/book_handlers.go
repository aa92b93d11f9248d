package api

import (
	"encoding/json/v2"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sunlibapp/sunlib-server/internal/http/response"
	"github.com/sunlibapp/sunlib-server/internal/service"
)

// BookRequest represents the request body for creating or updating a book.
type BookRequest struct {
	Name        string   `json:"name" validate:"required,max=256"`
	Description string   `json:"description" validate:"max=8192"`
	ImageURL    string   `json:"image_url" validate:"omitempty,url"`
	CategoryIDs []string `json:"category_ids"`
	Paperback   int      `json:"paperback" validate:"gte=0"`
}

// CreateCategoryRequest represents the request body for creating a category.
type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

func (r BookRequest) toInput() service.BookInput {
	return service.BookInput{
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		CategoryIDs: r.CategoryIDs,
		Paperback:   r.Paperback,
	}
}

// handleCreateBook adds a book to the catalog.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.CreateBook(r.Context(), currentUser(r.Context()), req.toInput())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, book, s.logger)
}

// handleUpdateBook replaces a book's fields.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req BookRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	book, err := s.services.Book.UpdateBook(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleDeleteBook soft-deletes a book.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Book.DeleteBook(r.Context(), currentUser(r.Context()), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.NoContent(w)
}

// handleGetBook returns a single book by ID.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.services.Book.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, book, s.logger)
}

// handleListBooks returns active books. Query parameters narrow the result:
// ?shelf=favorites|reading|read for viewer-relative shelves and
// ?category=<id> for one category.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	query := BookListQueryFromRequest(r)

	books, err := s.services.Book.ListBooks(r.Context(), currentUser(r.Context()), query)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// BookListQueryFromRequest parses listing filters from the query string.
func BookListQueryFromRequest(r *http.Request) service.BookListQuery {
	return service.BookListQuery{
		Shelf:      service.Shelf(r.URL.Query().Get("shelf")),
		CategoryID: r.URL.Query().Get("category"),
	}
}

// handleSearchBooks matches books by name or description.
func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.services.Book.SearchBooks(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, books, s.logger)
}

// handleCreateCategory adds a book category.
func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := json.UnmarshalRead(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}
	if err := s.validator.Validate(req); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	category, err := s.services.Book.CreateCategory(r.Context(), currentUser(r.Context()), req.Name)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Created(w, category, s.logger)
}

// handleListCategories returns all categories.
func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.services.Book.ListCategories(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}
	response.Success(w, categories, s.logger)
}
