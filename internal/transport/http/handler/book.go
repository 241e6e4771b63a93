package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbekov/bookshelf/internal/domain"
	"github.com/nbekov/bookshelf/internal/metrics"
	"github.com/nbekov/bookshelf/internal/repository"
	"github.com/nbekov/bookshelf/internal/transport/http/middleware"
	"github.com/nbekov/bookshelf/internal/usecase"
)

type bookUsecaser interface {
	AddBook(ctx context.Context, ownerID int64, input usecase.AddBookInput) (*domain.Book, error)
	ListBooks(ctx context.Context, ownerID int64) ([]*domain.Book, error)
	UpdateBook(ctx context.Context, ownerID, bookID int64, fields repository.BookUpdate) (*domain.Book, error)
	DeleteBook(ctx context.Context, ownerID, bookID int64) (bool, error)
	SetReadingStatus(ctx context.Context, ownerID, bookID int64, status domain.ReadingStatus) (*domain.Book, error)
	SetFavorite(ctx context.Context, ownerID, bookID int64, favorite bool) (*domain.Book, error)
}

type catalogSearcher interface {
	Search(ctx context.Context, query string) ([]domain.CatalogItem, error)
}

type BookHandler struct {
	bookUsecase bookUsecaser
	catalog     catalogSearcher
	logger      *slog.Logger
}

func NewBookHandler(bookUsecase bookUsecaser, catalog catalogSearcher, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		bookUsecase: bookUsecase,
		catalog:     catalog,
		logger:      logger.With("component", "book_handler"),
	}
}

type addBookRequest struct {
	Title        string `json:"title"  binding:"required"`
	Author       string `json:"author" binding:"required"`
	ISBN         string `json:"isbn"`
	ThumbnailURL string `json:"thumbnailUrl" binding:"omitempty,url"`
}

type updateBookRequest struct {
	Title        *string `json:"title"`
	Author       *string `json:"author"`
	ISBN         *string `json:"isbn"`
	ThumbnailURL *string `json:"thumbnailUrl"`
}

type readingStatusRequest struct {
	ReadingStatus string `json:"readingStatus" binding:"required"`
}

type favoriteRequest struct {
	IsFavorite *bool `json:"isFavorite" binding:"required"`
}

type bookResponse struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	ISBN          string    `json:"isbn,omitempty"`
	ThumbnailURL  string    `json:"thumbnailUrl,omitempty"`
	IsFavorite    bool      `json:"isFavorite"`
	ReadingStatus string    `json:"readingStatus"`
	DateAdded     time.Time `json:"dateAdded"`
}

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		ThumbnailURL:  b.ThumbnailURL,
		IsFavorite:    b.IsFavorite,
		ReadingStatus: string(b.ReadingStatus),
		DateAdded:     b.DateAdded,
	}
}

// GET /books/search?query=
// Public: proxies the external catalog, no auth required.
func (h *BookHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"Message": errQueryRequired})
		return
	}

	start := time.Now()
	items, err := h.catalog.Search(c.Request.Context(), query)
	metrics.CatalogSearchDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			metrics.CatalogSearchesTotal.WithLabelValues("unavailable").Inc()
			c.JSON(http.StatusBadGateway, gin.H{"Message": errSearchUnavailable})
			return
		}
		metrics.CatalogSearchesTotal.WithLabelValues("error").Inc()
		h.logger.ErrorContext(c.Request.Context(), "catalog search", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": errInternalServer})
		return
	}

	metrics.CatalogSearchesTotal.WithLabelValues("success").Inc()
	c.JSON(http.StatusOK, items)
}

// POST /books
func (h *BookHandler) Add(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}

	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
		return
	}

	book, err := h.bookUsecase.AddBook(c.Request.Context(), userID, usecase.AddBookInput{
		Title:        req.Title,
		Author:       req.Author,
		ISBN:         req.ISBN,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmptyTitle) || errors.Is(err, domain.ErrEmptyAuthor) {
			c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "add book", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Book added successfully", "Id": book.ID})
}

// GET /books
func (h *BookHandler) List(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}

	books, err := h.bookUsecase.ListBooks(c.Request.Context(), userID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list books", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": errInternalServer})
		return
	}

	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, toBookResponse(b))
	}
	c.JSON(http.StatusOK, out)
}

// PUT /books/:id
func (h *BookHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}
	bookID, err := parseBookID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
		return
	}

	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
		return
	}

	book, err := h.bookUsecase.UpdateBook(c.Request.Context(), userID, bookID, repository.BookUpdate{
		Title:        req.Title,
		Author:       req.Author,
		ISBN:         req.ISBN,
		ThumbnailURL: req.ThumbnailURL,
	})
	if err != nil {
		h.writeBookError(c, err, "update book")
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Book updated successfully", "book": toBookResponse(book)})
}

// DELETE /books/:id
func (h *BookHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}
	bookID, err := parseBookID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
		return
	}

	deleted, err := h.bookUsecase.DeleteBook(c.Request.Context(), userID, bookID)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "delete book", "book_id", bookID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": errInternalServer})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Book deleted successfully"})
}

// PATCH /books/:id/reading-status
func (h *BookHandler) UpdateReadingStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}
	bookID, err := parseBookID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
		return
	}

	var req readingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
		return
	}

	book, err := h.bookUsecase.SetReadingStatus(c.Request.Context(), userID, bookID,
		domain.ReadingStatus(req.ReadingStatus))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidReadingStatus) {
			c.JSON(http.StatusBadRequest, gin.H{"Message": errInvalidStatus})
			return
		}
		h.writeBookError(c, err, "update reading status")
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Reading status updated successfully", "book": toBookResponse(book)})
}

// PATCH /books/:id/favorite
func (h *BookHandler) UpdateFavorite(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"Message": "Invalid user authentication"})
		return
	}
	bookID, err := parseBookID(c)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
		return
	}

	var req favoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
		return
	}

	book, err := h.bookUsecase.SetFavorite(c.Request.Context(), userID, bookID, *req.IsFavorite)
	if err != nil {
		h.writeBookError(c, err, "update favorite")
		return
	}

	c.JSON(http.StatusOK, gin.H{"Message": "Favorite status updated successfully", "book": toBookResponse(book)})
}

// writeBookError maps usecase errors for the single-book routes. A book
// owned by another user surfaces as the same 404 as a missing one.
func (h *BookHandler) writeBookError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, domain.ErrBookNotFound):
		c.JSON(http.StatusNotFound, gin.H{"Message": errBookNotFound})
	case errors.Is(err, domain.ErrEmptyTitle), errors.Is(err, domain.ErrEmptyAuthor):
		c.JSON(http.StatusBadRequest, gin.H{"Message": err.Error()})
	default:
		h.logger.ErrorContext(c.Request.Context(), op, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"Message": errInternalServer})
	}
}

func parseBookID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
