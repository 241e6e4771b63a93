package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nbekov/bookshelf/internal/domain"
	"github.com/nbekov/bookshelf/internal/repository"
)

type BookUsecase struct {
	repo repository.BookRepository
}

func NewBookUsecase(repo repository.BookRepository) *BookUsecase {
	return &BookUsecase{repo: repo}
}

type AddBookInput struct {
	Title        string
	Author       string
	ISBN         string
	ThumbnailURL string
}

// AddBook persists a new book for ownerID with server-assigned
// defaults: not a favorite, WantToRead, dateAdded from the server
// clock. The client never supplies any of the three.
func (u *BookUsecase) AddBook(ctx context.Context, ownerID int64, input AddBookInput) (*domain.Book, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if strings.TrimSpace(input.Author) == "" {
		return nil, domain.ErrEmptyAuthor
	}

	book := &domain.Book{
		UserID:        ownerID,
		Title:         input.Title,
		Author:        input.Author,
		ISBN:          input.ISBN,
		ThumbnailURL:  input.ThumbnailURL,
		IsFavorite:    false,
		ReadingStatus: domain.StatusWantToRead,
		DateAdded:     time.Now().UTC(),
	}

	created, err := u.repo.Create(ctx, book)
	if err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}
	return created, nil
}

func (u *BookUsecase) ListBooks(ctx context.Context, ownerID int64) ([]*domain.Book, error) {
	books, err := u.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// UpdateBook merges the present fields into the stored book under the
// (bookID, ownerID) filter. A present-but-empty title or author is
// rejected; empty isbn/thumbnail clears the field.
func (u *BookUsecase) UpdateBook(ctx context.Context, ownerID, bookID int64, fields repository.BookUpdate) (*domain.Book, error) {
	if fields.Title != nil && strings.TrimSpace(*fields.Title) == "" {
		return nil, domain.ErrEmptyTitle
	}
	if fields.Author != nil && strings.TrimSpace(*fields.Author) == "" {
		return nil, domain.ErrEmptyAuthor
	}

	return u.repo.UpdateFields(ctx, bookID, ownerID, fields)
}

// DeleteBook reports false, not an error, when no matching row exists.
func (u *BookUsecase) DeleteBook(ctx context.Context, ownerID, bookID int64) (bool, error) {
	return u.repo.Delete(ctx, bookID, ownerID)
}

func (u *BookUsecase) SetReadingStatus(ctx context.Context, ownerID, bookID int64, status domain.ReadingStatus) (*domain.Book, error) {
	if !status.Valid() {
		return nil, domain.ErrInvalidReadingStatus
	}
	return u.repo.SetReadingStatus(ctx, bookID, ownerID, status)
}

func (u *BookUsecase) SetFavorite(ctx context.Context, ownerID, bookID int64, favorite bool) (*domain.Book, error) {
	return u.repo.SetFavorite(ctx, bookID, ownerID, favorite)
}
