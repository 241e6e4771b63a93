package repository

import (
	"context"

	"github.com/nbekov/bookshelf/internal/domain"
)

// BookUpdate carries the optional fields of a partial update. A nil
// field leaves the stored value unchanged (COALESCE in the query), so
// "didn't touch" and "set to empty" stay distinguishable.
type BookUpdate struct {
	Title        *string
	Author       *string
	ISBN         *string
	ThumbnailURL *string
}

// Every read, update and delete is keyed by (bookID, ownerID) in the
// query itself. A book owned by someone else is indistinguishable from
// a missing one: both return domain.ErrBookNotFound.
type BookRepository interface {
	Create(ctx context.Context, book *domain.Book) (*domain.Book, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Book, error)
	GetByID(ctx context.Context, bookID, ownerID int64) (*domain.Book, error)
	UpdateFields(ctx context.Context, bookID, ownerID int64, fields BookUpdate) (*domain.Book, error)
	Delete(ctx context.Context, bookID, ownerID int64) (bool, error)
	SetReadingStatus(ctx context.Context, bookID, ownerID int64, status domain.ReadingStatus) (*domain.Book, error)
	SetFavorite(ctx context.Context, bookID, ownerID int64, favorite bool) (*domain.Book, error)
}
