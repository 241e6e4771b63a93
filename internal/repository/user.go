package repository

import (
	"context"

	"github.com/nbekov/bookshelf/internal/domain"
)

// Usecases depend on interfaces, not the pgx implementations, so tests
// can inject fakes and the store can be swapped without touching them.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
