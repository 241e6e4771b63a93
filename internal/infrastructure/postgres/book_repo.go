package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nbekov/bookshelf/internal/domain"
	"github.com/nbekov/bookshelf/internal/repository"
)

const bookColumns = `id, user_id, title, author, isbn, thumbnail_url,
	       is_favorite, reading_status, date_added`

type BookRepository struct {
	pool *pgxpool.Pool
}

func NewBookRepository(pool *pgxpool.Pool) *BookRepository {
	return &BookRepository{pool: pool}
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	query := `
		INSERT INTO books (user_id, title, author, isbn, thumbnail_url,
		                   is_favorite, reading_status, date_added)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query,
		book.UserID,
		book.Title,
		book.Author,
		book.ISBN,
		book.ThumbnailURL,
		book.IsFavorite,
		book.ReadingStatus,
		book.DateAdded,
	)
	return scanBook(row)
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*domain.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE user_id = $1
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	books := make([]*domain.Book, 0)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) GetByID(ctx context.Context, bookID, ownerID int64) (*domain.Book, error) {
	query := `
		SELECT ` + bookColumns + `
		FROM books
		WHERE id = $1 AND user_id = $2`

	return scanBook(r.pool.QueryRow(ctx, query, bookID, ownerID))
}

// UpdateFields applies a partial update in a single statement. COALESCE
// keeps the stored value for every nil field, so the ownership filter
// and the field merge happen atomically with no read-modify-write gap.
func (r *BookRepository) UpdateFields(ctx context.Context, bookID, ownerID int64, fields repository.BookUpdate) (*domain.Book, error) {
	query := `
		UPDATE books
		SET    title         = COALESCE($3, title),
		       author        = COALESCE($4, author),
		       isbn          = COALESCE($5, isbn),
		       thumbnail_url = COALESCE($6, thumbnail_url)
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookColumns

	row := r.pool.QueryRow(ctx, query, bookID, ownerID,
		fields.Title, fields.Author, fields.ISBN, fields.ThumbnailURL)
	return scanBook(row)
}

func (r *BookRepository) Delete(ctx context.Context, bookID, ownerID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM books WHERE id = $1 AND user_id = $2`, bookID, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete book: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *BookRepository) SetReadingStatus(ctx context.Context, bookID, ownerID int64, status domain.ReadingStatus) (*domain.Book, error) {
	query := `
		UPDATE books
		SET    reading_status = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookColumns

	return scanBook(r.pool.QueryRow(ctx, query, bookID, ownerID, status))
}

func (r *BookRepository) SetFavorite(ctx context.Context, bookID, ownerID int64, favorite bool) (*domain.Book, error) {
	query := `
		UPDATE books
		SET    is_favorite = $3
		WHERE id = $1 AND user_id = $2
		RETURNING ` + bookColumns

	return scanBook(r.pool.QueryRow(ctx, query, bookID, ownerID, favorite))
}

func scanBook(row pgx.Row) (*domain.Book, error) {
	var b domain.Book
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Author,
		&b.ISBN,
		&b.ThumbnailURL,
		&b.IsFavorite,
		&b.ReadingStatus,
		&b.DateAdded,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookNotFound
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	return &b, nil
}
