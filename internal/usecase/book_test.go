package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/nbekov/bookshelf/internal/domain"
	"github.com/nbekov/bookshelf/internal/repository"
	"github.com/nbekov/bookshelf/internal/usecase"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memBookRepo is an in-memory BookRepository that applies the same
// (bookID, ownerID) filter as the postgres implementation, so the
// ownership-masking behavior can be exercised end to end.
type memBookRepo struct {
	nextID int64
	books  map[int64]*domain.Book
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{nextID: 1, books: make(map[int64]*domain.Book)}
}

func (r *memBookRepo) Create(_ context.Context, book *domain.Book) (*domain.Book, error) {
	b := *book
	b.ID = r.nextID
	r.nextID++
	r.books[b.ID] = &b
	out := b
	return &out, nil
}

func (r *memBookRepo) ListByOwner(_ context.Context, ownerID int64) ([]*domain.Book, error) {
	out := make([]*domain.Book, 0)
	for id := int64(1); id < r.nextID; id++ {
		if b, ok := r.books[id]; ok && b.UserID == ownerID {
			c := *b
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r *memBookRepo) owned(bookID, ownerID int64) (*domain.Book, bool) {
	b, ok := r.books[bookID]
	if !ok || b.UserID != ownerID {
		return nil, false
	}
	return b, true
}

func (r *memBookRepo) GetByID(_ context.Context, bookID, ownerID int64) (*domain.Book, error) {
	b, ok := r.owned(bookID, ownerID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	c := *b
	return &c, nil
}

func (r *memBookRepo) UpdateFields(_ context.Context, bookID, ownerID int64, fields repository.BookUpdate) (*domain.Book, error) {
	b, ok := r.owned(bookID, ownerID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	if fields.Title != nil {
		b.Title = *fields.Title
	}
	if fields.Author != nil {
		b.Author = *fields.Author
	}
	if fields.ISBN != nil {
		b.ISBN = *fields.ISBN
	}
	if fields.ThumbnailURL != nil {
		b.ThumbnailURL = *fields.ThumbnailURL
	}
	c := *b
	return &c, nil
}

func (r *memBookRepo) Delete(_ context.Context, bookID, ownerID int64) (bool, error) {
	if _, ok := r.owned(bookID, ownerID); !ok {
		return false, nil
	}
	delete(r.books, bookID)
	return true, nil
}

func (r *memBookRepo) SetReadingStatus(_ context.Context, bookID, ownerID int64, status domain.ReadingStatus) (*domain.Book, error) {
	b, ok := r.owned(bookID, ownerID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	b.ReadingStatus = status
	c := *b
	return &c, nil
}

func (r *memBookRepo) SetFavorite(_ context.Context, bookID, ownerID int64, favorite bool) (*domain.Book, error) {
	b, ok := r.owned(bookID, ownerID)
	if !ok {
		return nil, domain.ErrBookNotFound
	}
	b.IsFavorite = favorite
	c := *b
	return &c, nil
}

// ---- AddBook ----

func TestAddBook_AssignsServerDefaults(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())

	before := time.Now().UTC()
	book, err := uc.AddBook(context.Background(), 1, usecase.AddBookInput{
		Title:  "Dune",
		Author: "Herbert",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if book.IsFavorite {
		t.Error("new book must not default to favorite")
	}
	if book.ReadingStatus != domain.StatusWantToRead {
		t.Errorf("status = %q, want WantToRead", book.ReadingStatus)
	}
	if book.DateAdded.Before(before) || book.DateAdded.After(time.Now().UTC().Add(time.Second)) {
		t.Errorf("dateAdded = %v, want about now", book.DateAdded)
	}
	if book.UserID != 1 {
		t.Errorf("owner = %d, want 1", book.UserID)
	}
}

func TestAddBook_EmptyTitleOrAuthor_Rejected(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())

	if _, err := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: " ", Author: "Herbert"}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("blank title: want ErrEmptyTitle, got %v", err)
	}
	if _, err := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: ""}); !errors.Is(err, domain.ErrEmptyAuthor) {
		t.Errorf("empty author: want ErrEmptyAuthor, got %v", err)
	}
}

func TestAddBook_RoundTripThroughList(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())

	created, err := uc.AddBook(context.Background(), 1, usecase.AddBookInput{
		Title:        "Dune",
		Author:       "Herbert",
		ISBN:         "9780441172719",
		ThumbnailURL: "https://covers.example/dune.jpg",
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	books, err := uc.ListBooks(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("got %d books, want 1", len(books))
	}
	got := books[0]
	if got.ID != created.ID || got.Title != "Dune" || got.Author != "Herbert" ||
		got.ISBN != "9780441172719" || got.ThumbnailURL != "https://covers.example/dune.jpg" {
		t.Errorf("listed book does not match submitted fields: %+v", got)
	}
}

// ---- ownership masking ----

// A book owned by user A must look nonexistent to user B on every
// mutating path, and must stay unmodified.
func TestForeignOwnedBook_BehavesAsNotFound(t *testing.T) {
	repo := newMemBookRepo()
	uc := usecase.NewBookUsecase(repo)

	book, err := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	const intruder = int64(2)
	newTitle := "Hijacked"

	if _, err := uc.UpdateBook(context.Background(), intruder, book.ID, repository.BookUpdate{Title: &newTitle}); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("update: want ErrBookNotFound, got %v", err)
	}
	if _, err := uc.SetReadingStatus(context.Background(), intruder, book.ID, domain.StatusFinished); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("status: want ErrBookNotFound, got %v", err)
	}
	if _, err := uc.SetFavorite(context.Background(), intruder, book.ID, true); !errors.Is(err, domain.ErrBookNotFound) {
		t.Errorf("favorite: want ErrBookNotFound, got %v", err)
	}
	if deleted, err := uc.DeleteBook(context.Background(), intruder, book.ID); err != nil || deleted {
		t.Errorf("delete: got (%v, %v), want (false, nil)", deleted, err)
	}

	// The actual owner still sees the untouched book.
	books, _ := uc.ListBooks(context.Background(), 1)
	if len(books) != 1 {
		t.Fatalf("owner lost the book: %d books", len(books))
	}
	b := books[0]
	if b.Title != "Dune" || b.ReadingStatus != domain.StatusWantToRead || b.IsFavorite {
		t.Errorf("book was modified by a non-owner: %+v", b)
	}
}

// ---- partial update ----

func TestUpdateBook_PartialUpdate_OnlyChangesGivenFields(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())

	book, _ := uc.AddBook(context.Background(), 1, usecase.AddBookInput{
		Title:  "Dune",
		Author: "Herbert",
		ISBN:   "9780441172719",
	})

	newTitle := "Dune Messiah"
	updated, err := uc.UpdateBook(context.Background(), 1, book.ID, repository.BookUpdate{Title: &newTitle})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Title != "Dune Messiah" {
		t.Errorf("title = %q", updated.Title)
	}
	if updated.Author != "Herbert" || updated.ISBN != "9780441172719" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
}

func TestUpdateBook_PresentButEmptyTitle_Rejected(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())
	book, _ := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})

	empty := ""
	if _, err := uc.UpdateBook(context.Background(), 1, book.ID, repository.BookUpdate{Title: &empty}); !errors.Is(err, domain.ErrEmptyTitle) {
		t.Errorf("want ErrEmptyTitle, got %v", err)
	}
}

// ---- status and favorite ----

func TestSetReadingStatus_UnrecognizedValue_Rejected(t *testing.T) {
	repo := newMemBookRepo()
	uc := usecase.NewBookUsecase(repo)
	book, _ := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})

	_, err := uc.SetReadingStatus(context.Background(), 1, book.ID, domain.ReadingStatus("Devoured"))
	if !errors.Is(err, domain.ErrInvalidReadingStatus) {
		t.Fatalf("want ErrInvalidReadingStatus, got %v", err)
	}

	stored, _ := repo.GetByID(context.Background(), book.ID, 1)
	if stored.ReadingStatus != domain.StatusWantToRead {
		t.Errorf("rejected status leaked into storage: %q", stored.ReadingStatus)
	}
}

func TestSetReadingStatus_AnyTransitionAllowed(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())
	book, _ := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})

	// Free-form annotation: forward, direct skip, and backward moves
	// are all allowed.
	for _, status := range []domain.ReadingStatus{
		domain.StatusFinished,
		domain.StatusReading,
		domain.StatusWantToRead,
		domain.StatusFinished,
	} {
		updated, err := uc.SetReadingStatus(context.Background(), 1, book.ID, status)
		if err != nil {
			t.Fatalf("transition to %q: %v", status, err)
		}
		if updated.ReadingStatus != status {
			t.Errorf("status = %q, want %q", updated.ReadingStatus, status)
		}
	}
}

func TestSetFavorite_Idempotent(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())
	book, _ := uc.AddBook(context.Background(), 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})

	first, err := uc.SetFavorite(context.Background(), 1, book.ID, true)
	if err != nil {
		t.Fatalf("first set: %v", err)
	}
	second, err := uc.SetFavorite(context.Background(), 1, book.ID, true)
	if err != nil {
		t.Fatalf("second set: %v", err)
	}
	if !first.IsFavorite || !second.IsFavorite {
		t.Error("favorite flag not set")
	}
	if *first != *second {
		t.Errorf("repeated SetFavorite changed state: %+v vs %+v", first, second)
	}
}

// ---- lifecycle scenario ----

func TestBookLifecycle_AddFinishDelete(t *testing.T) {
	uc := usecase.NewBookUsecase(newMemBookRepo())
	ctx := context.Background()

	book, err := uc.AddBook(ctx, 1, usecase.AddBookInput{Title: "Dune", Author: "Herbert"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if book.IsFavorite || book.ReadingStatus != domain.StatusWantToRead {
		t.Fatalf("unexpected defaults: %+v", book)
	}

	if _, err := uc.SetReadingStatus(ctx, 1, book.ID, domain.StatusFinished); err != nil {
		t.Fatalf("finish: %v", err)
	}
	books, _ := uc.ListBooks(ctx, 1)
	if len(books) != 1 || books[0].ReadingStatus != domain.StatusFinished {
		t.Fatalf("list after finish: %+v", books)
	}

	deleted, err := uc.DeleteBook(ctx, 1, book.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: (%v, %v)", deleted, err)
	}
	books, _ = uc.ListBooks(ctx, 1)
	if len(books) != 0 {
		t.Fatalf("book still listed after delete: %+v", books)
	}

	deleted, err = uc.DeleteBook(ctx, 1, book.ID)
	if err != nil || deleted {
		t.Errorf("second delete: got (%v, %v), want (false, nil)", deleted, err)
	}
}
