// seed inserts a test user and a small book collection into the local
// dev database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/nbekov/bookshelf/internal/domain"
	"github.com/nbekov/bookshelf/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "password123"
)

type bookSpec struct {
	title    string
	author   string
	isbn     string
	status   domain.ReadingStatus
	favorite bool
	agedDays int
}

var books = []bookSpec{
	// Finished reads, spread over the last few months so the insight
	// rules have something to chew on.
	{"Dune", "Frank Herbert", "9780441172719", domain.StatusFinished, true, 120},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "9780441478125", domain.StatusFinished, true, 90},
	{"Neuromancer", "William Gibson", "9780441569595", domain.StatusFinished, false, 60},
	{"Snow Crash", "Neal Stephenson", "9780553380958", domain.StatusFinished, false, 30},

	// In progress
	{"The Dispossessed", "Ursula K. Le Guin", "9780061054884", domain.StatusReading, false, 14},
	{"Hyperion", "Dan Simmons", "9780553283686", domain.StatusReading, false, 7},

	// Backlog
	{"A Fire Upon the Deep", "Vernor Vinge", "", domain.StatusWantToRead, false, 5},
	{"Blindsight", "Peter Watts", "", domain.StatusWantToRead, false, 3},
	{"The Book of the New Sun", "Gene Wolfe", "", domain.StatusWantToRead, false, 1},
}

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := postgres.NewUserRepository(pool)
	user, err := users.Create(ctx, &domain.User{
		Username:     "seed",
		Email:        seedEmail,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Fatalf("create seed user: %v", err)
	}
	fmt.Printf("created user %d (%s / %s)\n", user.ID, seedEmail, seedPassword)

	repo := postgres.NewBookRepository(pool)
	for _, spec := range books {
		b, err := repo.Create(ctx, &domain.Book{
			UserID:        user.ID,
			Title:         spec.title,
			Author:        spec.author,
			ISBN:          spec.isbn,
			IsFavorite:    spec.favorite,
			ReadingStatus: spec.status,
			DateAdded:     time.Now().UTC().AddDate(0, 0, -spec.agedDays),
		})
		if err != nil {
			log.Fatalf("create book %q: %v", spec.title, err)
		}
		fmt.Printf("created book %d: %s\n", b.ID, b.Title)
	}
}
