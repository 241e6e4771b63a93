package domain

import (
	"errors"
	"time"
)

var (
	ErrBookNotFound         = errors.New("book not found")
	ErrInvalidReadingStatus = errors.New("invalid reading status")
	ErrEmptyTitle           = errors.New("title must not be empty")
	ErrEmptyAuthor          = errors.New("author must not be empty")
)

type ReadingStatus string

const (
	StatusWantToRead ReadingStatus = "WantToRead"
	StatusReading    ReadingStatus = "Reading"
	StatusFinished   ReadingStatus = "Finished"
)

// Valid reports whether s is one of the three recognized statuses.
// Unrecognized values are rejected at the usecase layer rather than
// stored verbatim.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

type Book struct {
	ID            int64
	UserID        int64
	Title         string
	Author        string
	ISBN          string
	ThumbnailURL  string
	IsFavorite    bool
	ReadingStatus ReadingStatus
	DateAdded     time.Time
}
