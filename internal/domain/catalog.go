package domain

import "errors"

// ErrCatalogUnavailable is returned when the external book catalog
// errored or timed out. Surfaced as 502, distinct from internal errors.
var ErrCatalogUnavailable = errors.New("book catalog is unavailable")

// CatalogItem is a normalized search result from the external catalog.
type CatalogItem struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	Description   string   `json:"description,omitempty"`
	PublishedDate string   `json:"publishedDate,omitempty"`
	PageCount     int      `json:"pageCount"`
	Categories    []string `json:"categories"`
	Language      string   `json:"language"`
	ISBN          string   `json:"isbn,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	PreviewLink   string   `json:"previewLink,omitempty"`
	InfoLink      string   `json:"infoLink,omitempty"`
	AverageRating float64  `json:"averageRating"`
	RatingsCount  int      `json:"ratingsCount"`
	Publisher     string   `json:"publisher,omitempty"`
}
