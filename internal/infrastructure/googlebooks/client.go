package googlebooks

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/nbekov/bookshelf/internal/domain"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"
	requestTimeout = 10 * time.Second
)

// Client queries the Google Books volumes API and normalizes results.
// A hung upstream must never hang the caller: every request carries
// both the client timeout and the inbound request context.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	apiKey      string
	logger      *slog.Logger
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// Google Books allows ~100 requests per minute per key.
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 10),
		baseURL:     baseURL,
		apiKey:      apiKey,
		logger:      logger.With("component", "googlebooks"),
	}
}

// Search returns normalized catalog items for a free-text query.
// Transport and upstream failures are folded into
// domain.ErrCatalogUnavailable so the handler can answer 502 without
// leaking the raw error.
func (c *Client) Search(ctx context.Context, query string) ([]domain.CatalogItem, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}
	searchURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("catalog request failed", "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("catalog returned non-200", "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: status %d", domain.ErrCatalogUnavailable, resp.StatusCode)
	}

	var searchResp searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrCatalogUnavailable, err)
	}

	c.logger.Debug("catalog search results", "query", query, "count", len(searchResp.Items))

	items := make([]domain.CatalogItem, 0, len(searchResp.Items))
	for i := range searchResp.Items {
		item, ok := normalize(&searchResp.Items[i])
		if !ok {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

// normalize maps a raw volume to a CatalogItem, applying the documented
// defaults. Items without volumeInfo or without both id and title are
// dropped.
func normalize(v *volume) (domain.CatalogItem, bool) {
	if v.VolumeInfo == nil {
		return domain.CatalogItem{}, false
	}
	info := v.VolumeInfo

	title := info.Title
	if title == "" {
		title = "Unknown Title"
	}
	if v.ID == "" || title == "" {
		return domain.CatalogItem{}, false
	}

	authors := info.Authors
	if len(authors) == 0 {
		authors = []string{"Unknown Author"}
	}

	categories := info.Categories
	if categories == nil {
		categories = []string{}
	}

	language := info.Language
	if language == "" {
		language = "en"
	}

	return domain.CatalogItem{
		ID:            v.ID,
		Title:         title,
		Authors:       authors,
		Description:   info.Description,
		PublishedDate: info.PublishedDate,
		PageCount:     info.PageCount,
		Categories:    categories,
		Language:      language,
		ISBN:          extractISBN(info.IndustryIdentifiers),
		Thumbnail:     extractThumbnail(info.ImageLinks),
		PreviewLink:   info.PreviewLink,
		InfoLink:      info.InfoLink,
		AverageRating: info.AverageRating,
		RatingsCount:  info.RatingsCount,
		Publisher:     info.Publisher,
	}, true
}

// extractISBN prefers ISBN_13 over ISBN_10.
func extractISBN(ids []industryIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			if isbn10 == "" {
				isbn10 = id.Identifier
			}
		}
	}
	return isbn10
}

func extractThumbnail(links *imageLinks) string {
	if links == nil {
		return ""
	}
	if links.Thumbnail != "" {
		return links.Thumbnail
	}
	return links.SmallThumbnail
}
