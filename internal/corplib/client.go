// Package corplib wraps the corporate library catalog API.
//
// The upstream exposes two fixed JSON endpoints: the full category list and
// the full book list, both under a "body" wrapper key. There is no query
// interface; the agent receives everything and narrows it down itself.
package corplib

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://api.book.benifits.ru/custom/api/v1"

// Book is one library record that passed mandatory-field filtering.
type Book struct {
	ID          int64  `json:"id"`
	Link        string `json:"link"`
	IsReserved  bool   `json:"isReserved"`
	Summary     string `json:"all"`
	Description string `json:"description"`
}

// Client fetches the corporate library catalog.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a client against the corporate library API.
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, logger)
}

// NewClientWithBaseURL creates a client against a custom endpoint, for tests.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// Categories returns the library's category names joined with " | ".
// Unlike Books, any upstream or parse fault propagates to the caller.
func (c *Client) Categories(ctx context.Context) (string, error) {
	var payload struct {
		Body []struct {
			Name string `json:"name"`
		} `json:"body"`
	}
	if err := c.get(ctx, c.baseURL+"/category/all", &payload); err != nil {
		return "", err
	}

	names := make([]string, 0, len(payload.Body))
	for _, category := range payload.Body {
		names = append(names, category.Name)
	}
	return strings.Join(names, " | "), nil
}

// bookRecord uses pointer fields so missing keys are distinguishable from
// zero values during mandatory-field filtering.
type bookRecord struct {
	ID         *int64  `json:"id"`
	IsReserved *bool   `json:"isReserved"`
	Name       *string `json:"name"`
	Author     *string `json:"author"`
	Category   *struct {
		Name *string `json:"name"`
	} `json:"category"`
	Description *string `json:"description"`
}

// Books returns the library's book list. Records missing any mandatory field
// (id, isReserved, name, author, category, description) are silently
// dropped. Any request or parse fault yields an empty list and no error:
// the agent gets a degraded-but-valid result and keeps reasoning.
func (c *Client) Books(ctx context.Context) []Book {
	var payload struct {
		Body []bookRecord `json:"body"`
	}
	if err := c.get(ctx, c.baseURL+"/books/", &payload); err != nil {
		c.logger.Warn("library books fetch failed", zap.Error(err))
		return []Book{}
	}

	books := make([]Book, 0, len(payload.Body))
	for _, record := range payload.Body {
		if record.ID == nil || record.IsReserved == nil || record.Name == nil ||
			record.Author == nil || record.Category == nil || record.Category.Name == nil ||
			record.Description == nil {
			continue
		}
		books = append(books, Book{
			ID:          *record.ID,
			Link:        fmt.Sprintf("%s/books/%d", c.baseURL, *record.ID),
			IsReserved:  *record.IsReserved,
			Summary:     fmt.Sprintf("%s | %s | %s", *record.Name, *record.Author, *record.Category.Name),
			Description: *record.Description,
		})
	}
	return books
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build library request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("library request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("library request returned status %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode library response: %w", err)
	}
	return nil
}
