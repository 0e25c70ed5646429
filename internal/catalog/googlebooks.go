// Package catalog wraps the Google Books volumes API for the agent's
// catalog-search tools.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://www.googleapis.com/books/v1/volumes"

	// maxResults caps how many volumes a single search returns to the agent.
	maxResults = 10
)

// Placeholder strings substituted for missing volume fields. The agent
// receives a complete record for every volume; fields are never omitted.
const (
	placeholderTitle       = "title not specified"
	placeholderAuthor      = "author not specified"
	placeholderGenre       = "genre not specified"
	placeholderPublisher   = "publisher not specified"
	placeholderDescription = "no description available"
	placeholderBuyLink     = "not available for purchase"
)

// Book is one normalized volume record.
type Book struct {
	Title         string   `json:"title"`
	Authors       []string `json:"authors"`
	PublishedDate string   `json:"publishedDate"`
	Categories    []string `json:"categories"`
	Publisher     string   `json:"publisher"`
	Description   string   `json:"description"`
	BuyLink       string   `json:"buyLink"`
}

// Result is the structured output of a catalog search. A search that finds
// nothing returns Count 0 with a note, never an error, so the agent can
// react in natural language.
type Result struct {
	Query string `json:"query,omitempty"`
	Count int    `json:"count"`
	Books []Book `json:"books"`
	Note  string `json:"note,omitempty"`
}

// Client queries the Google Books volumes endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a catalog client against the public Google Books API.
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, logger)
}

// NewClientWithBaseURL creates a catalog client against a custom endpoint.
// Used by tests to point at an httptest server.
func NewClientWithBaseURL(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
}

// volumesResponse mirrors the slice of the volumes payload we consume.
type volumesResponse struct {
	Items []struct {
		VolumeInfo struct {
			Title         string   `json:"title"`
			Authors       []string `json:"authors"`
			PublishedDate string   `json:"publishedDate"`
			Categories    []string `json:"categories"`
			Publisher     string   `json:"publisher"`
			Description   string   `json:"description"`
			InfoLink      string   `json:"infoLink"`
		} `json:"volumeInfo"`
		SaleInfo struct {
			BuyLink string `json:"buyLink"`
		} `json:"saleInfo"`
	} `json:"items"`
}

// SearchByGenre searches volumes scoped to a subject/genre.
func (c *Client) SearchByGenre(ctx context.Context, genre string) (Result, error) {
	raw, err := c.search(ctx, "subject:"+genre)
	if err != nil {
		return Result{}, err
	}
	result := c.parseVolumes(raw, false)
	if result.Count == 0 {
		result.Note = "no books found"
	}
	return result, nil
}

// SearchUniversal searches volumes by any free-form query: title, author,
// genre or description.
func (c *Client) SearchUniversal(ctx context.Context, query string) (Result, error) {
	raw, err := c.search(ctx, query)
	if err != nil {
		return Result{}, err
	}
	result := c.parseVolumes(raw, true)
	result.Query = query
	return result, nil
}

func (c *Client) search(ctx context.Context, query string) (volumesResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprint(maxResults))
	params.Set("printType", "books")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return volumesResponse{}, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return volumesResponse{}, fmt.Errorf("catalog request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return volumesResponse{}, fmt.Errorf("catalog request returned status %d", resp.StatusCode)
	}

	var raw volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return volumesResponse{}, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	c.logger.Debug("catalog search", zap.String("query", query), zap.Int("items", len(raw.Items)))
	return raw, nil
}

// parseVolumes normalizes raw volumes into complete Book records. When
// preferSaleLink is set the purchase link comes from saleInfo, otherwise the
// volume info link is used.
func (c *Client) parseVolumes(raw volumesResponse, preferSaleLink bool) Result {
	books := make([]Book, 0, len(raw.Items))
	for _, item := range raw.Items {
		info := item.VolumeInfo

		book := Book{
			Title:         orPlaceholder(info.Title, placeholderTitle),
			Authors:       orPlaceholderList(info.Authors, placeholderAuthor),
			PublishedDate: NormalizeYear(info.PublishedDate),
			Categories:    orPlaceholderList(info.Categories, placeholderGenre),
			Publisher:     orPlaceholder(info.Publisher, placeholderPublisher),
			Description:   orPlaceholder(info.Description, placeholderDescription),
		}
		if preferSaleLink {
			book.BuyLink = orPlaceholder(item.SaleInfo.BuyLink, placeholderBuyLink)
		} else {
			book.BuyLink = info.InfoLink
		}
		books = append(books, book)
	}
	return Result{Count: len(books), Books: books}
}

// NormalizeYear reduces a full date string to its 4-digit year. A value that
// is already a bare year (or empty) passes through unchanged.
func NormalizeYear(date string) string {
	if strings.Contains(date, "-") {
		return strings.SplitN(date, "-", 2)[0]
	}
	return date
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func orPlaceholderList(values []string, placeholder string) []string {
	if len(values) == 0 {
		return []string{placeholder}
	}
	return values
}
