// Package websearch wraps the DuckDuckGo HTML endpoint for the agent's
// link-finding tools.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

const (
	defaultBaseURL = "https://html.duckduckgo.com/html/"

	// maxResults caps how many hits a single search returns to the agent.
	maxResults = 5
)

// SearchResult is one web hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"href"`
	Snippet string `json:"body"`
}

// Client queries the DuckDuckGo HTML endpoint and extracts organic results.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a web search client.
func NewClient(logger *zap.Logger) *Client {
	return NewClientWithBaseURL(defaultBaseURL, logger)
}

// NewClientWithBaseURL creates a client against a custom endpoint, for tests.
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

// SearchJSON runs Search and encodes the outcome for the agent. Any failure
// becomes a structured {"error": ...} payload instead of an error, so the
// agent runtime can react to it in natural language.
func (c *Client) SearchJSON(ctx context.Context, query, site string) string {
	results, err := c.Search(ctx, query, site)
	if err != nil {
		c.logger.Warn("web search failed", zap.String("query", query), zap.Error(err))
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(payload)
	}
	payload, _ := json.Marshal(results)
	return string(payload)
}

// Search returns up to maxResults hits for the query. A non-empty site
// narrows the search with a site: qualifier appended to the query text.
func (c *Client) Search(ctx context.Context, query, site string) ([]SearchResult, error) {
	fullQuery := query
	if site != "" {
		fullQuery = fmt.Sprintf("%s, site:%s", query, site)
	}

	params := url.Values{}
	params.Set("q", fullQuery)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build search request: %w", err)
	}
	// The HTML endpoint rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; bookbot/1.0)")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse search response: %w", err)
	}

	var results []SearchResult
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		anchor := s.Find(".result__a").First()
		title := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		snippet := strings.TrimSpace(s.Find(".result__snippet").First().Text())

		if title == "" || href == "" {
			return true
		}
		results = append(results, SearchResult{
			Title:   title,
			Link:    resolveRedirect(href),
			Snippet: snippet,
		})
		return len(results) < maxResults
	})

	c.logger.Debug("web search", zap.String("query", fullQuery), zap.Int("results", len(results)))
	return results, nil
}

// resolveRedirect unwraps DuckDuckGo's /l/?uddg= redirect links to the
// target URL. Links in any other shape pass through untouched.
func resolveRedirect(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}
