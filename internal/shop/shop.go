// Package shop holds the fixed storefront catalog behind the sales
// assistant demo. There is no real inventory or payment: orders are
// only logged.
package shop

import (
	"fmt"

	"go.uber.org/zap"
)

// Book is one storefront item.
type Book struct {
	ID      int64    `json:"id"`
	Title   string   `json:"title"`
	Author  string   `json:"author"`
	Cost    float64  `json:"cost"`
	Reviews []string `json:"reviews"`
	Tags    []string `json:"tags"`
}

// Listing is the short form shown before the user picks a book.
type Listing struct {
	ID     int64   `json:"id"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Cost   float64 `json:"cost"`
}

// Catalog is the in-memory storefront.
type Catalog struct {
	books  []Book
	logger *zap.Logger
}

// NewCatalog returns the demo catalog with its fixed stock.
func NewCatalog(logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		logger: logger,
		books: []Book{
			{
				ID:     1,
				Title:  "To Kill a Mockingbird",
				Author: "Harper Lee",
				Cost:   12.99,
				Reviews: []string{
					"A timeless classic about justice and childhood.",
					"Scout's voice stays with you long after the last page.",
				},
				Tags: []string{"classic", "legal drama", "coming of age"},
			},
			{
				ID:     2,
				Title:  "The Catcher in the Rye",
				Author: "J. D. Salinger",
				Cost:   10.50,
				Reviews: []string{
					"Holden is insufferable and unforgettable at once.",
				},
				Tags: []string{"classic", "coming of age"},
			},
			{
				ID:     3,
				Title:  "1984",
				Author: "George Orwell",
				Cost:   9.99,
				Reviews: []string{
					"More relevant every year.",
					"The ending is devastating in the best way.",
				},
				Tags: []string{"dystopia", "classic", "political"},
			},
		},
	}
}

// List returns the short form of every book in stock.
func (c *Catalog) List() []Listing {
	listings := make([]Listing, 0, len(c.books))
	for _, book := range c.books {
		listings = append(listings, Listing{
			ID:     book.ID,
			Title:  book.Title,
			Author: book.Author,
			Cost:   book.Cost,
		})
	}
	return listings
}

// Details returns the full record for one book.
func (c *Catalog) Details(id int64) (Book, bool) {
	for _, book := range c.books {
		if book.ID == id {
			return book, true
		}
	}
	return Book{}, false
}

// CreateOrder records an order for the given book. The demo has no
// fulfillment, so recording means logging.
func (c *Catalog) CreateOrder(id int64) error {
	book, ok := c.Details(id)
	if !ok {
		return fmt.Errorf("no book with id %d", id)
	}
	c.logger.Info("Order created",
		zap.Int64("book_id", book.ID),
		zap.String("title", book.Title),
		zap.Float64("cost", book.Cost),
	)
	return nil
}
