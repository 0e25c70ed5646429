package corplib

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(server.URL, zap.NewNop())
}

func TestCategories_JoinsNames(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/category/all", r.URL.Path)
		w.Write([]byte(`{"body":[{"name":"Fiction"},{"name":"Management"},{"name":"IT"}]}`))
	}))

	categories, err := client.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Fiction | Management | IT", categories)
}

func TestCategories_FaultPropagates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"body": "not a list"}`))
	}))

	_, err := client.Categories(context.Background())
	assert.Error(t, err)
}

func TestBooks_FiltersIncompleteRecords(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books/", r.URL.Path)
		w.Write([]byte(`{"body":[
			{"id": 7, "isReserved": false, "name": "1984", "author": "George Orwell",
			 "category": {"name": "Fiction"}, "description": "Dystopian classic."},
			{"id": 8, "isReserved": true, "name": "No Description", "author": "Anon",
			 "category": {"name": "Fiction"}},
			{"isReserved": false, "name": "No ID", "author": "Anon",
			 "category": {"name": "Fiction"}, "description": "Orphan record."}
		]}`))
	}))

	books := client.Books(context.Background())
	require.Len(t, books, 1, "records missing mandatory fields are dropped")

	book := books[0]
	assert.Equal(t, int64(7), book.ID)
	assert.False(t, book.IsReserved)
	assert.Equal(t, "1984 | George Orwell | Fiction", book.Summary)
	assert.Equal(t, "Dystopian classic.", book.Description)
	assert.Equal(t, fmt.Sprintf("%s/books/7", client.baseURL), book.Link)
}

func TestBooks_MidParseFaultReturnsEmpty(t *testing.T) {
	// A shape change in the body (category as a string) fails decoding; the
	// books call swallows the fault and returns an empty list.
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"body":[
			{"id": 1, "isReserved": false, "name": "Good", "author": "A",
			 "category": "Fiction", "description": "d"}
		]}`))
	}))

	books := client.Books(context.Background())
	assert.Empty(t, books)
}

func TestBooks_RequestFaultReturnsEmpty(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	books := client.Books(context.Background())
	assert.Empty(t, books)
}
