package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const volumesFixture = `{
	"items": [
		{
			"volumeInfo": {
				"title": "Brave New World",
				"authors": ["Aldous Huxley"],
				"publishedDate": "2015-03-01",
				"categories": ["Fiction"],
				"publisher": "Vintage",
				"description": "A dystopian classic.",
				"infoLink": "https://books.example/brave-new-world"
			},
			"saleInfo": {"buyLink": "https://buy.example/brave-new-world"}
		},
		{
			"volumeInfo": {
				"title": "Untitled Manuscript",
				"publishedDate": "2015"
			},
			"saleInfo": {}
		}
	]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClientWithBaseURL(server.URL, zap.NewNop())
}

func TestSearchByGenre_ParsesAndNormalizes(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		assert.Equal(t, "10", r.URL.Query().Get("maxResults"))
		assert.Equal(t, "books", r.URL.Query().Get("printType"))
		w.Write([]byte(volumesFixture))
	})

	result, err := client.SearchByGenre(context.Background(), "dystopia")
	require.NoError(t, err)

	assert.Equal(t, "subject:dystopia", gotQuery)
	require.Equal(t, 2, result.Count)

	first := result.Books[0]
	assert.Equal(t, "Brave New World", first.Title)
	assert.Equal(t, "2015", first.PublishedDate, "full date reduces to year")
	// Genre search links to the volume info page, not the sale offer.
	assert.Equal(t, "https://books.example/brave-new-world", first.BuyLink)

	second := result.Books[1]
	assert.Equal(t, "2015", second.PublishedDate, "bare year passes through")
	assert.Equal(t, []string{"author not specified"}, second.Authors)
	assert.Equal(t, []string{"genre not specified"}, second.Categories)
	assert.Equal(t, "publisher not specified", second.Publisher)
	assert.Equal(t, "no description available", second.Description)
}

func TestSearchUniversal_UsesSaleLink(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1984 orwell", r.URL.Query().Get("q"))
		w.Write([]byte(volumesFixture))
	})

	result, err := client.SearchUniversal(context.Background(), "1984 orwell")
	require.NoError(t, err)

	assert.Equal(t, "1984 orwell", result.Query)
	assert.Equal(t, "https://buy.example/brave-new-world", result.Books[0].BuyLink)
	assert.Equal(t, "not available for purchase", result.Books[1].BuyLink)
}

func TestSearchByGenre_ZeroResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"totalItems": 0}`))
	})

	result, err := client.SearchByGenre(context.Background(), "nonexistent")
	require.NoError(t, err)
	assert.Equal(t, 0, result.Count)
	assert.Empty(t, result.Books)
	assert.Equal(t, "no books found", result.Note)
}

func TestSearch_UpstreamErrorSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.SearchUniversal(context.Background(), "anything")
	assert.Error(t, err)
}

func TestNormalizeYear(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2015-03-01", "2015"},
		{"2015", "2015"},
		{"", ""},
		{"1999-12", "1999"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeYear(tt.in), "input %q", tt.in)
	}
}
