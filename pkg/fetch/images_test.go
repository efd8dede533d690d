package fetch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchImages(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		assert.Equal(t, "fresh bread", r.URL.Query().Get("q"))
		assert.Equal(t, "photo", r.URL.Query().Get("image_type"))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"hits": []map[string]string{
				{"largeImageURL": "https://img.example/1.jpg"},
				{"largeImageURL": "https://img.example/2.jpg"},
			},
		})
	}))
	defer server.Close()

	searcher := NewPixabayImageSearch(server.URL, "secret", time.Second)

	urls, err := searcher.SearchImages(context.Background(), "fresh bread")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://img.example/1.jpg", "https://img.example/2.jpg"}, urls)
}

func TestSearchImagesNoHits(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"hits": []any{}})
	}))
	defer server.Close()

	searcher := NewPixabayImageSearch(server.URL, "secret", time.Second)

	urls, err := searcher.SearchImages(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Empty(t, urls)
}
