package fetch

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

const defaultImagesPerQuery = 5

// PixabayImageSearch looks up stock photos by keyword on the Pixabay API.
type PixabayImageSearch struct {
	client  restClient
	apiKey  string
	perPage int
}

// NewPixabayImageSearch creates an image searcher backed by Pixabay.
func NewPixabayImageSearch(baseURL, apiKey string, timeout time.Duration) *PixabayImageSearch {
	return &PixabayImageSearch{
		client:  newRESTClient(baseURL, timeout),
		apiKey:  apiKey,
		perPage: defaultImagesPerQuery,
	}
}

type pixabayResponse struct {
	Hits []struct {
		LargeImageURL string `json:"largeImageURL"`
	} `json:"hits"`
}

// SearchImages returns the large-image URLs matching the keywords. An empty
// hit list is a legitimate empty result, not an error.
func (s *PixabayImageSearch) SearchImages(ctx context.Context, keywords string) ([]string, error) {
	query := url.Values{
		"key":        {s.apiKey},
		"q":          {keywords},
		"image_type": {"photo"},
		"per_page":   {strconv.Itoa(s.perPage)},
	}

	var resp pixabayResponse

	err := s.client.getJSON(ctx, "/api/", nil, query, &resp)
	if err != nil {
		return nil, fmt.Errorf("image search failed: %w", err)
	}

	urls := make([]string, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		urls = append(urls, hit.LargeImageURL)
	}

	return urls, nil
}
