package fetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dukex/postforge/pkg/locations"
)

// RESTTopPostArchive fetches the business's best historical posts from the
// social API. The location table scopes the query to the business's location
// channels; an unregistered business falls back to the enterprise scope.
type RESTTopPostArchive struct {
	client restClient
	table  locations.Table
}

// NewRESTTopPostArchive creates a top-post archive backed by the social API.
func NewRESTTopPostArchive(baseURL string, timeout time.Duration, table locations.Table) *RESTTopPostArchive {
	return &RESTTopPostArchive{
		client: newRESTClient(baseURL, timeout),
		table:  table,
	}
}

type topPostsResponse struct {
	PostDetails []struct {
		PostText string `json:"postText"`
		Channel  string `json:"channel"`
	} `json:"postDetailsDTOS"`
}

// TopPosts returns up to count historical top posts for the enterprise.
func (a *RESTTopPostArchive) TopPosts(ctx context.Context, enterpriseID string, windowDays, count int) ([]TopPost, error) {
	payload := map[string]any{
		"numberOfPosts": count,
		"enterpriseId":  enterpriseID,
		"numberOfDays":  windowDays,
	}

	if a.table != nil {
		ids, err := a.table.Locations(ctx, enterpriseID)
		if err != nil && !errors.Is(err, locations.ErrUnknownBusiness) {
			return nil, fmt.Errorf("failed to resolve locations: %w", err)
		}

		if len(ids) > 0 {
			payload["locationIds"] = ids
		}
	}

	var resp topPostsResponse

	err := a.client.postJSON(ctx, "/social/ai/get/posts", nil, payload, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch top posts: %w", err)
	}

	posts := make([]TopPost, 0, len(resp.PostDetails))
	for _, detail := range resp.PostDetails {
		posts = append(posts, TopPost{Text: detail.PostText, Channel: detail.Channel})
	}

	return posts, nil
}
