package fetch

import (
	"context"
	"fmt"
	"time"
)

// RESTCompetitorFeed mines competitor posts from the competitive-intel API.
type RESTCompetitorFeed struct {
	client restClient
}

// NewRESTCompetitorFeed creates a competitor feed backed by the
// competitive-intel API.
func NewRESTCompetitorFeed(baseURL string, timeout time.Duration) *RESTCompetitorFeed {
	return &RESTCompetitorFeed{client: newRESTClient(baseURL, timeout)}
}

type competitorPostsResponse struct {
	Posts []CompetitorPost `json:"posts"`
}

// CompetitorPosts returns competitor posts matching the query, filtered to
// the minimum engagement server-side.
func (f *RESTCompetitorFeed) CompetitorPosts(ctx context.Context, query CompetitorQuery) ([]CompetitorPost, error) {
	payload := map[string]any{
		"businessName":  query.BusinessName,
		"channel":       query.Channel,
		"numberOfDays":  query.WindowDays,
		"minEngagement": query.MinEngagement,
	}

	var resp competitorPostsResponse

	err := f.client.postJSON(ctx, "/social/competitors/posts", nil, payload, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch competitor posts: %w", err)
	}

	return resp.Posts, nil
}
