package fetch

import (
	"context"
	"fmt"
	"time"
)

// RESTTrendFeed fetches trending topics from the trend-analysis API.
type RESTTrendFeed struct {
	client restClient
}

// NewRESTTrendFeed creates a trend feed backed by the trend-analysis API.
func NewRESTTrendFeed(baseURL string, timeout time.Duration) *RESTTrendFeed {
	return &RESTTrendFeed{client: newRESTClient(baseURL, timeout)}
}

// TrendingTopics returns the selected trending topics for the query.
func (f *RESTTrendFeed) TrendingTopics(ctx context.Context, query TrendQuery) (TrendReport, error) {
	var report TrendReport

	err := f.client.postJSON(ctx, "/trends/topics", nil, query, &report)
	if err != nil {
		return TrendReport{}, fmt.Errorf("failed to fetch trending topics: %w", err)
	}

	return report, nil
}
