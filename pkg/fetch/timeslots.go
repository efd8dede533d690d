package fetch

import (
	"context"
	"fmt"
	"time"
)

// RESTSlotSource fetches the recommended best-time-to-post slots per day from
// the resources API.
type RESTSlotSource struct {
	client restClient
}

// NewRESTSlotSource creates a slot source backed by the resources API.
func NewRESTSlotSource(baseURL string, timeout time.Duration) *RESTSlotSource {
	return &RESTSlotSource{client: newRESTClient(baseURL, timeout)}
}

type slotsResponse struct {
	TimeSlots map[string][]string `json:"timeSlots"`
}

// RecommendedSlots returns the per-day recommended publish times, keyed by
// date formatted MM/DD/YYYY.
func (s *RESTSlotSource) RecommendedSlots(ctx context.Context, businessID string) (map[string][]string, error) {
	payload := map[string]any{
		"calendarView": "day",
		"channels":     []string{},
	}

	var resp slotsResponse

	err := s.client.postJSON(ctx, "/v1/api/social/post/best/time/per-day",
		map[string]string{"account-id": businessID}, payload, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time slots: %w", err)
	}

	return resp.TimeSlots, nil
}
