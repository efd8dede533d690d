package fetch

import (
	"context"
	"fmt"
	"time"
)

// RESTBusinessDirectory resolves business profiles from the core business API.
// The profile's "category" field becomes the category; everything else is
// carried as info.
type RESTBusinessDirectory struct {
	client restClient
}

// NewRESTBusinessDirectory creates a business directory backed by the core
// business API.
func NewRESTBusinessDirectory(baseURL string, timeout time.Duration) *RESTBusinessDirectory {
	return &RESTBusinessDirectory{client: newRESTClient(baseURL, timeout)}
}

// BusinessMeta fetches the basic profile for the given account ID.
func (d *RESTBusinessDirectory) BusinessMeta(ctx context.Context, businessID string) (BusinessMeta, error) {
	profile := make(map[string]any)

	err := d.client.getJSON(ctx,
		"/v1/business/profile/basic-info",
		map[string]string{"account-id": businessID},
		nil,
		&profile,
	)
	if err != nil {
		return BusinessMeta{}, fmt.Errorf("failed to fetch business profile: %w", err)
	}

	category, _ := profile["category"].(string)
	delete(profile, "category")

	return BusinessMeta{Category: category, Info: profile}, nil
}
