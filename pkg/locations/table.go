// Package locations resolves which location IDs belong to a business. This is
// account-reference data injected into the fetch layer, not workflow logic.
package locations

import (
	"context"
	"errors"
)

// ErrUnknownBusiness indicates no locations are registered for the business.
var ErrUnknownBusiness = errors.New("no locations registered for business")

// Table looks up the location IDs registered for a business.
type Table interface {
	Locations(ctx context.Context, businessID string) ([]string, error)
}
