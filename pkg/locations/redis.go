package locations

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "postforge:locations:"

// RedisTable serves location lookups from a Redis set per business, for
// deployments where the account service maintains the mapping externally.
type RedisTable struct {
	client redis.UniversalClient
}

// NewRedisTable creates a Redis-backed location table.
func NewRedisTable(client redis.UniversalClient) *RedisTable {
	return &RedisTable{client: client}
}

// Locations returns the location IDs registered under the business's set.
func (t *RedisTable) Locations(ctx context.Context, businessID string) ([]string, error) {
	ids, err := t.client.SMembers(ctx, redisKeyPrefix+businessID).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read locations from redis: %w", err)
	}

	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownBusiness, businessID)
	}

	return ids, nil
}
