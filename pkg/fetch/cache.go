package fetch

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	businessCacheKeyPrefix = "postforge:business:"
	imageCacheKeyPrefix    = "postforge:images:"
)

// CachedBusinessDirectory is a redis read-through cache in front of a
// BusinessDirectory. Cache failures degrade to a direct fetch.
type CachedBusinessDirectory struct {
	inner  BusinessDirectory
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedBusinessDirectory wraps a directory with a redis cache.
func NewCachedBusinessDirectory(inner BusinessDirectory, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedBusinessDirectory {
	return &CachedBusinessDirectory{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("module", "business_cache"),
	}
}

// BusinessMeta returns the cached profile when present, fetching and caching
// it otherwise.
func (d *CachedBusinessDirectory) BusinessMeta(ctx context.Context, businessID string) (BusinessMeta, error) {
	key := businessCacheKeyPrefix + businessID

	cached, err := d.client.Get(ctx, key).Result()
	if err == nil {
		var meta BusinessMeta
		if json.Unmarshal([]byte(cached), &meta) == nil {
			return meta, nil
		}
	} else if err != redis.Nil {
		d.logger.WarnContext(ctx, "Business cache read failed", "error", err)
	}

	meta, err := d.inner.BusinessMeta(ctx, businessID)
	if err != nil {
		return BusinessMeta{}, err
	}

	encoded, err := json.Marshal(meta)
	if err == nil {
		err = d.client.Set(ctx, key, encoded, d.ttl).Err()
		if err != nil {
			d.logger.WarnContext(ctx, "Business cache write failed", "error", err)
		}
	}

	return meta, nil
}

// CachedImageSearcher is a redis read-through cache in front of an
// ImageSearcher, keyed by the keyword string.
type CachedImageSearcher struct {
	inner  ImageSearcher
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedImageSearcher wraps an image searcher with a redis cache.
func NewCachedImageSearcher(inner ImageSearcher, client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachedImageSearcher {
	return &CachedImageSearcher{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("module", "image_cache"),
	}
}

// SearchImages returns cached results when present, fetching and caching
// otherwise. Empty results are cached too; a keyword set with no stock
// photos stays empty.
func (s *CachedImageSearcher) SearchImages(ctx context.Context, keywords string) ([]string, error) {
	key := imageCacheKeyPrefix + keywords

	cached, err := s.client.Get(ctx, key).Result()
	if err == nil {
		var urls []string
		if json.Unmarshal([]byte(cached), &urls) == nil {
			return urls, nil
		}
	} else if err != redis.Nil {
		s.logger.WarnContext(ctx, "Image cache read failed", "error", err)
	}

	urls, err := s.inner.SearchImages(ctx, keywords)
	if err != nil {
		return nil, err
	}

	encoded, err := json.Marshal(urls)
	if err == nil {
		err = s.client.Set(ctx, key, encoded, s.ttl).Err()
		if err != nil {
			s.logger.WarnContext(ctx, "Image cache write failed", "error", err)
		}
	}

	return urls, nil
}
