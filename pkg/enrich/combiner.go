// Package enrich merges per-source drafts into the final ordered post list
// and decorates each post with suggested images.
package enrich

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/models"
)

// DefaultWorkers bounds concurrent image lookups.
const DefaultWorkers = 8

// maxFallbackKeywords is how many leading words of the body stand in for
// missing keywords.
const maxFallbackKeywords = 4

// Combiner flattens per-source drafts into one ordered list and enriches
// each post with image suggestions through a bounded worker pool.
type Combiner struct {
	images  fetch.ImageSearcher
	workers int
	logger  *slog.Logger
}

func NewCombiner(images fetch.ImageSearcher, workers int, logger *slog.Logger) *Combiner {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	return &Combiner{
		images:  images,
		workers: workers,
		logger:  logger.With("module", "combiner"),
	}
}

type job struct {
	index int
	post  models.EnrichedPost
}

// Combine concatenates the source lists in presentation order and enriches
// the result. Output order matches input order regardless of how the image
// lookups interleave.
func (c *Combiner) Combine(ctx context.Context, bySource map[models.Source][]models.PostDraft) []models.EnrichedPost {
	var posts []models.EnrichedPost

	for _, source := range models.CombineOrder {
		for _, draft := range bySource[source] {
			posts = append(posts, models.EnrichedPost{
				Source:   source,
				Body:     draft.Body,
				Keywords: draft.Keywords,
				Origin:   draft.Origin,
				Error:    draft.Error,
			})
		}
	}

	if len(posts) == 0 {
		return []models.EnrichedPost{}
	}

	jobs := make(chan job)
	results := make([]models.EnrichedPost, len(posts))

	var wg sync.WaitGroup

	for range c.workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for j := range jobs {
				results[j.index] = c.enrich(ctx, j.post)
			}
		}()
	}

	for i, post := range posts {
		jobs <- job{index: i, post: post}
	}

	close(jobs)
	wg.Wait()

	return results
}

func (c *Combiner) enrich(ctx context.Context, post models.EnrichedPost) models.EnrichedPost {
	if post.Failed() {
		return post
	}

	keywords := post.Keywords
	if keywords == "" {
		keywords = fallbackKeywords(post.Body)
	}

	if keywords == "" {
		return post
	}

	urls, err := c.images.SearchImages(ctx, keywords)
	if err != nil {
		// Image suggestions are best effort, the post ships without them.
		c.logger.WarnContext(ctx, "Image search failed", "keywords", keywords, "error", err)

		return post
	}

	post.ImageURLs = urls

	return post
}

func fallbackKeywords(body string) string {
	words := strings.Fields(body)
	if len(words) > maxFallbackKeywords {
		words = words[:maxFallbackKeywords]
	}

	return strings.Join(words, " ")
}
