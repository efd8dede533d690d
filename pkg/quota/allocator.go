// Package quota computes how many posts each source should attempt for a run.
package quota

import "github.com/dukex/postforge/pkg/models"

// starvationOrder is the fixed priority in which sources are dropped when the
// remaining target cannot cover one post per active source. Business-Idea is
// the filler source and goes first; Repurpose reflects proven content and is
// protected longest.
var starvationOrder = []models.Source{
	models.SourceBusinessIdea,
	models.SourceTrending,
	models.SourceCompetitor,
	models.SourceRepurpose,
}

// claimOrder is the fixed order in which non-fallback sources claim their
// ceiling share of the remaining target.
var claimOrder = []models.Source{
	models.SourceRepurpose,
	models.SourceCompetitor,
	models.SourceTrending,
}

// Allocate distributes targetCount posts across the five sources given the
// enabled set and the count the Holiday source already produced.
//
// Disabled sources are always 0. When holidayCount >= targetCount the four
// non-holiday sources are all 0. Otherwise each active source in claimOrder
// takes ceil(remaining / activeLeft) and Business-Idea absorbs whatever is
// left, so the five counts sum to targetCount.
func Allocate(targetCount int, enabled map[models.Source]bool, holidayCount int) models.SourceQuota {
	remaining := targetCount - holidayCount
	if remaining < 0 {
		remaining = 0
	}

	active := make(map[models.Source]bool, 4)
	activeCount := 0

	for _, source := range starvationOrder {
		if enabled[source] {
			active[source] = true
			activeCount++
		}
	}

	// Scarcity: drop sources until every remaining active source can get at
	// least one post.
	for _, source := range starvationOrder {
		if activeCount <= remaining {
			break
		}

		if active[source] {
			active[source] = false
			activeCount--
		}
	}

	counts := make(map[models.Source]int, 4)
	activeLeft := activeCount

	for _, source := range claimOrder {
		if !active[source] {
			continue
		}

		share := ceilDiv(remaining, activeLeft)
		if share > remaining {
			share = remaining
		}

		if share < 0 {
			share = 0
		}

		counts[source] = share
		remaining -= share
		activeLeft--
	}

	if active[models.SourceBusinessIdea] {
		// The fallback source absorbs the full remainder.
		counts[models.SourceBusinessIdea] = remaining
		remaining = 0
	}

	// Ceiling rounding cannot leave units behind while a claim source is
	// active, but the redistribution policy is fixed: one unit at a time,
	// round-robin over the still-active claim sources only.
	for remaining > 0 {
		assigned := false

		for _, source := range claimOrder {
			if remaining == 0 {
				break
			}

			if active[source] {
				counts[source]++
				remaining--
				assigned = true
			}
		}

		if !assigned {
			break
		}
	}

	return models.SourceQuota{
		Holiday:      holidayCount,
		BusinessIdea: counts[models.SourceBusinessIdea],
		Repurpose:    counts[models.SourceRepurpose],
		Competitor:   counts[models.SourceCompetitor],
		Trending:     counts[models.SourceTrending],
	}
}

func ceilDiv(n, d int) int {
	if d <= 0 {
		return 0
	}

	return (n + d - 1) / d
}
