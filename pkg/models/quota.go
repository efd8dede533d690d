package models

// SourceQuota is the per-source post count assignment for one generation run.
// Holiday is fixed before allocation; the other four are computed from the
// remaining target. Owned by the allocator, frozen afterwards.
type SourceQuota struct {
	Holiday      int `json:"holiday"`
	BusinessIdea int `json:"business_idea"`
	Repurpose    int `json:"repurpose"`
	Competitor   int `json:"competitor"`
	Trending     int `json:"trending"`
}

// Total returns the sum of all five counts.
func (q SourceQuota) Total() int {
	return q.Holiday + q.BusinessIdea + q.Repurpose + q.Competitor + q.Trending
}

// For returns the quota assigned to the given source.
func (q SourceQuota) For(source Source) int {
	switch source {
	case SourceHoliday:
		return q.Holiday
	case SourceBusinessIdea:
		return q.BusinessIdea
	case SourceRepurpose:
		return q.Repurpose
	case SourceCompetitor:
		return q.Competitor
	case SourceTrending:
		return q.Trending
	default:
		return 0
	}
}
