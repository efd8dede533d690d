// Package models defines the core domain models for multi-source post generation.
package models

// Source identifies one of the five content-generation strategies.
type Source string

const (
	SourceHoliday      Source = "HOLIDAY"
	SourceBusinessIdea Source = "BUSINESS_IDEA"
	SourceRepurpose    Source = "REPURPOSE"
	SourceCompetitor   Source = "COMPETITOR"
	SourceTrending     Source = "TRENDING"
)

// CombineOrder is the fixed order in which per-source outputs are merged into
// the final result set.
var CombineOrder = []Source{
	SourceHoliday,
	SourceBusinessIdea,
	SourceRepurpose,
	SourceCompetitor,
	SourceTrending,
}

// Known reports whether s is one of the five supported sources. Unknown
// sources in a request are ignored, not rejected.
func (s Source) Known() bool {
	switch s {
	case SourceHoliday, SourceBusinessIdea, SourceRepurpose, SourceCompetitor, SourceTrending:
		return true
	default:
		return false
	}
}
