package workflow

import (
	"strings"

	"github.com/dukex/postforge/pkg/models"
	"github.com/google/uuid"
)

// runState carries the intermediate results of one generation run through
// the stages. The parallel stage writes disjoint fields, so no locking is
// needed.
type runState struct {
	runID string

	businessCategory string
	businessInfo     map[string]any

	quota models.SourceQuota

	holiday      []models.PostDraft
	businessIdea []models.PostDraft
	repurpose    []models.PostDraft
	competitor   []models.PostDraft
	trending     []models.PostDraft
}

func newRunState() *runState {
	return &runState{
		runID: "gen-" + strings.SplitN(uuid.New().String(), "-", 2)[0],
	}
}

func (s *runState) bySource() map[models.Source][]models.PostDraft {
	return map[models.Source][]models.PostDraft{
		models.SourceHoliday:      s.holiday,
		models.SourceBusinessIdea: s.businessIdea,
		models.SourceRepurpose:    s.repurpose,
		models.SourceCompetitor:   s.competitor,
		models.SourceTrending:     s.trending,
	}
}

// realized counts non-error drafts across all sources filled so far.
func (s *runState) realized() int {
	total := 0
	for _, drafts := range s.bySource() {
		total += models.CountRealized(drafts)
	}

	return total
}
