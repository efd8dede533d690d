// Package slots assigns publish time slots to enriched posts from the
// business's best-time-to-post recommendations.
package slots

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/dukex/postforge/pkg/fetch"
	"github.com/dukex/postforge/pkg/models"
)

// planDays is the scheduling horizon.
const planDays = 7

const dateLayout = "01/02/2006"

// Assigner spreads posts over the recommended time slots of the coming week.
type Assigner struct {
	source fetch.SlotSource
	now    func() time.Time
	logger *slog.Logger
}

func NewAssigner(source fetch.SlotSource, logger *slog.Logger) *Assigner {
	return &Assigner{
		source: source,
		now:    time.Now,
		logger: logger.With("module", "slot_assigner"),
	}
}

// Assign attaches a schedule slot to each post, in order. Posts beyond the
// available capacity are left unscheduled. Slot lookup failure leaves all
// posts unscheduled rather than failing the run.
func (a *Assigner) Assign(ctx context.Context, businessID string, posts []models.EnrichedPost) []models.EnrichedPost {
	if len(posts) == 0 {
		return posts
	}

	slotMap, err := a.source.RecommendedSlots(ctx, businessID)
	if err != nil {
		a.logger.WarnContext(ctx, "Time slot lookup failed", "business_id", businessID, "error", err)

		return posts
	}

	plan := Plan(slotMap, len(posts), a.now())

	for i := range posts {
		if i >= len(plan) {
			break
		}

		slot := plan[i]
		posts[i].Slot = &slot
	}

	return posts
}

// Plan picks up to count slots from the slot map over the next planDays
// days starting at today. The first pass takes one slot per distinct date so
// posts spread across the week, the second pass reuses remaining times on
// already used dates in order. Each date's times are taken in ascending
// clock order regardless of how the slot service ordered them.
func Plan(slotMap map[string][]string, count int, today time.Time) []models.ScheduleSlot {
	if count <= 0 {
		return nil
	}

	dates := make([]string, 0, planDays)
	for i := range planDays {
		dates = append(dates, today.AddDate(0, 0, i).Format(dateLayout))
	}

	sorted := make(map[string][]string, len(dates))
	for _, date := range dates {
		sorted[date] = sortedTimes(slotMap[date])
	}
	slotMap = sorted

	plan := make([]models.ScheduleSlot, 0, count)

	// One slot per distinct date first.
	for _, date := range dates {
		if len(plan) == count {
			return plan
		}

		times := slotMap[date]
		if len(times) == 0 {
			continue
		}

		plan = append(plan, models.ScheduleSlot{Date: date, Time: times[0]})
	}

	// Then reuse later times on each date until capacity runs out.
	for depth := 1; len(plan) < count; depth++ {
		progressed := false

		for _, date := range dates {
			if len(plan) == count {
				return plan
			}

			times := slotMap[date]
			if depth >= len(times) {
				continue
			}

			plan = append(plan, models.ScheduleSlot{Date: date, Time: times[depth]})
			progressed = true
		}

		if !progressed {
			break
		}
	}

	return plan
}

const timeLayout = "3:04 PM"

// sortedTimes orders a date's times by clock value. Times that do not parse
// keep their relative order after the parseable ones.
func sortedTimes(times []string) []string {
	if len(times) < 2 {
		return times
	}

	out := make([]string, len(times))
	copy(out, times)

	sort.SliceStable(out, func(i, j int) bool {
		ti, errI := time.Parse(timeLayout, out[i])
		tj, errJ := time.Parse(timeLayout, out[j])

		if errI != nil || errJ != nil {
			return errI == nil && errJ != nil
		}

		return ti.Before(tj)
	})

	return out
}
