package slots_test

import (
	"testing"
	"time"

	"github.com/dukex/postforge/pkg/models"
	"github.com/dukex/postforge/pkg/slots"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, offset int) string {
	t.Helper()

	return today().AddDate(0, 0, offset).Format("01/02/2006")
}

func today() time.Time {
	return time.Date(2026, 3, 9, 10, 0, 0, 0, time.UTC)
}

func TestPlanSpreadsAcrossDatesFirst(t *testing.T) {
	t.Parallel()

	slotMap := map[string][]string{
		day(t, 0): {"10:00 AM", "3:00 PM"},
		day(t, 1): {"11:00 AM", "4:00 PM"},
		day(t, 2): {"9:00 AM"},
		day(t, 3): {"1:00 PM", "6:00 PM"},
		day(t, 4): {"2:00 PM", "5:00 PM"},
	}

	plan := slots.Plan(slotMap, 7, today())
	require.Len(t, plan, 7)

	// First five land on distinct dates.
	seen := map[string]bool{}
	for _, slot := range plan[:5] {
		assert.False(t, seen[slot.Date], "date %s reused too early", slot.Date)
		seen[slot.Date] = true
	}

	// The remaining two reuse second times in date order.
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 0), Time: "3:00 PM"}, plan[5])
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 1), Time: "4:00 PM"}, plan[6])
}

func TestPlanStopsWhenCapacityRunsOut(t *testing.T) {
	t.Parallel()

	slotMap := map[string][]string{
		day(t, 0): {"10:00 AM"},
		day(t, 1): {"11:00 AM"},
	}

	plan := slots.Plan(slotMap, 5, today())
	assert.Len(t, plan, 2)
}

func TestPlanIgnoresDatesOutsideHorizon(t *testing.T) {
	t.Parallel()

	slotMap := map[string][]string{
		day(t, 0):  {"10:00 AM"},
		day(t, 10): {"11:00 AM"},
	}

	plan := slots.Plan(slotMap, 3, today())
	require.Len(t, plan, 1)
	assert.Equal(t, day(t, 0), plan[0].Date)
}

func TestPlanTakesTimesInClockOrder(t *testing.T) {
	t.Parallel()

	// The slot service does not promise sorted times; planning must still
	// fill each date morning first.
	slotMap := map[string][]string{
		day(t, 0): {"6:00 PM", "9:00 AM", "1:00 PM"},
		day(t, 1): {"4:00 PM", "11:00 AM"},
	}

	plan := slots.Plan(slotMap, 5, today())
	require.Len(t, plan, 5)

	assert.Equal(t, models.ScheduleSlot{Date: day(t, 0), Time: "9:00 AM"}, plan[0])
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 1), Time: "11:00 AM"}, plan[1])
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 0), Time: "1:00 PM"}, plan[2])
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 1), Time: "4:00 PM"}, plan[3])
	assert.Equal(t, models.ScheduleSlot{Date: day(t, 0), Time: "6:00 PM"}, plan[4])
}

func TestPlanZeroCount(t *testing.T) {
	t.Parallel()

	assert.Empty(t, slots.Plan(map[string][]string{day(t, 0): {"10:00 AM"}}, 0, today()))
}
