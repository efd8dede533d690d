package fetch

import (
	"context"
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// RESTHolidayCalendar fetches the business's event calendar from the social
// API and filters it to the lookback window client-side.
type RESTHolidayCalendar struct {
	client restClient
	now    func() time.Time
}

// NewRESTHolidayCalendar creates a holiday calendar backed by the social API.
func NewRESTHolidayCalendar(baseURL string, timeout time.Duration) *RESTHolidayCalendar {
	return &RESTHolidayCalendar{
		client: newRESTClient(baseURL, timeout),
		now:    time.Now,
	}
}

type calendarEventsResponse struct {
	Events []struct {
		EventDate string `json:"eventDate"`
		EventName string `json:"eventName"`
	} `json:"events"`
}

// UpcomingHolidays returns the events falling between today and today plus
// windowDays, inclusive. Events with malformed dates are skipped.
func (c *RESTHolidayCalendar) UpcomingHolidays(ctx context.Context, businessID string, windowDays int) ([]Holiday, error) {
	today := c.now().Truncate(24 * time.Hour)

	var payload calendarEventsResponse

	err := c.client.postJSON(ctx,
		fmt.Sprintf("/social/post/%s/calendar/events", businessID),
		nil,
		map[string]any{"year": today.Year()},
		&payload,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch calendar events: %w", err)
	}

	end := today.AddDate(0, 0, windowDays)
	upcoming := make([]Holiday, 0, len(payload.Events))

	for _, event := range payload.Events {
		date, err := time.Parse(dateLayout, event.EventDate)
		if err != nil {
			continue
		}

		if date.Before(today) || date.After(end) {
			continue
		}

		upcoming = append(upcoming, Holiday{Date: event.EventDate, Name: event.EventName})
	}

	return upcoming, nil
}
