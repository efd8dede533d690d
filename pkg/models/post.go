package models

// PostDraft is a single post as produced by one source agent. A draft with an
// Error and an empty Body is a failure placeholder: it occupies a slot in the
// output but does not count toward realized totals.
type PostDraft struct {
	Body     string `json:"body"`
	Keywords string `json:"keywords,omitempty"`

	// Origin is an auxiliary label for the draft: the holiday or idea the post
	// was generated from, or the source tag when nothing finer exists.
	Origin string `json:"origin,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Failed reports whether the draft is a failure placeholder.
func (d PostDraft) Failed() bool {
	return d.Error != "" && d.Body == ""
}

// FailureDraft builds the placeholder draft an agent emits when generation
// fails: empty body, populated error.
func FailureDraft(origin string, err error) PostDraft {
	return PostDraft{Origin: origin, Error: err.Error()}
}

// CountRealized returns the number of non-placeholder drafts.
func CountRealized(drafts []PostDraft) int {
	realized := 0

	for _, d := range drafts {
		if !d.Failed() {
			realized++
		}
	}

	return realized
}

// ScheduleSlot is a recommended publish slot. Date is formatted MM/DD/YYYY,
// matching the best-time-to-post service.
type ScheduleSlot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// EnrichedPost is the final form of a post: the draft content tagged with its
// originating source, plus illustrative images and an optional publish slot.
// Created once by the enrichment stage and never mutated afterwards.
type EnrichedPost struct {
	Source    Source        `json:"source"`
	Body      string        `json:"body"`
	Keywords  string        `json:"keywords,omitempty"`
	Origin    string        `json:"origin,omitempty"`
	Error     string        `json:"error,omitempty"`
	ImageURLs []string      `json:"image_urls,omitempty"`
	Slot      *ScheduleSlot `json:"scheduled_slot,omitempty"`
}

// Failed reports whether the post is a carried-over failure placeholder.
func (p EnrichedPost) Failed() bool {
	return p.Error != "" && p.Body == ""
}
