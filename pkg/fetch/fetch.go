// Package fetch defines the external data collaborators the agents and the
// enrichment stage call, plus their REST implementations.
package fetch

import "context"

// Holiday is one upcoming calendar event. Date is formatted YYYY-MM-DD.
type Holiday struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// HolidayCalendar returns the holidays falling inside the lookback window.
type HolidayCalendar interface {
	UpcomingHolidays(ctx context.Context, businessID string, windowDays int) ([]Holiday, error)
}

// BusinessMeta is the resolved business profile: its main category plus the
// remaining profile fields.
type BusinessMeta struct {
	Category string         `json:"category"`
	Info     map[string]any `json:"info"`
}

// BusinessDirectory resolves business metadata by account ID.
type BusinessDirectory interface {
	BusinessMeta(ctx context.Context, businessID string) (BusinessMeta, error)
}

// TopPost is one historical high-performing post.
type TopPost struct {
	Text    string `json:"text"`
	Channel string `json:"channel"`
}

// TopPostArchive returns the business's best historical posts.
type TopPostArchive interface {
	TopPosts(ctx context.Context, enterpriseID string, windowDays, count int) ([]TopPost, error)
}

// CompetitorQuery selects competitor posts to mine.
type CompetitorQuery struct {
	BusinessName  string
	Channel       string
	WindowDays    int
	MinEngagement int
}

// CompetitorPost is one mined competitor post.
type CompetitorPost struct {
	Competitor string `json:"competitor"`
	Text       string `json:"text"`
	Channel    string `json:"channel"`
	Engagement int    `json:"engagement"`
}

// CompetitorFeed mines recent competitor posts for a business.
type CompetitorFeed interface {
	CompetitorPosts(ctx context.Context, query CompetitorQuery) ([]CompetitorPost, error)
}

// TrendQuery selects trending topics for a business and its location.
type TrendQuery struct {
	BusinessName string `json:"business_name"`
	Industry     string `json:"industry"`
	SubIndustry  string `json:"sub_industry"`
	WindowDays   int    `json:"window_days"`
	Country      string `json:"country"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// TrendTopic is one selected trending topic.
type TrendTopic struct {
	Topic       string `json:"topic"`
	Description string `json:"description"`
	Source      string `json:"source"`
	PostIdea    string `json:"social_post_idea"`
}

// TrendReport is the trending-topics response.
type TrendReport struct {
	SelectedTopics []TrendTopic `json:"selected_topics"`
}

// TrendFeed returns trending topics relevant to a business.
type TrendFeed interface {
	TrendingTopics(ctx context.Context, query TrendQuery) (TrendReport, error)
}

// ImageSearcher finds illustrative image URLs for a set of keywords. An empty
// result is legitimate.
type ImageSearcher interface {
	SearchImages(ctx context.Context, keywords string) ([]string, error)
}

// SlotSource returns the recommended publish times per day, keyed by date
// formatted MM/DD/YYYY.
type SlotSource interface {
	RecommendedSlots(ctx context.Context, businessID string) (map[string][]string, error)
}
