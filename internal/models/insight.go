package models

import "time"

// InsightCategory groups insight articles in the library
type InsightCategory string

const (
	CategoryAll        InsightCategory = "all"
	CategoryBehavior   InsightCategory = "behavior"
	CategoryStress     InsightCategory = "stress"
	CategoryHabits     InsightCategory = "habits"
	CategoryDecisions  InsightCategory = "decisions"
	CategoryMotivation InsightCategory = "motivation"
)

// InsightSort selects the ordering of a filtered insight list
type InsightSort string

const (
	SortRelevance InsightSort = "relevance"
	SortNewest    InsightSort = "newest"
	SortReadTime  InsightSort = "readTime"
)

// Insight is an article in the neuroscience insights library
type Insight struct {
	ID          string          `json:"id" yaml:"id"`
	Title       string          `json:"title" yaml:"title"`
	Summary     string          `json:"summary" yaml:"summary"`
	Category    InsightCategory `json:"category" yaml:"category"`
	Tags        []string        `json:"tags" yaml:"tags"`
	ReadMinutes int             `json:"readMinutes" yaml:"readMinutes"`
	Relevance   int             `json:"relevance" yaml:"relevance"` // 0-100
	PublishedAt time.Time       `json:"publishedAt" yaml:"publishedAt"`
}

// InsightQuery describes a library search
type InsightQuery struct {
	Category InsightCategory
	Search   string
	Sort     InsightSort
}
