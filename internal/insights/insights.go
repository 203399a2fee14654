package insights

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Dan9191/wellness-service/internal/models"
)

// ParseQuery builds an InsightQuery from raw request values, applying defaults
func ParseQuery(category, search, sort string) (models.InsightQuery, error) {
	q := models.InsightQuery{
		Category: models.CategoryAll,
		Search:   strings.TrimSpace(search),
		Sort:     models.SortRelevance,
	}

	if category != "" {
		q.Category = models.InsightCategory(category)
	}
	switch q.Category {
	case models.CategoryAll, models.CategoryBehavior, models.CategoryStress,
		models.CategoryHabits, models.CategoryDecisions, models.CategoryMotivation:
	default:
		return q, fmt.Errorf("unknown category %q", category)
	}

	if sort != "" {
		q.Sort = models.InsightSort(sort)
	}
	switch q.Sort {
	case models.SortRelevance, models.SortNewest, models.SortReadTime:
	default:
		return q, fmt.Errorf("unknown sort %q", sort)
	}

	return q, nil
}

// Filter returns the insights matching q in the requested order. The input
// slice is left untouched.
func Filter(items []models.Insight, q models.InsightQuery) []models.Insight {
	needle := strings.ToLower(q.Search)
	out := make([]models.Insight, 0, len(items))
	for _, in := range items {
		if q.Category != "" && q.Category != models.CategoryAll && in.Category != q.Category {
			continue
		}
		if needle != "" && !matches(in, needle) {
			continue
		}
		out = append(out, in)
	}

	switch q.Sort {
	case models.SortNewest:
		slices.SortStableFunc(out, func(a, b models.Insight) int {
			return b.PublishedAt.Compare(a.PublishedAt)
		})
	case models.SortReadTime:
		slices.SortStableFunc(out, func(a, b models.Insight) int {
			return a.ReadMinutes - b.ReadMinutes
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Insight) int {
			return b.Relevance - a.Relevance
		})
	}
	return out
}

func matches(in models.Insight, needle string) bool {
	if strings.Contains(strings.ToLower(in.Title), needle) ||
		strings.Contains(strings.ToLower(in.Summary), needle) {
		return true
	}
	for _, tag := range in.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}
