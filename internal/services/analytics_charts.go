package services

import "taskdeck/internal/models"

// uncategorizedColor is the neutral slate shade the synthetic
// "Uncategorized" slice is drawn with.
const uncategorizedColor = "#94a3b8"

const uncategorizedLabel = "Uncategorized"

var priorityChartLabels = map[string]string{
	models.PriorityLow:    "Low",
	models.PriorityMedium: "Medium",
	models.PriorityHigh:   "High",
	models.PriorityUrgent: "Urgent",
}

var priorityChartFills = map[string]string{
	models.PriorityLow:    "#64748b",
	models.PriorityMedium: "#3b82f6",
	models.PriorityHigh:   "#f97316",
	models.PriorityUrgent: "#ef4444",
}

// buildCategoryChart shapes the per-category counts for the pie chart.
// Empty categories are dropped; tasks without a category are appended
// as a single synthetic entry when there are any.
func buildCategoryChart(byCategory []categoryTaskCount, uncategorized int64) []CategoryChartEntry {
	entries := make([]CategoryChartEntry, 0, len(byCategory)+1)
	for _, c := range byCategory {
		if c.Count == 0 {
			continue
		}
		entries = append(entries, CategoryChartEntry{
			Name:  c.Name,
			Value: c.Count,
			Color: c.Color,
		})
	}

	if uncategorized > 0 {
		entries = append(entries, CategoryChartEntry{
			Name:  uncategorizedLabel,
			Value: uncategorized,
			Color: uncategorizedColor,
		})
	}
	return entries
}

// buildPriorityChart shapes the per-priority counts for the bar chart.
// The chart is a fixed-domain histogram: all four priorities appear in
// ascending urgency order, zero counts included.
func buildPriorityChart(byPriority map[string]int64) []PriorityChartEntry {
	entries := make([]PriorityChartEntry, 0, len(models.Priorities))
	for _, priority := range models.Priorities {
		entries = append(entries, PriorityChartEntry{
			Name:  priorityChartLabels[priority],
			Value: byPriority[priority],
			Fill:  priorityChartFills[priority],
		})
	}
	return entries
}
