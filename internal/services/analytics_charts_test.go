package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCategoryChart(t *testing.T) {
	tests := []struct {
		name          string
		byCategory    []categoryTaskCount
		uncategorized int64
		want          []CategoryChartEntry
	}{
		{
			name:          "no categories and no tasks",
			byCategory:    nil,
			uncategorized: 0,
			want:          []CategoryChartEntry{},
		},
		{
			name: "keeps category enumeration order",
			byCategory: []categoryTaskCount{
				{Name: "Work", Color: "red", Count: 4},
				{Name: "Home", Color: "green", Count: 2},
			},
			want: []CategoryChartEntry{
				{Name: "Work", Value: 4, Color: "red"},
				{Name: "Home", Value: 2, Color: "green"},
			},
		},
		{
			name: "drops empty categories",
			byCategory: []categoryTaskCount{
				{Name: "Work", Color: "red", Count: 3},
				{Name: "Someday", Color: "purple", Count: 0},
				{Name: "Home", Color: "green", Count: 1},
			},
			want: []CategoryChartEntry{
				{Name: "Work", Value: 3, Color: "red"},
				{Name: "Home", Value: 1, Color: "green"},
			},
		},
		{
			name: "appends uncategorized bucket last",
			byCategory: []categoryTaskCount{
				{Name: "Work", Color: "red", Count: 3},
			},
			uncategorized: 2,
			want: []CategoryChartEntry{
				{Name: "Work", Value: 3, Color: "red"},
				{Name: "Uncategorized", Value: 2, Color: "#94a3b8"},
			},
		},
		{
			name:          "only uncategorized tasks",
			byCategory:    nil,
			uncategorized: 5,
			want: []CategoryChartEntry{
				{Name: "Uncategorized", Value: 5, Color: "#94a3b8"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildCategoryChart(tt.byCategory, tt.uncategorized)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Deleting a category detaches its tasks rather than deleting them, so
// the chart total must stay the same with the tasks relabeled.
func TestBuildCategoryChart_DetachedTasksStayCounted(t *testing.T) {
	before := buildCategoryChart([]categoryTaskCount{
		{Name: "Work", Color: "red", Count: 3},
	}, 0)
	after := buildCategoryChart(nil, 3)

	require.Len(t, before, 1)
	require.Len(t, after, 1)
	assert.Equal(t, before[0].Value, after[0].Value)
	assert.Equal(t, "Uncategorized", after[0].Name)
}

func TestBuildPriorityChart(t *testing.T) {
	tests := []struct {
		name       string
		byPriority map[string]int64
		want       []PriorityChartEntry
	}{
		{
			name:       "no tasks still yields the full histogram",
			byPriority: nil,
			want: []PriorityChartEntry{
				{Name: "Low", Value: 0, Fill: "#64748b"},
				{Name: "Medium", Value: 0, Fill: "#3b82f6"},
				{Name: "High", Value: 0, Fill: "#f97316"},
				{Name: "Urgent", Value: 0, Fill: "#ef4444"},
			},
		},
		{
			name: "counts land on their level, zero counts kept",
			byPriority: map[string]int64{
				"medium": 3,
				"urgent": 1,
			},
			want: []PriorityChartEntry{
				{Name: "Low", Value: 0, Fill: "#64748b"},
				{Name: "Medium", Value: 3, Fill: "#3b82f6"},
				{Name: "High", Value: 0, Fill: "#f97316"},
				{Name: "Urgent", Value: 1, Fill: "#ef4444"},
			},
		},
		{
			name: "unknown keys are ignored",
			byPriority: map[string]int64{
				"low":      2,
				"critical": 9,
			},
			want: []PriorityChartEntry{
				{Name: "Low", Value: 2, Fill: "#64748b"},
				{Name: "Medium", Value: 0, Fill: "#3b82f6"},
				{Name: "High", Value: 0, Fill: "#f97316"},
				{Name: "Urgent", Value: 0, Fill: "#ef4444"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := buildPriorityChart(tt.byPriority)
			require.Len(t, got, 4)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestChartSums(t *testing.T) {
	byCategory := []categoryTaskCount{
		{Name: "Work", Color: "red", Count: 3},
		{Name: "Home", Color: "green", Count: 2},
	}
	const uncategorized = int64(2)
	const total = int64(7)

	categoryChart := buildCategoryChart(byCategory, uncategorized)
	var categorySum int64
	for _, entry := range categoryChart {
		categorySum += entry.Value
	}
	assert.Equal(t, total, categorySum,
		"category chart values plus the uncategorized bucket must sum to the task count")

	priorityChart := buildPriorityChart(map[string]int64{
		"low":    1,
		"medium": 3,
		"high":   2,
		"urgent": 1,
	})
	var prioritySum int64
	for _, entry := range priorityChart {
		prioritySum += entry.Value
	}
	assert.Equal(t, total, prioritySum,
		"priority chart entries must sum to the task count")
}
