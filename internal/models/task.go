package models

import "time"

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Priorities lists the known priorities in ascending order of urgency.
var Priorities = []string{
	PriorityLow,
	PriorityMedium,
	PriorityHigh,
	PriorityUrgent,
}

func IsValidStatus(status string) bool {
	return status == StatusTodo ||
		status == StatusInProgress ||
		status == StatusDone
}

func IsValidPriority(priority string) bool {
	return priority == PriorityLow ||
		priority == PriorityMedium ||
		priority == PriorityHigh ||
		priority == PriorityUrgent
}

type Task struct {
	ID          string
	UserID      string
	CategoryID  *string
	Title       string
	Description string
	Status      string
	Priority    string
	DueDate     *time.Time
	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Category is populated by queries that join the
	// task's category, nil otherwise.
	Category *CategorySummary
}

type CategorySummary struct {
	ID    string
	Name  string
	Color string
}
