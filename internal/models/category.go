package models

import "time"

const DefaultCategoryColor = "blue"

type Category struct {
	ID        string
	UserID    string
	Name      string
	Color     string
	CreatedAt time.Time

	// TaskCount is populated by queries that annotate
	// the category with the number of referencing tasks.
	TaskCount int64
}
