package services

import (
	"strconv"
	"strings"

	"taskdeck/internal/models"
)

// TaskQuerySpec carries the recognized filter and sort options for
// listing tasks. The zero value, and the literal "all" on the filter
// dimensions, mean "no constraint". Values outside the recognized
// sets degrade the same way instead of failing the request.
type TaskQuerySpec struct {
	Status   string
	Priority string
	Category string
	Search   string
	Sort     string
}

const (
	SortCreatedAsc   = "created_asc"
	SortCreatedDesc  = "created_desc"
	SortPriorityAsc  = "priority_asc"
	SortPriorityDesc = "priority_desc"
	SortDueDateAsc   = "due_date_asc"
	SortDueDateDesc  = "due_date_desc"
)

const filterAll = "all"

// priorityRankExpr orders the textual priority column by urgency
// instead of alphabetically.
const priorityRankExpr = `CASE t.priority
    WHEN 'low' THEN 1
    WHEN 'medium' THEN 2
    WHEN 'high' THEN 3
    WHEN 'urgent' THEN 4
END`

// Tasks without a due date sort after dated ones in both directions.
// The created_at tie-break keeps results deterministic across rows
// that compare equal on the primary key.
var sortClauses = map[string]string{
	SortCreatedAsc:   "t.created_at ASC",
	SortCreatedDesc:  "t.created_at DESC",
	SortPriorityAsc:  priorityRankExpr + " ASC, t.created_at DESC",
	SortPriorityDesc: priorityRankExpr + " DESC, t.created_at DESC",
	SortDueDateAsc:   "t.due_date ASC NULLS LAST, t.created_at DESC",
	SortDueDateDesc:  "t.due_date DESC NULLS LAST, t.created_at DESC",
}

const selectTasksBaseQuery = `
SELECT t.id,
       t.category_id,
       t.title,
       t.description,
       t.status,
       t.priority,
       t.due_date,
       t.completed_at,
       t.created_at,
       t.updated_at,
       c.name,
       c.color
FROM tasks t
         LEFT JOIN categories c ON c.id = t.category_id
WHERE t.user_id = $1`

// buildListTasksQuery translates the query specification into SQL.
// The owner constraint is always the first predicate and the first
// argument; no spec value can remove it.
func buildListTasksQuery(userID string, spec TaskQuerySpec) (string, []any) {
	var sb strings.Builder
	sb.WriteString(selectTasksBaseQuery)

	args := []any{userID}

	if models.IsValidStatus(spec.Status) {
		args = append(args, spec.Status)
		sb.WriteString(" AND t.status = " + placeholder(len(args)))
	}

	if models.IsValidPriority(spec.Priority) {
		args = append(args, spec.Priority)
		sb.WriteString(" AND t.priority = " + placeholder(len(args)))
	}

	if spec.Category != "" && spec.Category != filterAll {
		args = append(args, spec.Category)
		sb.WriteString(" AND t.category_id = " + placeholder(len(args)))
	}

	if spec.Search != "" {
		args = append(args, searchPattern(spec.Search))
		p := placeholder(len(args))
		sb.WriteString(" AND (t.title ILIKE " + p +
			" OR t.description ILIKE " + p + ")")
	}

	sb.WriteString("\nORDER BY " + sortClause(spec.Sort))

	return sb.String(), args
}

func sortClause(sort string) string {
	clause, ok := sortClauses[sort]
	if !ok {
		return sortClauses[SortCreatedDesc]
	}
	return clause
}

// searchPattern wraps the search text for a case-insensitive substring
// match, escaping the ILIKE metacharacters so they match literally.
func searchPattern(search string) string {
	escaped := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	).Replace(search)
	return "%" + escaped + "%"
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
