package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID = "0192d3e4-0000-7000-8000-000000000001"

func TestBuildListTasksQuery_OwnerScoping(t *testing.T) {
	specs := []TaskQuerySpec{
		{},
		{Status: "done"},
		{Priority: "urgent", Category: "cat-1"},
		{Search: "report", Sort: SortDueDateAsc},
		{Status: "garbage", Priority: "garbage", Sort: "garbage"},
		{Status: "all", Priority: "all", Category: "all", Search: "", Sort: ""},
	}

	for _, spec := range specs {
		query, args := buildListTasksQuery(testUserID, spec)

		require.NotEmpty(t, args)
		assert.Equal(t, testUserID, args[0],
			"owner id must always be the first argument")
		assert.Contains(t, query, "WHERE t.user_id = $1",
			"owner constraint must always be the first predicate")
	}
}

func TestBuildListTasksQuery_Filters(t *testing.T) {
	tests := []struct {
		name         string
		spec         TaskQuerySpec
		wantContains []string
		wantAbsent   []string
		wantArgs     []any
	}{
		{
			name:       "empty spec applies no filter",
			spec:       TaskQuerySpec{},
			wantAbsent: []string{"t.status =", "t.priority =", "t.category_id =", "ILIKE"},
			wantArgs:   []any{testUserID},
		},
		{
			name: "all on every dimension applies no filter",
			spec: TaskQuerySpec{
				Status:   "all",
				Priority: "all",
				Category: "all",
			},
			wantAbsent: []string{"t.status =", "t.priority =", "t.category_id =", "ILIKE"},
			wantArgs:   []any{testUserID},
		},
		{
			name:         "status filter",
			spec:         TaskQuerySpec{Status: "in_progress"},
			wantContains: []string{"AND t.status = $2"},
			wantArgs:     []any{testUserID, "in_progress"},
		},
		{
			name:         "priority filter",
			spec:         TaskQuerySpec{Priority: "urgent"},
			wantContains: []string{"AND t.priority = $2"},
			wantArgs:     []any{testUserID, "urgent"},
		},
		{
			name:         "category filter",
			spec:         TaskQuerySpec{Category: "cat-42"},
			wantContains: []string{"AND t.category_id = $2"},
			wantArgs:     []any{testUserID, "cat-42"},
		},
		{
			name: "search matches title or description",
			spec: TaskQuerySpec{Search: "report"},
			wantContains: []string{
				"AND (t.title ILIKE $2 OR t.description ILIKE $2)",
			},
			wantArgs: []any{testUserID, "%report%"},
		},
		{
			name: "filters are combined with AND",
			spec: TaskQuerySpec{
				Status:   "todo",
				Priority: "high",
				Category: "cat-1",
				Search:   "q1",
			},
			wantContains: []string{
				"AND t.status = $2",
				"AND t.priority = $3",
				"AND t.category_id = $4",
				"AND (t.title ILIKE $5 OR t.description ILIKE $5)",
			},
			wantArgs: []any{testUserID, "todo", "high", "cat-1", "%q1%"},
		},
		{
			name: "unrecognized enum values degrade to no constraint",
			spec: TaskQuerySpec{
				Status:   "archived",
				Priority: "critical",
			},
			wantAbsent: []string{"t.status =", "t.priority ="},
			wantArgs:   []any{testUserID},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildListTasksQuery(testUserID, tt.spec)

			for _, want := range tt.wantContains {
				assert.Contains(t, query, want)
			}
			for _, absent := range tt.wantAbsent {
				assert.NotContains(t, query, absent)
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildListTasksQuery_Sorting(t *testing.T) {
	tests := []struct {
		name       string
		sort       string
		wantClause string
	}{
		{
			name:       "default is newest first",
			sort:       "",
			wantClause: "ORDER BY t.created_at DESC",
		},
		{
			name:       "unrecognized sort degrades to default",
			sort:       "alphabetical",
			wantClause: "ORDER BY t.created_at DESC",
		},
		{
			name:       "created ascending",
			sort:       SortCreatedAsc,
			wantClause: "ORDER BY t.created_at ASC",
		},
		{
			name:       "created descending",
			sort:       SortCreatedDesc,
			wantClause: "ORDER BY t.created_at DESC",
		},
		{
			name:       "priority ascending uses urgency order",
			sort:       SortPriorityAsc,
			wantClause: "END ASC, t.created_at DESC",
		},
		{
			name:       "priority descending uses urgency order",
			sort:       SortPriorityDesc,
			wantClause: "END DESC, t.created_at DESC",
		},
		{
			name:       "due date ascending puts undated tasks last",
			sort:       SortDueDateAsc,
			wantClause: "ORDER BY t.due_date ASC NULLS LAST",
		},
		{
			name:       "due date descending puts undated tasks last",
			sort:       SortDueDateDesc,
			wantClause: "ORDER BY t.due_date DESC NULLS LAST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, _ := buildListTasksQuery(testUserID, TaskQuerySpec{Sort: tt.sort})
			assert.Contains(t, query, tt.wantClause)
		})
	}
}

func TestBuildListTasksQuery_PrioritySortRanksByUrgency(t *testing.T) {
	query, _ := buildListTasksQuery(testUserID, TaskQuerySpec{Sort: SortPriorityAsc})

	// The enum is textual in storage, so an alphabetical ORDER BY would
	// put "high" before "low". The rank expression must spell out the
	// urgency order instead.
	lowIdx := strings.Index(query, "WHEN 'low' THEN 1")
	mediumIdx := strings.Index(query, "WHEN 'medium' THEN 2")
	highIdx := strings.Index(query, "WHEN 'high' THEN 3")
	urgentIdx := strings.Index(query, "WHEN 'urgent' THEN 4")

	require.NotEqual(t, -1, lowIdx)
	assert.Less(t, lowIdx, mediumIdx)
	assert.Less(t, mediumIdx, highIdx)
	assert.Less(t, highIdx, urgentIdx)
}

func TestSearchPattern(t *testing.T) {
	tests := []struct {
		name   string
		search string
		want   string
	}{
		{
			name:   "plain text",
			search: "report",
			want:   "%report%",
		},
		{
			name:   "substring not word boundary",
			search: "Report",
			want:   "%Report%",
		},
		{
			name:   "percent is matched literally",
			search: "100% done",
			want:   `%100\% done%`,
		},
		{
			name:   "underscore is matched literally",
			search: "user_id",
			want:   `%user\_id%`,
		},
		{
			name:   "backslash is matched literally",
			search: `a\b`,
			want:   `%a\\b%`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchPattern(tt.search))
		})
	}
}
