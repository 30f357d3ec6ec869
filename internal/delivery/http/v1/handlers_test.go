package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
	"taskdeck/internal/services"
)

const testUserID = "0192d3e4-0000-7000-8000-000000000001"

type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(ctx context.Context, params services.CreateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	args := m.Called(ctx, userID, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) ListTasks(ctx context.Context, userID string, spec services.TaskQuerySpec) ([]*models.Task, error) {
	args := m.Called(ctx, userID, spec)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(ctx context.Context, params services.UpdateTaskParams) (*models.Task, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(ctx context.Context, params services.DeleteTaskParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

var _ services.TaskService = (*MockTaskService)(nil)

type MockAnalyticsService struct {
	mock.Mock
}

func (m *MockAnalyticsService) GetSnapshot(ctx context.Context, userID string) (*services.AnalyticsSnapshot, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.AnalyticsSnapshot), args.Error(1)
}

var _ services.AnalyticsService = (*MockAnalyticsService)(nil)

func newTestRouter(h Handler, authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	identity := func(c *gin.Context) {
		if authenticated {
			c.Set(userIDCtxKey, testUserID)
		}
		c.Next()
	}

	router.GET("/api/v1/tasks", identity, h.HandleGetTasks)
	router.POST("/api/v1/tasks", identity, h.HandleCreateTask)
	router.GET("/api/v1/tasks/:id", identity, h.HandleGetTask)
	router.PATCH("/api/v1/tasks/:id", identity, h.HandleUpdateTask)
	router.DELETE("/api/v1/tasks/:id", identity, h.HandleDeleteTask)
	router.GET("/api/v1/analytics", identity, h.HandleGetAnalytics)
	return router
}

func newTaskHandler(taskSvc services.TaskService, analyticsSvc services.AnalyticsService) Handler {
	return New(zerolog.Nop(), nil, nil, nil, taskSvc, nil, analyticsSvc)
}

func TestHandleGetTasks_PassesQuerySpec(t *testing.T) {
	taskSvc := new(MockTaskService)
	taskSvc.On("ListTasks", mock.Anything, testUserID, services.TaskQuerySpec{
		Status:   "todo",
		Priority: "high",
		Category: "cat-1",
		Search:   "report",
		Sort:     "due_date_asc",
	}).Return([]*models.Task{}, nil)

	router := newTestRouter(newTaskHandler(taskSvc, nil), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/tasks?status=todo&priority=high&category=cat-1&search=report&sort=due_date_asc", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	taskSvc.AssertExpectations(t)
}

func TestHandleGetTasks_UnrecognizedFiltersAreNotAnError(t *testing.T) {
	taskSvc := new(MockTaskService)
	taskSvc.On("ListTasks", mock.Anything, testUserID, services.TaskQuerySpec{
		Status: "garbage",
		Sort:   "garbage",
	}).Return([]*models.Task{}, nil)

	router := newTestRouter(newTaskHandler(taskSvc, nil), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/tasks?status=garbage&sort=garbage", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	taskSvc.AssertExpectations(t)
}

func TestHandleGetTasks_RespondsWithCategorySummary(t *testing.T) {
	categoryID := "cat-1"
	dueDate := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	taskSvc := new(MockTaskService)
	taskSvc.On("ListTasks", mock.Anything, testUserID, services.TaskQuerySpec{}).
		Return([]*models.Task{
			{
				ID:         "task-1",
				UserID:     testUserID,
				CategoryID: &categoryID,
				Title:      "Report Q1",
				Status:     models.StatusTodo,
				Priority:   models.PriorityHigh,
				DueDate:    &dueDate,
				Category: &models.CategorySummary{
					ID:    categoryID,
					Name:  "Work",
					Color: "red",
				},
			},
			{
				ID:       "task-2",
				UserID:   testUserID,
				Title:    "Water the plants",
				Status:   models.StatusDone,
				Priority: models.PriorityLow,
			},
		}, nil)

	router := newTestRouter(newTaskHandler(taskSvc, nil), true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp []getTaskResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 2)

	require.NotNil(t, resp[0].Category)
	assert.Equal(t, "Work", resp[0].Category.Name)
	assert.Equal(t, "red", resp[0].Category.Color)
	require.NotNil(t, resp[0].DueDate)
	assert.True(t, dueDate.Equal(*resp[0].DueDate))

	assert.Nil(t, resp[1].Category)
	assert.Nil(t, resp[1].DueDate)
}

func TestHandleGetTasks_Unauthenticated(t *testing.T) {
	taskSvc := new(MockTaskService)
	router := newTestRouter(newTaskHandler(taskSvc, nil), false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	taskSvc.AssertNotCalled(t, "ListTasks")
}

func TestHandleCreateTask(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(*MockTaskService)
		wantStatus int
	}{
		{
			name: "created with defaults",
			body: `{"title": "Report Q1"}`,
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, services.CreateTaskParams{
					UserID: testUserID,
					Title:  "Report Q1",
				}).Return(&models.Task{
					ID:       "task-1",
					UserID:   testUserID,
					Title:    "Report Q1",
					Status:   models.StatusTodo,
					Priority: models.PriorityMedium,
				}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing title",
			body:       `{"description": "no title"}`,
			setupMock:  func(m *MockTaskService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown status is rejected on mutation",
			body:       `{"title": "Report Q1", "status": "archived"}`,
			setupMock:  func(m *MockTaskService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown priority is rejected on mutation",
			body:       `{"title": "Report Q1", "priority": "critical"}`,
			setupMock:  func(m *MockTaskService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid due date",
			body:       `{"title": "Report Q1", "due_date": "tomorrow"}`,
			setupMock:  func(m *MockTaskService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "category of another user",
			body: `{"title": "Report Q1", "category_id": "cat-9"}`,
			setupMock: func(m *MockTaskService) {
				m.On("CreateTask", mock.Anything, mock.Anything).
					Return(nil, services.ErrCategoryNotFound)
			},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			taskSvc := new(MockTaskService)
			tt.setupMock(taskSvc)
			router := newTestRouter(newTaskHandler(taskSvc, nil), true)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/tasks",
				bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			taskSvc.AssertExpectations(t)
		})
	}
}

func TestHandleUpdateTask(t *testing.T) {
	t.Run("clears due date on empty string", func(t *testing.T) {
		taskSvc := new(MockTaskService)
		taskSvc.On("UpdateTask", mock.Anything, mock.MatchedBy(func(params services.UpdateTaskParams) bool {
			return params.ID == "task-1" &&
				params.UserID == testUserID &&
				params.ClearDueDate &&
				params.DueDate == nil
		})).Return(&models.Task{
			ID:       "task-1",
			UserID:   testUserID,
			Title:    "Report Q1",
			Status:   models.StatusTodo,
			Priority: models.PriorityMedium,
		}, nil)

		router := newTestRouter(newTaskHandler(taskSvc, nil), true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/task-1",
			bytes.NewBufferString(`{"due_date": ""}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		taskSvc.AssertExpectations(t)
	})

	t.Run("task of another user is not found", func(t *testing.T) {
		taskSvc := new(MockTaskService)
		taskSvc.On("UpdateTask", mock.Anything, mock.Anything).
			Return(nil, services.ErrTaskNotFound)

		router := newTestRouter(newTaskHandler(taskSvc, nil), true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPatch, "/api/v1/tasks/task-9",
			bytes.NewBufferString(`{"title": "Hijacked"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleDeleteTask(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		taskSvc := new(MockTaskService)
		taskSvc.On("DeleteTask", mock.Anything, services.DeleteTaskParams{
			ID:     "task-1",
			UserID: testUserID,
		}).Return(nil)

		router := newTestRouter(newTaskHandler(taskSvc, nil), true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/task-1", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		taskSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		taskSvc := new(MockTaskService)
		taskSvc.On("DeleteTask", mock.Anything, mock.Anything).
			Return(services.ErrTaskNotFound)

		router := newTestRouter(newTaskHandler(taskSvc, nil), true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/tasks/task-9", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestHandleGetAnalytics(t *testing.T) {
	t.Run("returns the snapshot", func(t *testing.T) {
		analyticsSvc := new(MockAnalyticsService)
		analyticsSvc.On("GetSnapshot", mock.Anything, testUserID).
			Return(&services.AnalyticsSnapshot{
				Counts: services.TaskCounts{
					Total:     5,
					Completed: 2,
					Active:    3,
					Overdue:   1,
				},
				Charts: services.AnalyticsCharts{
					Category: []services.CategoryChartEntry{
						{Name: "Work", Value: 3, Color: "red"},
						{Name: "Uncategorized", Value: 2, Color: "#94a3b8"},
					},
					Priority: []services.PriorityChartEntry{
						{Name: "Low", Value: 0, Fill: "#64748b"},
						{Name: "Medium", Value: 4, Fill: "#3b82f6"},
						{Name: "High", Value: 1, Fill: "#f97316"},
						{Name: "Urgent", Value: 0, Fill: "#ef4444"},
					},
				},
			}, nil)

		router := newTestRouter(newTaskHandler(nil, analyticsSvc), true)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)

		var resp services.AnalyticsSnapshot
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, int64(5), resp.Counts.Total)
		assert.Len(t, resp.Charts.Priority, 4)
		analyticsSvc.AssertExpectations(t)
	})

	t.Run("no session yields no data", func(t *testing.T) {
		analyticsSvc := new(MockAnalyticsService)
		router := newTestRouter(newTaskHandler(nil, analyticsSvc), false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		analyticsSvc.AssertNotCalled(t, "GetSnapshot")
	})
}
