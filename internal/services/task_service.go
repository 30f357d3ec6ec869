package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskdeck/internal/models"
)

type taskServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewTaskService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) TaskService {
	return &taskServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	if strings.TrimSpace(params.Title) == "" {
		return nil, ErrEmptyTaskTitle
	}

	status := params.Status
	if status == "" {
		status = models.StatusTodo
	}
	if !models.IsValidStatus(status) {
		return nil, ErrInvalidTaskStatus
	}

	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsValidPriority(priority) {
		return nil, ErrInvalidTaskPriority
	}

	if params.CategoryID != nil {
		err := s.checkCategoryOwnership(ctx, params.UserID, *params.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now()
	task := &models.Task{
		UserID:      params.UserID,
		CategoryID:  params.CategoryID,
		Title:       params.Title,
		Description: params.Description,
		Status:      status,
		Priority:    priority,
		DueDate:     params.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   category_id,
                   title,
                   description,
                   status,
                   priority,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	if task.CategoryID != nil {
		task.Category, err = s.selectCategorySummary(ctx, *task.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) GetTaskByID(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task := &models.Task{
		ID:     taskID,
		UserID: userID,
	}

	const selectTaskByIDQuery = `
SELECT t.category_id,
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
WHERE t.id = $1 AND t.user_id = $2
`
	var categoryName, categoryColor *string
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskByIDQuery,
		task.ID,
		task.UserID,
	).Scan(
		&task.CategoryID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.CompletedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
		&categoryName,
		&categoryColor,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Warn().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select task by id")
		return nil, err
	}

	attachCategorySummary(task, categoryName, categoryColor)
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("selected task by id")
	return task, nil
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string, spec TaskQuerySpec) ([]*models.Task, error) {
	query, args := buildListTasksQuery(userID, spec)

	rows, err := s.pgPool.Query(ctx, query, args...)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}

		var categoryName, categoryColor *string
		err = rows.Scan(
			&task.ID,
			&task.CategoryID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.DueDate,
			&task.CompletedAt,
			&task.CreatedAt,
			&task.UpdatedAt,
			&categoryName,
			&categoryColor,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan task")
			return nil, err
		}

		attachCategorySummary(task, categoryName, categoryColor)
		tasks = append(tasks, task)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.GetTaskByID(ctx, params.UserID, params.ID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		if strings.TrimSpace(*params.Title) == "" {
			return nil, ErrEmptyTaskTitle
		}
		task.Title = *params.Title
	}
	if params.Description != nil {
		task.Description = *params.Description
	}

	if params.Status != nil {
		if !models.IsValidStatus(*params.Status) {
			return nil, ErrInvalidTaskStatus
		}
		s.applyStatusTransition(task, *params.Status)
	}

	if params.Priority != nil {
		if !models.IsValidPriority(*params.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *params.Priority
	}

	if params.ClearDueDate {
		task.DueDate = nil
	} else if params.DueDate != nil {
		task.DueDate = params.DueDate
	}

	if params.ClearCategory {
		task.CategoryID = nil
		task.Category = nil
	} else if params.CategoryID != nil {
		err = s.checkCategoryOwnership(ctx, params.UserID, *params.CategoryID)
		if err != nil {
			return nil, err
		}
		task.CategoryID = params.CategoryID
		// Force the summary to be re-fetched for the new reference.
		task.Category = nil
	}

	task.UpdatedAt = time.Now()

	const updateTaskQuery = `
UPDATE tasks
SET category_id  = $1,
    title        = $2,
    description  = $3,
    status       = $4,
    priority     = $5,
    due_date     = $6,
    completed_at = $7,
    updated_at   = $8
WHERE id = $9 AND user_id = $10
`
	_, err = s.pgPool.Exec(
		ctx,
		updateTaskQuery,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.DueDate,
		task.CompletedAt,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}

	if task.CategoryID != nil && task.Category == nil {
		task.Category, err = s.selectCategorySummary(ctx, *task.CategoryID)
		if err != nil {
			return nil, err
		}
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("updated task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, params DeleteTaskParams) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.ID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("task_id", params.ID).
			Str("user_id", params.UserID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted task")
	return nil
}

// applyStatusTransition keeps the completion timestamp in sync with the
// status: entering "done" stamps it, leaving "done" clears it.
func (s *taskServiceImpl) applyStatusTransition(task *models.Task, status string) {
	switch {
	case status == models.StatusDone && task.Status != models.StatusDone:
		now := time.Now()
		task.CompletedAt = &now
	case status != models.StatusDone:
		task.CompletedAt = nil
	}
	task.Status = status
}

func (s *taskServiceImpl) checkCategoryOwnership(ctx context.Context, userID, categoryID string) error {
	const selectCategoryOwnerQuery = `
SELECT EXISTS (SELECT 1
               FROM categories
               WHERE id = $1 AND user_id = $2)
`
	var owned bool
	err := s.pgPool.QueryRow(
		ctx,
		selectCategoryOwnerQuery,
		categoryID,
		userID,
	).Scan(&owned)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to check category ownership")
		return err
	}
	if !owned {
		s.logger.Warn().
			Str("category_id", categoryID).
			Str("user_id", userID).
			Msg("category not found")
		return ErrCategoryNotFound
	}
	return nil
}

func (s *taskServiceImpl) selectCategorySummary(ctx context.Context, categoryID string) (*models.CategorySummary, error) {
	summary := &models.CategorySummary{ID: categoryID}

	const selectCategorySummaryQuery = `
SELECT name, color
FROM categories
WHERE id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectCategorySummaryQuery,
		categoryID,
	).Scan(
		&summary.Name,
		&summary.Color,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to select category summary")
		return nil, err
	}
	return summary, nil
}

func attachCategorySummary(task *models.Task, name, color *string) {
	if task.CategoryID == nil || name == nil || color == nil {
		return
	}
	task.Category = &models.CategorySummary{
		ID:    *task.CategoryID,
		Name:  *name,
		Color: *color,
	}
}
