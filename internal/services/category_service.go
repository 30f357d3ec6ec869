package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"taskdeck/internal/models"
)

type categoryServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewCategoryService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) CategoryService {
	return &categoryServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

func (s *categoryServiceImpl) ListCategories(ctx context.Context, userID string) ([]*models.Category, error) {
	const selectCategoriesQuery = `
SELECT c.id,
       c.name,
       c.color,
       c.created_at,
       COUNT(t.id)
FROM categories c
         LEFT JOIN tasks t ON t.category_id = c.id AND t.user_id = c.user_id
WHERE c.user_id = $1
GROUP BY c.id, c.name, c.color, c.created_at
ORDER BY c.created_at DESC
`
	rows, err := s.pgPool.Query(
		ctx,
		selectCategoriesQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select categories")
		return nil, err
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category := &models.Category{UserID: userID}
		err = rows.Scan(
			&category.ID,
			&category.Name,
			&category.Color,
			&category.CreatedAt,
			&category.TaskCount,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan category")
			return nil, err
		}
		categories = append(categories, category)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over rows")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(categories)).
		Str("user_id", userID).
		Msg("selected categories")
	return categories, nil
}

func (s *categoryServiceImpl) CreateCategory(ctx context.Context, params CreateCategoryParams) (*models.Category, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, ErrEmptyCategoryName
	}

	color := params.Color
	if color == "" {
		color = models.DefaultCategoryColor
	}

	category := &models.Category{
		UserID:    params.UserID,
		Name:      params.Name,
		Color:     color,
		CreatedAt: time.Now(),
	}

	categoryUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate category uuid")
		return nil, err
	}
	category.ID = categoryUUID.String()

	const insertCategoryQuery = `
INSERT INTO categories (id,
                        user_id,
                        name,
                        color,
                        created_at)
VALUES ($1, $2, $3, $4, $5)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertCategoryQuery,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.CreatedAt,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to insert category")
		return nil, err
	}

	s.logger.Info().
		Str("category_id", category.ID).
		Str("user_id", category.UserID).
		Msg("created category")
	return category, nil
}

func (s *categoryServiceImpl) DeleteCategory(ctx context.Context, params DeleteCategoryParams) error {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Detach referencing tasks first so they land in the
	// "Uncategorized" bucket instead of dangling.
	const detachTasksQuery = `
UPDATE tasks
SET category_id = NULL,
    updated_at  = $1
WHERE category_id = $2 AND user_id = $3
`
	tag, err := tx.Exec(
		ctx,
		detachTasksQuery,
		time.Now(),
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", params.ID).
			Msg("failed to detach tasks")
		return err
	}
	s.logger.Debug().
		Str("category_id", params.ID).
		Int64("affected", tag.RowsAffected()).
		Msg("detached tasks")

	const deleteCategoryQuery = `
DELETE FROM categories
WHERE id = $1 AND user_id = $2
`
	tag, err = tx.Exec(
		ctx,
		deleteCategoryQuery,
		params.ID,
		params.UserID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("category_id", params.ID).
			Msg("failed to delete category")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Warn().
			Str("category_id", params.ID).
			Str("user_id", params.UserID).
			Msg("category not found")
		return ErrCategoryNotFound
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return err
	}

	s.logger.Info().
		Str("category_id", params.ID).
		Str("user_id", params.UserID).
		Msg("deleted category")
	return nil
}
