package services

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"taskdeck/internal/models"
)

type analyticsServiceImpl struct {
	logger zerolog.Logger
	pgPool *pgxpool.Pool
}

func NewAnalyticsService(
	logger zerolog.Logger,
	pgPool *pgxpool.Pool,
) AnalyticsService {
	return &analyticsServiceImpl{
		logger: logger,
		pgPool: pgPool,
	}
}

type categoryTaskCount struct {
	Name  string
	Color string
	Count int64
}

func (s *analyticsServiceImpl) GetSnapshot(ctx context.Context, userID string) (*AnalyticsSnapshot, error) {
	// The evaluation instant is read once so every sub-query agrees
	// on what counts as overdue.
	now := time.Now()

	var (
		counts        TaskCounts
		uncategorized int64
		byCategory    []categoryTaskCount
		byPriority    map[string]int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts.Total, err = s.countTasks(gctx, userID, "")
		return err
	})
	g.Go(func() (err error) {
		counts.Completed, err = s.countTasks(gctx, userID,
			"AND status = 'done'")
		return err
	})
	g.Go(func() (err error) {
		counts.Active, err = s.countTasks(gctx, userID,
			"AND status IN ('todo', 'in_progress')")
		return err
	})
	g.Go(func() (err error) {
		counts.Overdue, err = s.countOverdueTasks(gctx, userID, now)
		return err
	})
	g.Go(func() (err error) {
		uncategorized, err = s.countTasks(gctx, userID,
			"AND category_id IS NULL")
		return err
	})
	g.Go(func() (err error) {
		byCategory, err = s.countTasksByCategory(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		byPriority, err = s.countTasksByPriority(gctx, userID)
		return err
	})

	err := g.Wait()
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to aggregate tasks")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int64("total", counts.Total).
		Int64("overdue", counts.Overdue).
		Msg("aggregated tasks")

	return &AnalyticsSnapshot{
		Counts: counts,
		Charts: AnalyticsCharts{
			Category: buildCategoryChart(byCategory, uncategorized),
			Priority: buildPriorityChart(byPriority),
		},
	}, nil
}

func (s *analyticsServiceImpl) countTasks(ctx context.Context, userID, predicate string) (int64, error) {
	query := `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 ` + predicate

	var count int64
	err := s.pgPool.QueryRow(ctx, query, userID).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks")
		return 0, err
	}
	return count, nil
}

func (s *analyticsServiceImpl) countOverdueTasks(ctx context.Context, userID string, now time.Time) (int64, error) {
	const countOverdueQuery = `
SELECT COUNT(*)
FROM tasks
WHERE user_id = $1 AND
      status <> 'done' AND
      due_date < $2
`
	var count int64
	err := s.pgPool.QueryRow(
		ctx,
		countOverdueQuery,
		userID,
		now,
	).Scan(&count)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count overdue tasks")
		return 0, err
	}
	return count, nil
}

func (s *analyticsServiceImpl) countTasksByCategory(ctx context.Context, userID string) ([]categoryTaskCount, error) {
	const countByCategoryQuery = `
SELECT c.name,
       c.color,
       COUNT(t.id)
FROM categories c
         LEFT JOIN tasks t ON t.category_id = c.id AND t.user_id = c.user_id
WHERE c.user_id = $1
GROUP BY c.id, c.name, c.color
ORDER BY c.created_at
`
	rows, err := s.pgPool.Query(
		ctx,
		countByCategoryQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks by category")
		return nil, err
	}
	defer rows.Close()

	var counts []categoryTaskCount
	for rows.Next() {
		var c categoryTaskCount
		err = rows.Scan(&c.Name, &c.Color, &c.Count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan category count")
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func (s *analyticsServiceImpl) countTasksByPriority(ctx context.Context, userID string) (map[string]int64, error) {
	const countByPriorityQuery = `
SELECT priority,
       COUNT(*)
FROM tasks
WHERE user_id = $1
GROUP BY priority
`
	rows, err := s.pgPool.Query(
		ctx,
		countByPriorityQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to count tasks by priority")
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64, len(models.Priorities))
	for rows.Next() {
		var (
			priority string
			count    int64
		)
		err = rows.Scan(&priority, &count)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan priority count")
			return nil, err
		}
		counts[priority] = count
	}
	return counts, rows.Err()
}
