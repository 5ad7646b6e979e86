package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/docker-task-list/api/internal/models"
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

const selectTasksByUserIDQuery = `
SELECT id,
       text,
       completed,
       due_date,
       position,
       created_at,
       updated_at
FROM tasks
WHERE user_id = $1
ORDER BY position ASC NULLS LAST, created_at DESC
`

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	rows, err := s.pgPool.Query(
		ctx,
		selectTasksByUserIDQuery,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks by user id")
		return nil, err
	}
	defer rows.Close()

	tasks, err := scanTasks(rows, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to scan tasks")
		return nil, err
	}
	s.logger.Debug().
		Int("count", len(tasks)).
		Str("user_id", userID).
		Msg("selected tasks by user id")

	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	now := time.Now()
	task := &models.Task{
		UserID:    params.UserID,
		Text:      params.Text,
		Completed: false,
		DueDate:   params.DueDate,
		CreatedAt: now,
		UpdatedAt: now,
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
                   text,
                   completed,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err = s.pgPool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.Text,
		task.Completed,
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

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("created task")
	return task, nil
}

func (s *taskServiceImpl) ToggleTask(ctx context.Context, taskID, userID string) (*models.Task, error) {
	task := &models.Task{
		ID:        taskID,
		UserID:    userID,
		UpdatedAt: time.Now(),
	}

	const toggleTaskQuery = `
UPDATE tasks
SET completed = NOT completed,
    updated_at = $1
WHERE id = $2 AND user_id = $3
RETURNING text, completed, due_date, position, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		toggleTaskQuery,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Text,
		&task.Completed,
		&task.DueDate,
		&task.Position,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to toggle task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Bool("completed", task.Completed).
		Msg("toggled task")
	return task, nil
}

func (s *taskServiceImpl) EditTask(ctx context.Context, params EditTaskParams) (*models.Task, error) {
	task := &models.Task{
		ID:        params.ID,
		UserID:    params.UserID,
		Text:      params.Text,
		UpdatedAt: time.Now(),
	}

	const editTaskQuery = `
UPDATE tasks
SET text = $1,
    due_date = COALESCE($2, due_date),
    updated_at = $3
WHERE id = $4 AND user_id = $5
RETURNING completed, due_date, position, created_at
`
	err := s.pgPool.QueryRow(
		ctx,
		editTaskQuery,
		task.Text,
		params.DueDate,
		task.UpdatedAt,
		task.ID,
		task.UserID,
	).Scan(
		&task.Completed,
		&task.DueDate,
		&task.Position,
		&task.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.logger.Error().
				Str("task_id", task.ID).
				Str("user_id", task.UserID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to edit task")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", task.ID).
		Str("user_id", task.UserID).
		Msg("edited task")
	return task, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID, userID string) error {
	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1 AND user_id = $2
`
	tag, err := s.pgPool.Exec(
		ctx,
		deleteTaskQuery,
		taskID,
		userID,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}
	if tag.RowsAffected() == 0 {
		s.logger.Error().
			Str("task_id", taskID).
			Str("user_id", userID).
			Msg("task not found")
		return ErrTaskNotFound
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("user_id", userID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) ReorderTasks(ctx context.Context, userID string, items []ReorderItem) ([]*models.Task, error) {
	tx, err := s.pgPool.Begin(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to begin transaction")
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const updateTaskPositionQuery = `
UPDATE tasks
SET position = $1,
    updated_at = $2
WHERE id = $3 AND user_id = $4
`
	now := time.Now()
	var affected int64
	for _, item := range items {
		tag, err := tx.Exec(
			ctx,
			updateTaskPositionQuery,
			item.Position,
			now,
			item.ID,
			userID,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Str("task_id", item.ID).
				Msg("failed to update task position")
			return nil, err
		}
		affected += tag.RowsAffected()
	}

	err = tx.Commit(ctx)
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to commit transaction")
		return nil, err
	}
	s.logger.Debug().
		Int64("affected", affected).
		Str("user_id", userID).
		Msg("updated task positions")

	tasks, err := s.ListTasks(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("count", len(items)).
		Str("user_id", userID).
		Msg("reordered tasks")
	return tasks, nil
}

func (s *taskServiceImpl) TaskStats(ctx context.Context, userID string) (*TaskStats, error) {
	stats := &TaskStats{}

	const selectTaskStatsQuery = `
SELECT COUNT(*),
       COUNT(*) FILTER (WHERE completed)
FROM tasks
WHERE user_id = $1
`
	err := s.pgPool.QueryRow(
		ctx,
		selectTaskStatsQuery,
		userID,
	).Scan(
		&stats.Total,
		&stats.Completed,
	)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select task stats")
		return nil, err
	}
	stats.Pending = stats.Total - stats.Completed

	s.logger.Debug().
		Int64("total", stats.Total).
		Int64("completed", stats.Completed).
		Str("user_id", userID).
		Msg("selected task stats")
	return stats, nil
}

func scanTasks(rows pgx.Rows, userID string) ([]*models.Task, error) {
	tasks := make([]*models.Task, 0)
	for rows.Next() {
		task := &models.Task{UserID: userID}
		err := rows.Scan(
			&task.ID,
			&task.Text,
			&task.Completed,
			&task.DueDate,
			&task.Position,
			&task.CreatedAt,
			&task.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
