package repository

import (
	"context"
	"errors"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"

	"github.com/jackc/pgx/v5"
)

type TaskRepository struct {
	db querier
}

func NewTaskRepository(db querier) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) CreateTask(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, coin_reward, icon_color, is_active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`,
		t.Title, t.Description, t.CoinReward, t.IconColor, t.IsActive,
	).Scan(&t.ID, &t.CreatedAt)
}

// ListTasks returns the catalog in creation order.
func (r *TaskRepository) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, title, description, coin_reward, icon_color, is_active, created_at
		 FROM tasks
		 WHERE is_active OR NOT $1
		 ORDER BY id`,
		activeOnly,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Description, &t.CoinReward, &t.IconColor, &t.IsActive, &t.CreatedAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, title, description, coin_reward, icon_color, is_active, created_at
		 FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Description, &t.CoinReward, &t.IconColor, &t.IsActive, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// SetTaskActive toggles whether a task is offered.
func (r *TaskRepository) SetTaskActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET is_active = $1 WHERE id = $2`, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertTaskCompletion records that a user finished a task. The unique
// constraint on (user_id, task_id) rejects a second completion even across
// racing transactions.
func (r *TaskRepository) InsertTaskCompletion(ctx context.Context, c *domain.TaskCompletion) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO task_completions (user_id, task_id, coins_awarded)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		c.UserID, c.TaskID, c.CoinsAwarded,
	).Scan(&c.ID, &c.CreatedAt)
	if isUniqueViolation(err, "task_completions_user_task_key") {
		return economy.Fail(economy.ErrPreconditionFailed, "task already completed")
	}
	return err
}

// CompletedTaskIDs returns the ids of every task userID has completed.
func (r *TaskRepository) CompletedTaskIDs(ctx context.Context, userID int64) ([]int64, error) {
	rows, err := r.db.Query(ctx,
		`SELECT task_id FROM task_completions WHERE user_id = $1 ORDER BY task_id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
