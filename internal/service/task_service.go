package service

import (
	"context"
	"errors"
	"strings"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/logger"
	"cashdunia/internal/repository"
)

// TaskService pays the one-off rewards of the task catalog.
type TaskService struct {
	*runner
	ledger *LedgerService
}

// TaskView is a catalog entry as seen by one user.
type TaskView struct {
	domain.Task
	Completed bool `json:"completed"`
}

// TaskResult is returned by CompleteTask.
type TaskResult struct {
	TaskID       int64 `json:"task_id"`
	CoinsAwarded int64 `json:"coins_awarded"`
	Balance      int64 `json:"balance"`
}

// Tasks lists the active tasks and whether userID already completed each.
func (s *TaskService) Tasks(ctx context.Context, userID int64) ([]TaskView, error) {
	tasks, err := s.store.ListTasks(ctx, true)
	if err != nil {
		return nil, err
	}
	done, err := s.store.CompletedTaskIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	completed := make(map[int64]bool, len(done))
	for _, id := range done {
		completed[id] = true
	}
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, TaskView{Task: t, Completed: completed[t.ID]})
	}
	return views, nil
}

// CompleteTask credits the reward of taskID to userID. Each task pays a
// user at most once.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID int64) (*TaskResult, error) {
	const op = "complete_task"
	var res TaskResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		if _, err := tx.LockUser(ctx, userID); err != nil {
			return userErr(err)
		}
		task, err := tx.GetTask(ctx, taskID)
		if errors.Is(err, repository.ErrNotFound) {
			return economy.Fail(economy.ErrTaskNotFound, "task %d not found", taskID)
		}
		if err != nil {
			return err
		}
		if err := economy.CheckTaskClaimable(task); err != nil {
			return err
		}
		if err := tx.InsertTaskCompletion(ctx, &domain.TaskCompletion{
			UserID:       userID,
			TaskID:       task.ID,
			CoinsAwarded: task.CoinReward,
		}); err != nil {
			return err
		}
		balance, err := s.ledger.Credit(ctx, tx, userID, task.CoinReward, domain.TxTaskReward, map[string]interface{}{
			"task_id": task.ID,
		})
		if err != nil {
			return err
		}
		res = TaskResult{TaskID: task.ID, CoinsAwarded: task.CoinReward, Balance: balance}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	observeCredit(domain.TxTaskReward, res.CoinsAwarded)
	s.publish(ctx, op, userID)
	return &res, nil
}

// CreateTask adds an active task to the catalog.
func (s *TaskService) CreateTask(ctx context.Context, t *domain.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	if t.Title == "" {
		return economy.Fail(economy.ErrPreconditionFailed, "task title is required")
	}
	t.IsActive = true
	if err := economy.CheckTaskClaimable(t); err != nil {
		return err
	}
	return s.store.CreateTask(ctx, t)
}

// SetActive retires or restores taskID.
func (s *TaskService) SetActive(ctx context.Context, taskID int64, active bool) error {
	err := s.store.SetTaskActive(ctx, taskID, active)
	if errors.Is(err, repository.ErrNotFound) {
		return economy.Fail(economy.ErrTaskNotFound, "task %d not found", taskID)
	}
	return err
}

// SeedCatalog installs tasks when the store holds none yet.
func (s *TaskService) SeedCatalog(ctx context.Context, tasks []domain.Task) (int, error) {
	existing, err := s.store.ListTasks(ctx, false)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i := range tasks {
		if err := s.store.CreateTask(ctx, &tasks[i]); err != nil {
			return i, err
		}
	}
	logger.WithContext(ctx).Info("task catalog seeded", "count", len(tasks))
	return len(tasks), nil
}
