package domain

import "time"

// Task is a catalog entry paying CoinReward once per user.
type Task struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	CoinReward  int64     `db:"coin_reward" json:"coin_reward"`
	IconColor   string    `db:"icon_color" json:"icon_color"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

type TaskCompletion struct {
	ID           int64     `db:"id" json:"id"`
	UserID       int64     `db:"user_id" json:"user_id"`
	TaskID       int64     `db:"task_id" json:"task_id"`
	CoinsAwarded int64     `db:"coins_awarded" json:"coins_awarded"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
