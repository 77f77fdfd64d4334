package repository

import (
	"context"
	"errors"

	"cashdunia/internal/domain"

	"github.com/jackc/pgx/v5"
)

type StreakRepository struct {
	db querier
}

func NewStreakRepository(db querier) *StreakRepository {
	return &StreakRepository{db: db}
}

const streakColumns = `user_id, streak_count, last_claimed_date, last_claimed_time, cooldown_claimed_at,
	ads_watched_today, ads_watched_date, total_coins_from_streak, updated_at`

func scanStreak(row pgx.Row) (*domain.Streak, error) {
	var s domain.Streak
	if err := row.Scan(
		&s.UserID,
		&s.StreakCount,
		&s.LastClaimedDate,
		&s.LastClaimedTime,
		&s.CooldownClaimedAt,
		&s.AdsWatchedToday,
		&s.AdsWatchedDate,
		&s.TotalCoinsFromStreak,
		&s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *StreakRepository) insertStreak(ctx context.Context, s *domain.Streak) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO user_streaks (user_id) VALUES ($1) RETURNING updated_at`,
		s.UserID,
	).Scan(&s.UpdatedAt)
}

func (r *StreakRepository) GetStreak(ctx context.Context, userID int64) (*domain.Streak, error) {
	return scanStreak(r.db.QueryRow(ctx, `SELECT `+streakColumns+` FROM user_streaks WHERE user_id = $1`, userID))
}

// LockStreak reads the streak row and holds its lock until the transaction ends.
func (r *StreakRepository) LockStreak(ctx context.Context, userID int64) (*domain.Streak, error) {
	return scanStreak(r.db.QueryRow(ctx, `SELECT `+streakColumns+` FROM user_streaks WHERE user_id = $1 FOR UPDATE`, userID))
}

func (r *StreakRepository) UpdateStreak(ctx context.Context, s *domain.Streak) error {
	return r.db.QueryRow(ctx,
		`UPDATE user_streaks
		 SET streak_count = $2, last_claimed_date = $3, last_claimed_time = $4, cooldown_claimed_at = $5,
		     ads_watched_today = $6, ads_watched_date = $7, total_coins_from_streak = $8, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING updated_at`,
		s.UserID, s.StreakCount, s.LastClaimedDate, s.LastClaimedTime, s.CooldownClaimedAt,
		s.AdsWatchedToday, s.AdsWatchedDate, s.TotalCoinsFromStreak,
	).Scan(&s.UpdatedAt)
}
