package domain

import "time"

// Streak holds the daily ad-slot counters of one user (StreakState).
type Streak struct {
	UserID               int64      `db:"user_id" json:"user_id"`
	StreakCount          int        `db:"streak_count" json:"streak_count"`
	LastClaimedDate      *time.Time `db:"last_claimed_date" json:"last_claimed_date,omitempty"`
	LastClaimedTime      *time.Time `db:"last_claimed_time" json:"last_claimed_time,omitempty"`
	CooldownClaimedAt    *time.Time `db:"cooldown_claimed_at" json:"cooldown_claimed_at,omitempty"`
	AdsWatchedToday      int        `db:"ads_watched_today" json:"ads_watched_today"`
	AdsWatchedDate       *time.Time `db:"ads_watched_date" json:"ads_watched_date,omitempty"`
	TotalCoinsFromStreak int64      `db:"total_coins_from_streak" json:"total_coins_from_streak"`
	UpdatedAt            time.Time  `db:"updated_at" json:"updated_at"`
}
