package economy

import (
	"sort"
	"time"

	"cashdunia/internal/domain"
)

const (
	DefaultLeaderboardLimit = 50
	MaxLeaderboardLimit     = 100
)

// ClampLimit bounds a requested leaderboard size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLeaderboardLimit
	}
	if limit > MaxLeaderboardLimit {
		return MaxLeaderboardLimit
	}
	return limit
}

// ResetDailyIfStale zeroes the daily counter when its day precedes today.
func ResetDailyIfStale(u *domain.User, today time.Time) bool {
	if !u.LastResetDate.Before(today) {
		return false
	}
	u.DailyCoins = 0
	u.LastResetDate = today
	return true
}

// RankUsers orders users by daily coins (desc), then id (asc), and returns
// the first limit entries with 1-based ranks.
func RankUsers(users []domain.User, limit int) []domain.LeaderboardEntry {
	sorted := make([]domain.User, len(users))
	copy(sorted, users)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].DailyCoins != sorted[j].DailyCoins {
			return sorted[i].DailyCoins > sorted[j].DailyCoins
		}
		return sorted[i].ID < sorted[j].ID
	})
	if limit > 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	out := make([]domain.LeaderboardEntry, len(sorted))
	for i, u := range sorted {
		out[i] = domain.LeaderboardEntry{
			Rank:         i + 1,
			UserID:       u.ID,
			Name:         u.Name,
			DailyCoins:   u.DailyCoins,
			CurrentLevel: u.CurrentLevel,
		}
	}
	return out
}
