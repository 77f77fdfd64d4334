package domain

import "time"

// User is the per-account economy record (UserAccount).
type User struct {
	ID            int64     `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	Email         string    `db:"email" json:"email,omitempty"`
	Coins         int64     `db:"coins" json:"coins"`
	Gems          int64     `db:"gems" json:"gems"`
	CurrentLevel  int       `db:"current_level" json:"current_level"`
	GemsThisLevel int       `db:"gems_this_level" json:"gems_this_level"`
	OfferGateOpen bool      `db:"offer_gate_open" json:"offer_gate_open"`
	DailyCoins    int64     `db:"daily_coins" json:"daily_coins"`
	LastResetDate time.Time `db:"last_reset_date" json:"last_reset_date"`
	ReferralCode  string    `db:"referral_code" json:"referral_code"`
	ReferredBy    *int64    `db:"referred_by" json:"referred_by,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// LeaderboardEntry is one ranked row of the daily leaderboard.
type LeaderboardEntry struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	Name         string `json:"name"`
	DailyCoins   int64  `json:"daily_coins"`
	CurrentLevel int    `json:"current_level"`
}
