package economy

import (
	"time"

	"cashdunia/internal/domain"
)

// ApplyCredit adds amount to both the spendable balance and today's
// leaderboard counter of u.
func ApplyCredit(u *domain.User, amount int64, today time.Time) error {
	if amount < 0 {
		return Fail(ErrInvalidAmount, "credit amount must not be negative")
	}
	ResetDailyIfStale(u, today)
	u.Coins += amount
	u.DailyCoins += amount
	return nil
}

// ApplyDebit removes amount from the spendable balance only.
func ApplyDebit(u *domain.User, amount int64) error {
	if amount < 0 {
		return Fail(ErrInvalidAmount, "debit amount must not be negative")
	}
	if u.Coins < amount {
		return Fail(ErrInsufficientFunds, "need %d coins, balance is %d", amount, u.Coins)
	}
	u.Coins -= amount
	return nil
}
