package repository

import (
	"context"
	"errors"
	"time"

	"cashdunia/internal/domain"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("concurrent update conflict")
	ErrDuplicateCode = errors.New("referral code already taken")
)

// Tx is the transactional view of the store handed to one engine operation.
// Records returned by the Lock* methods stay consistent until the
// transaction ends; writes become visible atomically on commit.
type Tx interface {
	LockUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateProgress(ctx context.Context, u *domain.User) error
	// AdjustCoins applies delta to the balance atomically. Positive deltas
	// also count towards today's leaderboard total. A debit that would make
	// the balance negative fails with economy.ErrInsufficientFunds.
	AdjustCoins(ctx context.Context, userID, delta int64, today time.Time) (int64, error)
	ResetDaily(ctx context.Context, userID int64, today time.Time) error
	SetReferredBy(ctx context.Context, userID, referrerID int64) error

	LockStreak(ctx context.Context, userID int64) (*domain.Streak, error)
	UpdateStreak(ctx context.Context, s *domain.Streak) error

	InsertOffer(ctx context.Context, o *domain.OfferHistory) error
	InsertWithdrawal(ctx context.Context, w *domain.Withdrawal) error
	LockWithdrawal(ctx context.Context, id int64) (*domain.Withdrawal, error)
	UpdateWithdrawalStatus(ctx context.Context, w *domain.Withdrawal) error

	HasReferral(ctx context.Context, referredID int64) (bool, error)
	UserByReferralCode(ctx context.Context, code string) (*domain.User, error)
	InsertReferral(ctx context.Context, r *domain.Referral) error

	InsertTransaction(ctx context.Context, t *domain.Transaction) error

	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	// InsertTaskCompletion fails with economy.ErrPreconditionFailed when the
	// user already completed the task.
	InsertTaskCompletion(ctx context.Context, c *domain.TaskCompletion) error
}

// Store is the persistence collaborator of the economy engines.
type Store interface {
	// InTx runs fn in one transaction. Errors wrapping ErrConflict are
	// transient and may be retried by the caller.
	InTx(ctx context.Context, fn func(tx Tx) error) error

	CreateUser(ctx context.Context, u *domain.User, s *domain.Streak) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetStreak(ctx context.Context, userID int64) (*domain.Streak, error)

	ResetStaleDaily(ctx context.Context, today time.Time) (int64, error)
	Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	Rank(ctx context.Context, userID int64) (int, int64, error)

	OffersByUser(ctx context.Context, userID int64, limit int) ([]domain.OfferHistory, error)
	WithdrawalsByUser(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error)
	ReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.Referral, error)
	TransactionsByUser(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)

	CreateTask(ctx context.Context, t *domain.Task) error
	ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error)
	SetTaskActive(ctx context.Context, id int64, active bool) error
	CompletedTaskIDs(ctx context.Context, userID int64) ([]int64, error)

	Ping(ctx context.Context) error
}

func defaultLimit(limit int) int {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}
