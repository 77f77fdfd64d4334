package service

import (
	"context"
	"errors"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/logger"
	"cashdunia/internal/repository"

	redis "github.com/redis/go-redis/v9"
)

// Notifier receives account snapshots after committed operations.
// Implementations must not block.
type Notifier interface {
	Publish(userID int64, ev domain.AccountEvent)
}

// Options configures the economy engines.
type Options struct {
	Store       repository.Store
	Calendar    economy.Calendar
	Clock       func() time.Time
	MaxAttempts int
	Notifier    Notifier

	// Cache is optional; leaderboard snapshots are not cached when nil.
	Cache    *redis.Client
	CacheTTL time.Duration
}

// Engine groups the economy engines over one store.
type Engine struct {
	Accounts    *AccountService
	Ledger      *LedgerService
	Progression *ProgressionService
	Streaks     *StreakService
	Leaderboard *LeaderboardService
	Withdrawals *WithdrawalService
	Referrals   *ReferralService
	Tasks       *TaskService
}

// New builds every engine from opts.
func New(opts Options) *Engine {
	r := newRunner(opts)
	ledger := &LedgerService{runner: r}
	return &Engine{
		Accounts:    &AccountService{runner: r},
		Ledger:      ledger,
		Progression: &ProgressionService{runner: r, ledger: ledger},
		Streaks:     &StreakService{runner: r, ledger: ledger},
		Leaderboard: NewLeaderboardService(r, opts.Cache, opts.CacheTTL),
		Withdrawals: &WithdrawalService{runner: r, ledger: ledger},
		Referrals:   &ReferralService{runner: r, ledger: ledger},
		Tasks:       &TaskService{runner: r, ledger: ledger},
	}
}

// runner holds what every engine shares: the store, the clock and the
// conflict retry policy.
type runner struct {
	store       repository.Store
	cal         economy.Calendar
	now         func() time.Time
	maxAttempts uint
	notifier    Notifier
}

func newRunner(opts Options) *runner {
	r := &runner{
		store:       opts.Store,
		cal:         opts.Calendar,
		now:         opts.Clock,
		maxAttempts: 5,
		notifier:    opts.Notifier,
	}
	if r.now == nil {
		r.now = time.Now
	}
	if opts.MaxAttempts > 0 {
		r.maxAttempts = uint(opts.MaxAttempts)
	}
	return r
}

func (r *runner) today() time.Time {
	return r.cal.Day(r.now())
}

// finish records metrics and the log line of a completed operation.
func (r *runner) finish(ctx context.Context, op string, userID int64, err error) {
	operationsTotal.WithLabelValues(op, resultLabel(err)).Inc()
	log := logger.WithContext(ctx).With("op", op, "user_id", userID)
	switch {
	case err == nil:
		log.Info("economy operation applied")
	case economy.IsRuleViolation(err):
		log.Warn("economy operation rejected", "code", economy.Code(err), "reason", economy.Reason(err))
	default:
		log.Error("economy operation failed", "error", err)
	}
}

// publish pushes the committed account state of userID to live connections.
func (r *runner) publish(ctx context.Context, op string, userID int64) {
	if r.notifier == nil {
		return
	}
	u, err := r.store.GetUser(ctx, userID)
	if err != nil {
		logger.WithContext(ctx).Debug("skip account event", "user_id", userID, "error", err)
		return
	}
	r.notifier.Publish(userID, domain.AccountEvent{
		Type:          domain.EventAccountUpdated,
		Op:            op,
		UserID:        userID,
		Coins:         u.Coins,
		DailyCoins:    u.DailyCoins,
		Level:         u.CurrentLevel,
		GemsThisLevel: u.GemsThisLevel,
		OfferGateOpen: u.OfferGateOpen,
	})
}

// userErr turns a missing row into the user facing kind.
func userErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return economy.Fail(economy.ErrUserNotFound, "user not found")
	}
	return err
}
