package repository

import (
	"context"
	"errors"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"

	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db querier
}

func NewUserRepository(db querier) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, COALESCE(name, ''), COALESCE(email, ''), coins, gems, current_level,
	gems_this_level, offer_gate_open, daily_coins, last_reset_date, referral_code, referred_by, created_at`

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.Coins,
		&u.Gems,
		&u.CurrentLevel,
		&u.GemsThisLevel,
		&u.OfferGateOpen,
		&u.DailyCoins,
		&u.LastResetDate,
		&u.ReferralCode,
		&u.ReferredBy,
		&u.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) insertUser(ctx context.Context, u *domain.User) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (name, email, coins, gems, current_level, gems_this_level, offer_gate_open,
		                    daily_coins, last_reset_date, referral_code)
		 VALUES ($1, $2, 0, 0, 1, 0, false, 0, $3, $4)
		 RETURNING id, created_at`,
		u.Name, u.Email, u.LastResetDate, u.ReferralCode,
	).Scan(&u.ID, &u.CreatedAt)
	if isUniqueViolation(err, "users_referral_code_key") {
		return ErrDuplicateCode
	}
	return err
}

func (r *UserRepository) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// LockUser reads the user and holds its row lock until the transaction ends.
func (r *UserRepository) LockUser(ctx context.Context, id int64) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id))
}

// UserByReferralCode finds the account owning code.
func (r *UserRepository) UserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	return scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code))
}

// UpdateProgress writes the level fields and the lifetime gem counter.
func (r *UserRepository) UpdateProgress(ctx context.Context, u *domain.User) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET current_level = $2, gems_this_level = $3, offer_gate_open = $4, gems = $5
		 WHERE id = $1`,
		u.ID, u.CurrentLevel, u.GemsThisLevel, u.OfferGateOpen, u.Gems,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustCoins updates the coin balance in one statement.
func (r *UserRepository) AdjustCoins(ctx context.Context, userID, delta int64, today time.Time) (int64, error) {
	var balance int64
	var err error
	if delta >= 0 {
		err = r.db.QueryRow(ctx,
			`UPDATE users
			 SET coins = coins + $1,
			     daily_coins = CASE WHEN last_reset_date < $3 THEN $1 ELSE daily_coins + $1 END,
			     last_reset_date = GREATEST(last_reset_date, $3)
			 WHERE id = $2
			 RETURNING coins`,
			delta, userID, today,
		).Scan(&balance)
	} else {
		err = r.db.QueryRow(ctx,
			`UPDATE users SET coins = coins + $1 WHERE id = $2 AND coins + $1 >= 0 RETURNING coins`,
			delta, userID,
		).Scan(&balance)
	}
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	// Could be not found or insufficient funds, check which
	var coins int64
	if err := r.db.QueryRow(ctx, `SELECT coins FROM users WHERE id = $1`, userID).Scan(&coins); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return 0, economy.Fail(economy.ErrInsufficientFunds, "need %d coins, balance is %d", -delta, coins)
}

// ResetDaily zeroes the leaderboard counter when its day is stale.
func (r *UserRepository) ResetDaily(ctx context.Context, userID int64, today time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET daily_coins = 0, last_reset_date = $2 WHERE id = $1 AND last_reset_date < $2`,
		userID, today,
	)
	return err
}

// ResetStaleDaily applies the daily reset to every account whose counter
// belongs to an earlier day.
func (r *UserRepository) ResetStaleDaily(ctx context.Context, today time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET daily_coins = 0, last_reset_date = $1 WHERE last_reset_date < $1`,
		today,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// SetReferredBy records the referrer once; the column never changes afterwards.
func (r *UserRepository) SetReferredBy(ctx context.Context, userID, referrerID int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET referred_by = $1 WHERE id = $2 AND referred_by IS NULL`,
		referrerID, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return economy.Fail(economy.ErrAlreadyReferred, "you have already used a referral code")
	}
	return nil
}

// Leaderboard returns users ordered by today's coins, ties by id.
func (r *UserRepository) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, COALESCE(name, ''), daily_coins, current_level
		FROM users
		ORDER BY daily_coins DESC, id ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.LeaderboardEntry
	rank := 1
	for rows.Next() {
		e := domain.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&e.UserID, &e.Name, &e.DailyCoins, &e.CurrentLevel); err != nil {
			return nil, err
		}
		res = append(res, e)
		rank++
	}
	return res, rows.Err()
}

// Rank returns the user's position in the daily leaderboard.
func (r *UserRepository) Rank(ctx context.Context, userID int64) (int, int64, error) {
	var rank int
	var dailyCoins int64
	err := r.db.QueryRow(ctx, `
		WITH ranked AS (
			SELECT id, daily_coins,
			       ROW_NUMBER() OVER (ORDER BY daily_coins DESC, id ASC) AS rank
			FROM users
		)
		SELECT rank, daily_coins FROM ranked WHERE id = $1
	`, userID).Scan(&rank, &dailyCoins)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, ErrNotFound
		}
		return 0, 0, err
	}
	return rank, dailyCoins, nil
}
