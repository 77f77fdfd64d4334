package repository

import (
	"context"
	"errors"
	"time"

	"cashdunia/internal/domain"

	"github.com/jackc/pgx/v5"
)

type WithdrawalRepository struct {
	db querier
}

func NewWithdrawalRepository(db querier) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

const withdrawalColumns = `id, user_id, tier_coins, rs_value, method, payment_address, status,
	admin_notes, requested_at, updated_at`

// InsertWithdrawal creates a new payout request
func (r *WithdrawalRepository) InsertWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO withdrawals (user_id, tier_coins, rs_value, method, payment_address, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, requested_at
	`, w.UserID, w.TierCoins, w.RsValue, w.Method, w.PaymentAddress, w.Status).Scan(&w.ID, &w.RequestedAt)
}

// LockWithdrawal retrieves a withdrawal and locks it for a status change
func (r *WithdrawalRepository) LockWithdrawal(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	row := r.db.QueryRow(ctx, `SELECT `+withdrawalColumns+` FROM withdrawals WHERE id = $1 FOR UPDATE`, id)
	w, err := scanWithdrawal(row)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, ErrNotFound
	}
	return w, nil
}

// UpdateWithdrawalStatus stores the operator's status change
func (r *WithdrawalRepository) UpdateWithdrawalStatus(ctx context.Context, w *domain.Withdrawal) error {
	now := time.Now()
	tag, err := r.db.Exec(ctx, `
		UPDATE withdrawals SET status = $2, admin_notes = $3, updated_at = $4 WHERE id = $1
	`, w.ID, w.Status, w.AdminNotes, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	w.UpdatedAt = &now
	return nil
}

// WithdrawalsByUser retrieves a user's withdrawals, newest first
func (r *WithdrawalRepository) WithdrawalsByUser(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+withdrawalColumns+`
		FROM withdrawals
		WHERE user_id = $1
		ORDER BY requested_at DESC, id DESC
		LIMIT $2
	`, userID, defaultLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWithdrawals(rows)
}

func scanWithdrawal(row pgx.Row) (*domain.Withdrawal, error) {
	var w domain.Withdrawal
	var adminNotes *string

	if err := row.Scan(
		&w.ID, &w.UserID, &w.TierCoins, &w.RsValue, &w.Method, &w.PaymentAddress, &w.Status,
		&adminNotes, &w.RequestedAt, &w.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	if adminNotes != nil {
		w.AdminNotes = *adminNotes
	}
	return &w, nil
}

func scanWithdrawals(rows pgx.Rows) ([]domain.Withdrawal, error) {
	var withdrawals []domain.Withdrawal

	for rows.Next() {
		var w domain.Withdrawal
		var adminNotes *string

		if err := rows.Scan(
			&w.ID, &w.UserID, &w.TierCoins, &w.RsValue, &w.Method, &w.PaymentAddress, &w.Status,
			&adminNotes, &w.RequestedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}

		if adminNotes != nil {
			w.AdminNotes = *adminNotes
		}
		withdrawals = append(withdrawals, w)
	}

	return withdrawals, rows.Err()
}
