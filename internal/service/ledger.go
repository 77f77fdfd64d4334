package service

import (
	"context"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

// LedgerService is the only writer of coin balances. Credit and Debit join
// the caller's transaction so the balance change commits together with the
// operation that caused it.
type LedgerService struct {
	*runner
}

// Credit adds amount to the balance and today's leaderboard counter and
// appends a ledger entry. It returns the new balance.
func (l *LedgerService) Credit(ctx context.Context, tx repository.Tx, userID, amount int64, reason string, meta map[string]interface{}) (int64, error) {
	if amount < 0 {
		return 0, economy.Fail(economy.ErrInvalidAmount, "credit amount must not be negative")
	}
	return l.adjust(ctx, tx, userID, amount, reason, meta)
}

// Debit removes amount from the balance. It fails with
// economy.ErrInsufficientFunds rather than going negative.
func (l *LedgerService) Debit(ctx context.Context, tx repository.Tx, userID, amount int64, reason string, meta map[string]interface{}) (int64, error) {
	if amount < 0 {
		return 0, economy.Fail(economy.ErrInvalidAmount, "debit amount must not be negative")
	}
	return l.adjust(ctx, tx, userID, -amount, reason, meta)
}

func (l *LedgerService) adjust(ctx context.Context, tx repository.Tx, userID, delta int64, reason string, meta map[string]interface{}) (int64, error) {
	if delta == 0 {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return 0, userErr(err)
		}
		return u.Coins, nil
	}

	balance, err := tx.AdjustCoins(ctx, userID, delta, l.today())
	if err != nil {
		return 0, userErr(err)
	}
	entry := &domain.Transaction{
		UserID:  userID,
		Type:    reason,
		Amount:  delta,
		Balance: balance,
		Meta:    meta,
	}
	if err := tx.InsertTransaction(ctx, entry); err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance returns the spendable coins of userID.
func (l *LedgerService) Balance(ctx context.Context, userID int64) (int64, error) {
	u, err := l.store.GetUser(ctx, userID)
	if err != nil {
		return 0, userErr(err)
	}
	return u.Coins, nil
}

// Transactions returns the newest ledger entries of userID.
func (l *LedgerService) Transactions(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	txs, err := l.store.TransactionsByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return txs, nil
}

func observeCredit(reason string, amount int64) {
	coinsCredited.WithLabelValues(reason).Add(float64(amount))
}

func observeDebit(reason string, amount int64) {
	coinsDebited.WithLabelValues(reason).Add(float64(amount))
}
