package service

import (
	"context"
	"errors"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

// WithdrawalService validates payout requests and reserves their coins.
type WithdrawalService struct {
	*runner
	ledger *LedgerService
}

// WithdrawalResult is returned by RequestWithdrawal.
type WithdrawalResult struct {
	Withdrawal *domain.Withdrawal `json:"withdrawal"`
	Balance    int64              `json:"balance"`
}

// Tiers lists the fixed payout tiers.
func (s *WithdrawalService) Tiers() []economy.Tier {
	return economy.Tiers()
}

// Methods lists the payout methods offered to users.
func (s *WithdrawalService) Methods() []string {
	return economy.Methods()
}

// RequestWithdrawal debits the tier amount and files a pending request in
// one transaction.
func (s *WithdrawalService) RequestWithdrawal(ctx context.Context, userID, tierCoins int64, method, address string) (*WithdrawalResult, error) {
	const op = "request_withdrawal"
	var res WithdrawalResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		w, err := economy.ValidateWithdrawal(u.Coins, tierCoins, method, address)
		if err != nil {
			return err
		}
		w.UserID = userID
		if err := tx.InsertWithdrawal(ctx, w); err != nil {
			return err
		}
		balance, err := s.ledger.Debit(ctx, tx, userID, w.TierCoins, domain.TxWithdrawal, map[string]interface{}{
			"withdrawal_id": w.ID,
			"method":        w.Method,
			"rs":            w.RsValue,
		})
		if err != nil {
			return err
		}
		res = WithdrawalResult{Withdrawal: w, Balance: balance}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	observeDebit(domain.TxWithdrawal, res.Withdrawal.TierCoins)
	s.publish(ctx, op, userID)
	return &res, nil
}

// Withdrawals lists the requests of userID, newest first.
func (s *WithdrawalService) Withdrawals(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	ws, err := s.store.WithdrawalsByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		ws = []domain.Withdrawal{}
	}
	return ws, nil
}

// UpdateWithdrawalStatus is the operator transition of a request:
// pending to processing, then processing to paid or failed.
func (s *WithdrawalService) UpdateWithdrawalStatus(ctx context.Context, id int64, status domain.WithdrawalStatus, note string) (*domain.Withdrawal, error) {
	const op = "update_withdrawal_status"
	var out *domain.Withdrawal
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		w, err := tx.LockWithdrawal(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return economy.Fail(economy.ErrWithdrawalNotFound, "withdrawal %d not found", id)
			}
			return err
		}
		if err := economy.CheckTransition(w.Status, status); err != nil {
			return err
		}
		w.Status = status
		if note != "" {
			w.AdminNotes = note
		}
		if err := tx.UpdateWithdrawalStatus(ctx, w); err != nil {
			return err
		}
		out = w
		return nil
	})
	var userID int64
	if out != nil {
		userID = out.UserID
	}
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	return out, nil
}
