package service

import (
	"context"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

// StreakService runs the daily rewarded-ad slots.
type StreakService struct {
	*runner
	ledger *LedgerService
}

// ClaimResult is returned by ClaimSlot.
type ClaimResult struct {
	Slot    int                   `json:"slot"`
	Reward  int64                 `json:"reward"`
	Balance int64                 `json:"balance"`
	Streak  economy.StreakSummary `json:"streak"`
}

// Slots evaluates all reward slots of userID at the current instant.
func (s *StreakService) Slots(ctx context.Context, userID int64) (*economy.StreakSummary, error) {
	st, err := s.store.GetStreak(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	now := s.now()
	summary := economy.Summarize(st, s.cal.Day(now), now)
	return &summary, nil
}

// ClaimSlot pays out slot after its rewarded ad completed.
func (s *StreakService) ClaimSlot(ctx context.Context, userID int64, slot int) (*ClaimResult, error) {
	const op = "claim_slot"
	var res ClaimResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		st, err := tx.LockStreak(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		now := s.now()
		today := s.cal.Day(now)
		reward, err := economy.ClaimSlot(st, slot, today, now)
		if err != nil {
			return err
		}
		if err := tx.UpdateStreak(ctx, st); err != nil {
			return err
		}
		balance, err := s.ledger.Credit(ctx, tx, userID, reward, domain.TxStreakSlot, map[string]interface{}{
			"slot":   slot,
			"streak": st.StreakCount,
		})
		if err != nil {
			return err
		}
		res = ClaimResult{
			Slot:    slot,
			Reward:  reward,
			Balance: balance,
			Streak:  economy.Summarize(st, today, now),
		}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	observeCredit(domain.TxStreakSlot, res.Reward)
	s.publish(ctx, op, userID)
	return &res, nil
}
