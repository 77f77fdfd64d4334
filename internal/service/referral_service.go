package service

import (
	"context"
	"errors"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

// ReferralService redeems referral codes and reports referral earnings.
type ReferralService struct {
	*runner
	ledger *LedgerService
}

// ApplyResult is returned by ApplyReferralCode.
type ApplyResult struct {
	ReferrerID   int64 `json:"referrer_id"`
	CoinsAwarded int64 `json:"coins_awarded"`
}

// ApplyReferralCode links userID to the owner of code and pays the owner
// the referral bonus. A user can be referred once.
func (s *ReferralService) ApplyReferralCode(ctx context.Context, userID int64, code string) (*ApplyResult, error) {
	const op = "apply_referral"
	var res ApplyResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		if _, err := tx.LockUser(ctx, userID); err != nil {
			return userErr(err)
		}
		already, err := tx.HasReferral(ctx, userID)
		if err != nil {
			return err
		}
		referrer, err := tx.UserByReferralCode(ctx, economy.NormalizeCode(code))
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := economy.CheckReferral(userID, already, referrer); err != nil {
			return err
		}

		if err := tx.SetReferredBy(ctx, userID, referrer.ID); err != nil {
			return err
		}
		if err := tx.InsertReferral(ctx, &domain.Referral{
			ReferrerID:   referrer.ID,
			ReferredID:   userID,
			CoinsAwarded: economy.ReferralBonus,
			BonusPaid:    true,
		}); err != nil {
			return err
		}
		if _, err := s.ledger.Credit(ctx, tx, referrer.ID, economy.ReferralBonus, domain.TxReferralBonus, map[string]interface{}{
			"referred_id": userID,
		}); err != nil {
			return err
		}
		res = ApplyResult{ReferrerID: referrer.ID, CoinsAwarded: economy.ReferralBonus}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	observeCredit(domain.TxReferralBonus, res.CoinsAwarded)
	s.publish(ctx, op, res.ReferrerID)
	return &res, nil
}

// ReferralStats summarizes what userID earned from referrals.
func (s *ReferralService) ReferralStats(ctx context.Context, userID int64) (*domain.ReferralStats, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	refs, err := s.store.ReferralsByReferrer(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats := &domain.ReferralStats{
		Code:           u.ReferralCode,
		TotalReferrals: len(refs),
		Referrals:      refs,
	}
	if stats.Referrals == nil {
		stats.Referrals = []domain.Referral{}
	}
	for _, r := range refs {
		if r.BonusPaid {
			stats.TotalEarned += r.CoinsAwarded
		}
	}
	return stats, nil
}
