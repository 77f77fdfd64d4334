package service

import (
	"context"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

// ProgressionService runs the gem collection and level offer cycle.
type ProgressionService struct {
	*runner
	ledger *LedgerService
}

// ProgressResult is returned by RecordGem.
type ProgressResult struct {
	economy.GemOutcome
	Progress economy.Progress `json:"progress"`
}

// AdvanceResult is returned by AdvanceLevel.
type AdvanceResult struct {
	Completed    economy.Level    `json:"completed"`
	CoinsAwarded int64            `json:"coins_awarded"`
	Balance      int64            `json:"balance"`
	Progress     economy.Progress `json:"progress"`
}

// RecordGem adds one gem to the user's current level.
func (s *ProgressionService) RecordGem(ctx context.Context, userID int64) (*ProgressResult, error) {
	const op = "record_gem"
	var res ProgressResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		out, err := economy.RecordGem(u)
		if err != nil {
			return err
		}
		if err := tx.UpdateProgress(ctx, u); err != nil {
			return err
		}
		progress, err := economy.ProgressOf(u)
		if err != nil {
			return err
		}
		res = ProgressResult{GemOutcome: out, Progress: progress}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, op, userID)
	return &res, nil
}

// AdvanceLevel completes the level offer, pays its reward and moves the user
// to the next level.
func (s *ProgressionService) AdvanceLevel(ctx context.Context, userID int64, confirmedSteps int) (*AdvanceResult, error) {
	const op = "advance_level"
	var res AdvanceResult
	err := s.inTx(ctx, op, func(tx repository.Tx) error {
		u, err := tx.LockUser(ctx, userID)
		if err != nil {
			return userErr(err)
		}
		done, err := economy.AdvanceLevel(u, confirmedSteps)
		if err != nil {
			return err
		}
		if err := tx.UpdateProgress(ctx, u); err != nil {
			return err
		}
		balance, err := s.ledger.Credit(ctx, tx, userID, done.CoinsAwarded, domain.TxLevelOffer, map[string]interface{}{
			"level":      done.Number,
			"offer_type": string(done.OfferType),
		})
		if err != nil {
			return err
		}
		if err := tx.InsertOffer(ctx, &domain.OfferHistory{
			UserID:       userID,
			Level:        done.Number,
			OfferType:    done.OfferType,
			CoinsAwarded: done.CoinsAwarded,
		}); err != nil {
			return err
		}
		progress, err := economy.ProgressOf(u)
		if err != nil {
			return err
		}
		res = AdvanceResult{
			Completed:    done,
			CoinsAwarded: done.CoinsAwarded,
			Balance:      balance,
			Progress:     progress,
		}
		return nil
	})
	s.finish(ctx, op, userID, err)
	if err != nil {
		return nil, err
	}
	observeCredit(domain.TxLevelOffer, res.CoinsAwarded)
	s.publish(ctx, op, userID)
	return &res, nil
}

// Progress returns the level state of userID.
func (s *ProgressionService) Progress(ctx context.Context, userID int64) (*economy.Progress, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	p, err := economy.ProgressOf(u)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// OfferHistory lists completed level offers, newest first.
func (s *ProgressionService) OfferHistory(ctx context.Context, userID int64, limit int) ([]domain.OfferHistory, error) {
	offers, err := s.store.OffersByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []domain.OfferHistory{}
	}
	return offers, nil
}
