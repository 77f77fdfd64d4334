package service

import (
	"context"
	"errors"
	"strings"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/logger"
	"cashdunia/internal/repository"
)

const codeAttempts = 5

// AccountService creates economy accounts and serves the profile view.
type AccountService struct {
	*runner
}

// Register creates an account at level 1 with a fresh referral code and an
// empty streak.
func (s *AccountService) Register(ctx context.Context, name, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, economy.Fail(economy.ErrPreconditionFailed, "name is required")
	}

	for i := 0; i < codeAttempts; i++ {
		code, err := economy.GenerateReferralCode()
		if err != nil {
			return nil, err
		}
		u := &domain.User{
			Name:          name,
			Email:         strings.TrimSpace(email),
			CurrentLevel:  1,
			LastResetDate: s.today(),
			ReferralCode:  code,
		}
		err = s.store.CreateUser(ctx, u, &domain.Streak{})
		if errors.Is(err, repository.ErrDuplicateCode) {
			continue
		}
		if err != nil {
			return nil, err
		}
		logger.WithContext(ctx).Info("account registered", "user_id", u.ID)
		return u, nil
	}
	return nil, errors.New("could not allocate a unique referral code")
}

// Profile returns the account of userID with today's counter reset applied.
func (s *AccountService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	today := s.today()
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	if !u.LastResetDate.Before(today) {
		return u, nil
	}
	err = s.inTx(ctx, "reset_daily", func(tx repository.Tx) error {
		return tx.ResetDaily(ctx, userID, today)
	})
	if err != nil {
		return nil, err
	}
	economy.ResetDailyIfStale(u, today)
	return u, nil
}
