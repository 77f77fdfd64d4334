package repository

import (
	"context"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
)

type ReferralRepository struct {
	db querier
}

func NewReferralRepository(db querier) *ReferralRepository {
	return &ReferralRepository{db: db}
}

// HasReferral checks if a user has already redeemed a code
func (r *ReferralRepository) HasReferral(ctx context.Context, referredID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM referrals WHERE referred_id = $1)`,
		referredID,
	).Scan(&exists)
	return exists, err
}

// InsertReferral records a redemption. The unique index on referred_id
// guarantees one referral per user even across racing transactions.
func (r *ReferralRepository) InsertReferral(ctx context.Context, ref *domain.Referral) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO referrals (referrer_id, referred_id, coins_awarded, bonus_paid)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		ref.ReferrerID, ref.ReferredID, ref.CoinsAwarded, ref.BonusPaid,
	).Scan(&ref.ID, &ref.CreatedAt)
	if isUniqueViolation(err, "referrals_referred_id_key") {
		return economy.Fail(economy.ErrAlreadyReferred, "you have already used a referral code")
	}
	return err
}

// ReferralsByReferrer returns all referrals made by a user
func (r *ReferralRepository) ReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	rows, err := r.db.Query(ctx,
		`SELECT r.id, r.referrer_id, r.referred_id, COALESCE(u.name, ''), r.coins_awarded, r.bonus_paid, r.created_at
		 FROM referrals r
		 LEFT JOIN users u ON u.id = r.referred_id
		 WHERE r.referrer_id = $1
		 ORDER BY r.created_at DESC, r.id DESC`,
		referrerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var referrals []domain.Referral
	for rows.Next() {
		var ref domain.Referral
		if err := rows.Scan(&ref.ID, &ref.ReferrerID, &ref.ReferredID, &ref.ReferredName,
			&ref.CoinsAwarded, &ref.BonusPaid, &ref.CreatedAt); err != nil {
			return nil, err
		}
		referrals = append(referrals, ref)
	}
	return referrals, rows.Err()
}
