package domain

import "time"

// Referral exists at most once per referred user.
type Referral struct {
	ID           int64     `db:"id" json:"id"`
	ReferrerID   int64     `db:"referrer_id" json:"referrer_id"`
	ReferredID   int64     `db:"referred_id" json:"referred_id"`
	ReferredName string    `db:"-" json:"referred_name,omitempty"`
	CoinsAwarded int64     `db:"coins_awarded" json:"coins_awarded"`
	BonusPaid    bool      `db:"bonus_paid" json:"bonus_paid"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

type ReferralStats struct {
	Code           string     `json:"code"`
	TotalReferrals int        `json:"total_referrals"`
	TotalEarned    int64      `json:"total_earned"`
	Referrals      []Referral `json:"referrals"`
}
