package domain

import "time"

// Withdrawal is a payout request. Only Status (and the operator note) ever change.
type Withdrawal struct {
	ID             int64            `db:"id" json:"id"`
	UserID         int64            `db:"user_id" json:"user_id"`
	TierCoins      int64            `db:"tier_coins" json:"tier_coins"`
	RsValue        int64            `db:"rs_value" json:"rs_value"`
	Method         string           `db:"method" json:"method"`
	PaymentAddress string           `db:"payment_address" json:"payment_address"`
	Status         WithdrawalStatus `db:"status" json:"status"`
	AdminNotes     string           `db:"admin_notes" json:"admin_notes,omitempty"`
	RequestedAt    time.Time        `db:"requested_at" json:"requested_at"`
	UpdatedAt      *time.Time       `db:"updated_at" json:"updated_at,omitempty"`
}

// WithdrawalStatus represents withdrawal processing status
type WithdrawalStatus string

const (
	WithdrawalStatusPending    WithdrawalStatus = "pending"
	WithdrawalStatusProcessing WithdrawalStatus = "processing"
	WithdrawalStatusPaid       WithdrawalStatus = "paid"
	WithdrawalStatusFailed     WithdrawalStatus = "failed"
)

// WithdrawRequest is the request body of a new withdrawal.
type WithdrawRequest struct {
	TierCoins int64  `json:"tier_coins" binding:"required"`
	Method    string `json:"method" binding:"required"`
	Address   string `json:"address" binding:"required"`
}
