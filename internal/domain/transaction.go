package domain

import "time"

// Transaction is one CoinLedger adjustment. Amount is negative for debits.
type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	UserID    int64                  `db:"user_id" json:"user_id"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Balance   int64                  `db:"balance" json:"balance"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

// Ledger reasons
const (
	TxLevelOffer    = "level_offer"
	TxStreakSlot    = "streak_slot"
	TxReferralBonus = "referral_bonus"
	TxWithdrawal    = "withdrawal"
	TxTaskReward    = "task_reward"
)
