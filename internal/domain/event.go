package domain

// AccountEvent is pushed to every live connection of a user after one of
// their economy operations commits.
type AccountEvent struct {
	Type          string `json:"type"`
	Op            string `json:"op"`
	UserID        int64  `json:"user_id"`
	Coins         int64  `json:"coins"`
	DailyCoins    int64  `json:"daily_coins"`
	Level         int    `json:"level"`
	GemsThisLevel int    `json:"gems_this_level"`
	OfferGateOpen bool   `json:"offer_gate_open"`
}

const EventAccountUpdated = "account_updated"
