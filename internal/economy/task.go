package economy

import "cashdunia/internal/domain"

// DefaultTasks is the catalog installed into an empty store.
func DefaultTasks() []domain.Task {
	return []domain.Task{
		{Title: "Watch a video", Description: "Watch a short sponsored video", CoinReward: 10, IconColor: "#6C5CE7", IsActive: true},
		{Title: "Rate the app", Description: "Leave a rating on the store", CoinReward: 20, IconColor: "#00B894", IsActive: true},
		{Title: "Complete a survey", Description: "Answer a five minute survey", CoinReward: 30, IconColor: "#FDCB6E", IsActive: true},
		{Title: "Install an app", Description: "Install and open a partner app", CoinReward: 50, IconColor: "#E17055", IsActive: true},
	}
}

// CheckTaskClaimable reports whether t can be completed now.
func CheckTaskClaimable(t *domain.Task) error {
	if !t.IsActive {
		return Fail(ErrPreconditionFailed, "task %q is no longer available", t.Title)
	}
	if t.CoinReward <= 0 {
		return Fail(ErrInvalidAmount, "task %q has no reward", t.Title)
	}
	return nil
}
