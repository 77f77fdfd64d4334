package economy

import (
	"time"

	"cashdunia/internal/domain"
)

// SlotCount is the number of daily reward slots.
const SlotCount = 7

// CooldownPeriod gates slot 2 after its own last claim.
const CooldownPeriod = 24 * time.Hour

var slotRewards = [SlotCount]int64{5, 12, 20, 27, 35, 40, 50}

type SlotState string

const (
	SlotAvailable SlotState = "available"
	SlotClaimed   SlotState = "claimed"
	SlotCooldown  SlotState = "cooldown"
	SlotLocked    SlotState = "locked"
)

// Slot is the evaluated state of one reward slot at a given instant.
type Slot struct {
	Number            int           `json:"slot"`
	Reward            int64         `json:"reward"`
	State             SlotState     `json:"state"`
	CooldownRemaining time.Duration `json:"-"`
	CooldownSeconds   int64         `json:"cooldown_seconds,omitempty"`
	RequiredStreak    int           `json:"required_streak,omitempty"`
}

// SlotReward returns the payout of slot (1-indexed).
func SlotReward(slot int) (int64, error) {
	if slot < 1 || slot > SlotCount {
		return 0, Fail(ErrPreconditionFailed, "unknown reward slot %d", slot)
	}
	return slotRewards[slot-1], nil
}

// AdsWatchedToday applies the lazy day reset: counters recorded on another
// day read as zero.
func AdsWatchedToday(s *domain.Streak, today time.Time) int {
	if s.AdsWatchedDate == nil || !SameDay(*s.AdsWatchedDate, today) {
		return 0
	}
	return s.AdsWatchedToday
}

// EvaluateSlot computes the state of slot for the given day and instant.
func EvaluateSlot(s *domain.Streak, slot int, today, now time.Time) Slot {
	reward, _ := SlotReward(slot)
	out := Slot{Number: slot, Reward: reward}
	ads := AdsWatchedToday(s, today)

	if ads >= slot {
		out.State = SlotClaimed
		return out
	}

	switch {
	case slot == 1:
		out.State = SlotAvailable
	case slot == 2:
		if ads < 1 {
			out.State = SlotLocked
			return out
		}
		if s.CooldownClaimedAt != nil {
			until := s.CooldownClaimedAt.Add(CooldownPeriod)
			if now.Before(until) {
				out.State = SlotCooldown
				out.CooldownRemaining = until.Sub(now)
				out.CooldownSeconds = int64((out.CooldownRemaining + time.Second - 1) / time.Second)
				return out
			}
		}
		out.State = SlotAvailable
	default:
		// Gated on the stored count, which is only recomputed by a claim.
		// After a broken streak the first claim of the day may still take a
		// high slot; that claim resets the count to 1.
		out.RequiredStreak = slot
		if s.StreakCount >= slot {
			out.State = SlotAvailable
		} else {
			out.State = SlotLocked
		}
	}
	return out
}

// EvaluateSlots returns the state of all slots.
func EvaluateSlots(s *domain.Streak, today, now time.Time) []Slot {
	out := make([]Slot, 0, SlotCount)
	for i := 1; i <= SlotCount; i++ {
		out = append(out, EvaluateSlot(s, i, today, now))
	}
	return out
}

// NextStreakCount is the streak value a claim made today produces.
func NextStreakCount(s *domain.Streak, today time.Time) int {
	if s.LastClaimedDate == nil {
		return 1
	}
	switch {
	case SameDay(*s.LastClaimedDate, today):
		if s.StreakCount < 1 {
			return 1
		}
		return s.StreakCount
	case SameDay(*s.LastClaimedDate, Yesterday(today)):
		return s.StreakCount + 1
	default:
		return 1
	}
}

// ClaimSlot applies a claim of slot to s and returns the reward to pay.
func ClaimSlot(s *domain.Streak, slot int, today, now time.Time) (int64, error) {
	reward, err := SlotReward(slot)
	if err != nil {
		return 0, err
	}

	st := EvaluateSlot(s, slot, today, now)
	switch st.State {
	case SlotAvailable:
	case SlotClaimed:
		return 0, Fail(ErrPreconditionFailed, "slot %d already claimed today", slot)
	case SlotCooldown:
		return 0, Fail(ErrPreconditionFailed, "slot %d is cooling down for another %s", slot, st.CooldownRemaining.Round(time.Second))
	default:
		if slot == 2 {
			return 0, Fail(ErrPreconditionFailed, "slot 2 unlocks after slot 1 is claimed today")
		}
		return 0, Fail(ErrPreconditionFailed, "slot %d needs a %d day streak", slot, slot)
	}

	ads := AdsWatchedToday(s, today)
	s.StreakCount = NextStreakCount(s, today)

	day := today
	at := now
	s.LastClaimedDate = &day
	s.LastClaimedTime = &at
	if slot == 2 {
		s.CooldownClaimedAt = &at
	}
	s.AdsWatchedToday = ads + 1
	s.AdsWatchedDate = &day
	s.TotalCoinsFromStreak += reward
	return reward, nil
}

// StreakSummary is the read view returned alongside the slots.
type StreakSummary struct {
	StreakCount          int    `json:"streak_count"`
	AdsWatchedToday      int    `json:"ads_watched_today"`
	TotalCoinsFromStreak int64  `json:"total_coins_from_streak"`
	Slots                []Slot `json:"slots"`
}

func Summarize(s *domain.Streak, today, now time.Time) StreakSummary {
	return StreakSummary{
		StreakCount:          s.StreakCount,
		AdsWatchedToday:      AdsWatchedToday(s, today),
		TotalCoinsFromStreak: s.TotalCoinsFromStreak,
		Slots:                EvaluateSlots(s, today, now),
	}
}
