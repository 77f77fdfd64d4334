package economy

import (
	"fmt"

	"cashdunia/internal/domain"
)

// Level is one row of the fixed level table.
type Level struct {
	Number       int              `json:"level"`
	Label        string           `json:"label"`
	GemTarget    int              `json:"gem_target"`
	CoinsAwarded int64            `json:"coins_awarded"`
	OfferType    domain.OfferType `json:"offer_type"`
	Steps        int              `json:"steps"`
}

// MaxLevel is the length of the level cycle.
const MaxLevel = 4

var levels = [MaxLevel]Level{
	{Number: 1, Label: "Level 1", GemTarget: 5, CoinsAwarded: 350, OfferType: domain.OfferSimple, Steps: 3},
	{Number: 2, Label: "Level 2", GemTarget: 5, CoinsAwarded: 350, OfferType: domain.OfferInstall, Steps: 5},
	{Number: 3, Label: "Level 3", GemTarget: 5, CoinsAwarded: 250, OfferType: domain.OfferInstall, Steps: 5},
	{Number: 4, Label: "Level 4", GemTarget: 3, CoinsAwarded: 250, OfferType: domain.OfferInstall, Steps: 5},
}

// Levels returns a copy of the level table.
func Levels() []Level {
	out := make([]Level, MaxLevel)
	copy(out, levels[:])
	return out
}

// LevelConfig returns the configuration of level n.
func LevelConfig(n int) (Level, error) {
	if n < 1 || n > MaxLevel {
		return Level{}, Fail(ErrPreconditionFailed, "unknown level %d", n)
	}
	return levels[n-1], nil
}

// NextLevel cycles 1→2→3→4→1.
func NextLevel(n int) int {
	return n%MaxLevel + 1
}

// GemOutcome describes what RecordGem did.
type GemOutcome struct {
	Recorded   bool `json:"recorded"`
	GateOpened bool `json:"gate_opened"`
	Duplicate  bool `json:"duplicate"`
}

// RecordGem adds one gem to the current level of u. Reaching the target opens
// the offer gate in the same step. A call made when the level is already at
// its target only (re)opens the gate and reports Duplicate.
func RecordGem(u *domain.User) (GemOutcome, error) {
	cfg, err := LevelConfig(u.CurrentLevel)
	if err != nil {
		return GemOutcome{}, err
	}

	if u.GemsThisLevel >= cfg.GemTarget {
		u.GemsThisLevel = cfg.GemTarget
		u.OfferGateOpen = true
		return GemOutcome{Duplicate: true}, nil
	}
	if u.OfferGateOpen {
		return GemOutcome{}, Fail(ErrPreconditionFailed, "offer gate is open, complete the level offer first")
	}

	u.GemsThisLevel++
	u.Gems++
	out := GemOutcome{Recorded: true}
	if u.GemsThisLevel >= cfg.GemTarget {
		u.OfferGateOpen = true
		out.GateOpened = true
	}
	return out, nil
}

// CheckOfferChecklist verifies every verification step of the level offer
// was confirmed.
func CheckOfferChecklist(cfg Level, confirmedSteps int) error {
	if confirmedSteps != cfg.Steps {
		return Fail(ErrPreconditionFailed, "offer checklist incomplete: %d of %d steps confirmed", confirmedSteps, cfg.Steps)
	}
	return nil
}

// AdvanceLevel completes the current level of u and moves it to the next one.
// It returns the completed level so the caller can pay its reward. Coins are
// not touched here.
func AdvanceLevel(u *domain.User, confirmedSteps int) (Level, error) {
	if !u.OfferGateOpen {
		return Level{}, Fail(ErrPreconditionFailed, "offer gate is closed: collect %s first", gemsLeft(u))
	}
	cfg, err := LevelConfig(u.CurrentLevel)
	if err != nil {
		return Level{}, err
	}
	if err := CheckOfferChecklist(cfg, confirmedSteps); err != nil {
		return Level{}, err
	}

	u.CurrentLevel = NextLevel(u.CurrentLevel)
	u.GemsThisLevel = 0
	u.OfferGateOpen = false
	return cfg, nil
}

func gemsLeft(u *domain.User) string {
	cfg, err := LevelConfig(u.CurrentLevel)
	if err != nil {
		return "more gems"
	}
	left := cfg.GemTarget - u.GemsThisLevel
	if left == 1 {
		return "1 more gem"
	}
	return fmt.Sprintf("%d more gems", left)
}

// Progress is a read-only view of a user's level state.
type Progress struct {
	Level         Level `json:"level"`
	GemsThisLevel int   `json:"gems_this_level"`
	OfferGateOpen bool  `json:"offer_gate_open"`
	Percent       int   `json:"percent"`
}

func ProgressOf(u *domain.User) (Progress, error) {
	cfg, err := LevelConfig(u.CurrentLevel)
	if err != nil {
		return Progress{}, err
	}
	pct := u.GemsThisLevel * 100 / cfg.GemTarget
	if pct > 100 {
		pct = 100
	}
	return Progress{
		Level:         cfg,
		GemsThisLevel: u.GemsThisLevel,
		OfferGateOpen: u.OfferGateOpen,
		Percent:       pct,
	}, nil
}
