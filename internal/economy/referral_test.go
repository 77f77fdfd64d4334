package economy

import (
	"errors"
	"testing"
	"time"

	"cashdunia/internal/domain"
)

func TestGenerateReferralCode(t *testing.T) {
	code, err := GenerateReferralCode()
	if err != nil {
		t.Fatalf("GenerateReferralCode: %v", err)
	}
	if len(code) != 8 || code[:2] != "CD" || NormalizeCode(code) != code {
		t.Fatalf("bad code %q", code)
	}
	if NormalizeCode(" cdab12cd ") != "CDAB12CD" {
		t.Fatal("NormalizeCode did not canonicalize")
	}
}

func TestCheckReferral(t *testing.T) {
	owner := &domain.User{ID: 1}
	tests := []struct {
		name     string
		userID   int64
		already  bool
		referrer *domain.User
		want     error
	}{
		{"valid", 2, false, owner, nil},
		{"own code", 1, false, owner, ErrInvalidReferral},
		{"unknown code", 2, false, nil, ErrInvalidReferral},
		{"second redemption", 2, true, owner, ErrAlreadyReferred},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckReferral(tt.userID, tt.already, tt.referrer)
			if tt.want == nil && err != nil || tt.want != nil && !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRankUsers(t *testing.T) {
	users := []domain.User{
		{ID: 3, Name: "c", DailyCoins: 10},
		{ID: 1, Name: "a", DailyCoins: 40},
		{ID: 2, Name: "b", DailyCoins: 10},
	}
	got := RankUsers(users, 2)
	if len(got) != 2 || got[0].UserID != 1 || got[1].UserID != 2 || got[1].Rank != 2 {
		t.Fatalf("ranking %+v", got)
	}
	if users[0].ID != 3 {
		t.Fatal("RankUsers reordered its input")
	}
	if ClampLimit(0) != DefaultLeaderboardLimit || ClampLimit(1000) != MaxLeaderboardLimit || ClampLimit(7) != 7 {
		t.Fatal("ClampLimit")
	}
}

func TestLedgerRules(t *testing.T) {
	today := day(2025, 3, 10)
	u := domain.User{Coins: 100, DailyCoins: 60, LastResetDate: day(2025, 3, 9)}

	if err := ApplyCredit(&u, 25, today); err != nil {
		t.Fatalf("ApplyCredit: %v", err)
	}
	if u.Coins != 125 || u.DailyCoins != 25 || !u.LastResetDate.Equal(today) {
		t.Fatalf("after credit %+v", u)
	}
	if err := ApplyDebit(&u, 126); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("overdraft err = %v", err)
	}
	if err := ApplyDebit(&u, 125); err != nil || u.Coins != 0 || u.DailyCoins != 25 {
		t.Fatalf("debit err %v user %+v", err, u)
	}
	if err := ApplyCredit(&u, -1, today); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("negative credit err = %v", err)
	}
	if ResetDailyIfStale(&u, today) {
		t.Fatal("same-day reset reported a change")
	}
	if !ResetDailyIfStale(&u, today.Add(24*time.Hour)) || u.DailyCoins != 0 {
		t.Fatalf("next-day reset %+v", u)
	}
}

func TestErrorCodes(t *testing.T) {
	err := Fail(ErrInsufficientFunds, "need %d coins", 5)
	if Code(err) != "insufficient_funds" || Reason(err) != "need 5 coins" || !IsRuleViolation(err) {
		t.Fatalf("code=%s reason=%s", Code(err), Reason(err))
	}
	if Code(errors.New("boom")) != "internal" || IsRuleViolation(errors.New("boom")) {
		t.Fatal("plain errors must map to internal")
	}
	conflict := Fail(ErrConcurrentUpdateConflict, "retry")
	if IsRuleViolation(conflict) {
		t.Fatal("conflicts are not rule violations")
	}
}
