package service

import (
	"context"
	"strings"
	"testing"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
)

func TestApplyReferralCode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.register(t, "owner")
	friend := f.register(t, "friend")
	other := f.register(t, "other")

	_, err := f.engine.Referrals.ApplyReferralCode(ctx, owner.ID, owner.ReferralCode)
	wantKind(t, err, economy.ErrInvalidReferral)

	_, err = f.engine.Referrals.ApplyReferralCode(ctx, friend.ID, "CDZZZZZZ9")
	wantKind(t, err, economy.ErrInvalidReferral)

	res, err := f.engine.Referrals.ApplyReferralCode(ctx, friend.ID, " "+strings.ToLower(owner.ReferralCode))
	if err != nil {
		t.Fatalf("ApplyReferralCode: %v", err)
	}
	if res.ReferrerID != owner.ID || res.CoinsAwarded != economy.ReferralBonus {
		t.Fatalf("unexpected result %+v", res)
	}

	_, err = f.engine.Referrals.ApplyReferralCode(ctx, friend.ID, other.ReferralCode)
	wantKind(t, err, economy.ErrAlreadyReferred)

	if got := f.user(t, owner.ID); got.Coins != economy.ReferralBonus || got.DailyCoins != economy.ReferralBonus {
		t.Fatalf("referrer coins=%d daily=%d", got.Coins, got.DailyCoins)
	}
	if got := f.user(t, friend.ID); got.ReferredBy == nil || *got.ReferredBy != owner.ID || got.Coins != 0 {
		t.Fatalf("referred user %+v", got)
	}
	if got := f.user(t, other.ID); got.Coins != 0 {
		t.Fatalf("second referrer was paid: %d", got.Coins)
	}

	stats, err := f.engine.Referrals.ReferralStats(ctx, owner.ID)
	if err != nil {
		t.Fatalf("ReferralStats: %v", err)
	}
	if stats.Code != owner.ReferralCode || stats.TotalReferrals != 1 || stats.TotalEarned != economy.ReferralBonus {
		t.Fatalf("unexpected stats %+v", stats)
	}
	if stats.Referrals[0].ReferredName != "friend" {
		t.Fatalf("referral name = %q", stats.Referrals[0].ReferredName)
	}

	txs, err := f.engine.Ledger.Transactions(ctx, owner.ID, 0)
	if err != nil {
		t.Fatalf("Transactions: %v", err)
	}
	if len(txs) != 1 || txs[0].Type != domain.TxReferralBonus {
		t.Fatalf("unexpected ledger %+v", txs)
	}
}

func TestRegisterAssignsUniqueCodes(t *testing.T) {
	f := newFixture(t)
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		u := f.register(t, "user")
		if len(u.ReferralCode) != 8 || !strings.HasPrefix(u.ReferralCode, "CD") {
			t.Fatalf("bad code %q", u.ReferralCode)
		}
		if seen[u.ReferralCode] {
			t.Fatalf("duplicate code %q", u.ReferralCode)
		}
		seen[u.ReferralCode] = true
		if u.CurrentLevel != 1 || u.Coins != 0 {
			t.Fatalf("new account %+v", u)
		}
	}

	_, err := f.engine.Accounts.Register(context.Background(), "  ", "")
	wantKind(t, err, economy.ErrPreconditionFailed)
}
