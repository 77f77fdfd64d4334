package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"cashdunia/internal/db"
	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/migrations"
)

var testDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// storesUnderTest returns the memory store and, when DATABASE_URL is set,
// the Postgres store.
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	stores := map[string]Store{"memory": NewMemoryStore()}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		return stores
	}
	pool := db.Connect(dsn, 5)
	t.Cleanup(pool.Close)
	if _, err := migrations.Apply(context.Background(), pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	stores["postgres"] = NewPostgresStore(pool)
	return stores
}

func newUser(t *testing.T, s Store, name string) *domain.User {
	t.Helper()
	code, err := economy.GenerateReferralCode()
	if err != nil {
		t.Fatalf("code: %v", err)
	}
	u := &domain.User{Name: name, CurrentLevel: 1, LastResetDate: testDay, ReferralCode: code}
	if err := s.CreateUser(context.Background(), u, &domain.Streak{}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestCreateAndGetUser(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser(t, s, "alice")
			if u.ID == 0 {
				t.Fatal("id not assigned")
			}

			got, err := s.GetUser(ctx, u.ID)
			if err != nil {
				t.Fatalf("get: %v", err)
			}
			if got.Name != "alice" || got.CurrentLevel != 1 || got.ReferralCode != u.ReferralCode {
				t.Fatalf("got %+v", got)
			}

			st, err := s.GetStreak(ctx, u.ID)
			if err != nil || st.UserID != u.ID {
				t.Fatalf("streak: %+v %v", st, err)
			}

			dup := &domain.User{Name: "bob", CurrentLevel: 1, LastResetDate: testDay, ReferralCode: u.ReferralCode}
			if err := s.CreateUser(ctx, dup, &domain.Streak{}); !errors.Is(err, ErrDuplicateCode) {
				t.Fatalf("duplicate code: got %v", err)
			}

			if _, err := s.GetUser(ctx, -1); !errors.Is(err, ErrNotFound) {
				t.Fatalf("missing user: got %v", err)
			}
		})
	}
}

func TestAdjustCoinsNeverNegative(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser(t, s, "carol")

			err := s.InTx(ctx, func(tx Tx) error {
				bal, err := tx.AdjustCoins(ctx, u.ID, 100, testDay)
				if err != nil {
					return err
				}
				if bal != 100 {
					t.Errorf("balance after credit: got %d", bal)
				}
				return nil
			})
			if err != nil {
				t.Fatalf("credit: %v", err)
			}

			err = s.InTx(ctx, func(tx Tx) error {
				_, err := tx.AdjustCoins(ctx, u.ID, -150, testDay)
				return err
			})
			if !errors.Is(err, economy.ErrInsufficientFunds) {
				t.Fatalf("overdraft: got %v", err)
			}

			got, _ := s.GetUser(ctx, u.ID)
			if got.Coins != 100 || got.DailyCoins != 100 {
				t.Fatalf("after rejected debit: coins %d daily %d", got.Coins, got.DailyCoins)
			}
		})
	}
}

func TestFailedTxLeavesNoTrace(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser(t, s, "dave")
			boom := errors.New("boom")

			err := s.InTx(ctx, func(tx Tx) error {
				if _, err := tx.AdjustCoins(ctx, u.ID, 40, testDay); err != nil {
					return err
				}
				if err := tx.InsertTransaction(ctx, &domain.Transaction{UserID: u.ID, Type: domain.TxStreakSlot, Amount: 40, Balance: 40}); err != nil {
					return err
				}
				return boom
			})
			if !errors.Is(err, boom) {
				t.Fatalf("got %v", err)
			}

			got, _ := s.GetUser(ctx, u.ID)
			if got.Coins != 0 {
				t.Fatalf("coins leaked: %d", got.Coins)
			}
			txs, err := s.TransactionsByUser(ctx, u.ID, 10)
			if err != nil || len(txs) != 0 {
				t.Fatalf("transactions leaked: %d %v", len(txs), err)
			}
		})
	}
}

func TestReferralOncePerUser(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			referrer := newUser(t, s, "ref")
			referred := newUser(t, s, "new")

			apply := func() error {
				return s.InTx(ctx, func(tx Tx) error {
					if err := tx.SetReferredBy(ctx, referred.ID, referrer.ID); err != nil {
						return err
					}
					return tx.InsertReferral(ctx, &domain.Referral{ReferrerID: referrer.ID, ReferredID: referred.ID, CoinsAwarded: 50, BonusPaid: true})
				})
			}
			if err := apply(); err != nil {
				t.Fatalf("first apply: %v", err)
			}
			if err := apply(); !errors.Is(err, economy.ErrAlreadyReferred) {
				t.Fatalf("second apply: got %v", err)
			}

			refs, err := s.ReferralsByReferrer(ctx, referrer.ID)
			if err != nil || len(refs) != 1 || refs[0].ReferredID != referred.ID {
				t.Fatalf("referrals: %+v %v", refs, err)
			}
		})
	}
}

func TestMemoryStoreDetectsConflict(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	u := newUser(t, s, "erin")

	err := s.InTx(ctx, func(tx Tx) error {
		if _, err := tx.LockUser(ctx, u.ID); err != nil {
			return err
		}
		// a concurrent writer commits first
		inner := s.InTx(ctx, func(tx Tx) error {
			_, err := tx.AdjustCoins(ctx, u.ID, 5, testDay)
			return err
		})
		if inner != nil {
			t.Fatalf("inner tx: %v", inner)
		}
		_, err := tx.AdjustCoins(ctx, u.ID, 7, testDay)
		return err
	})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}

	got, _ := s.GetUser(ctx, u.ID)
	if got.Coins != 5 {
		t.Fatalf("coins: got %d, want 5", got.Coins)
	}
}

func TestMemoryLeaderboardTies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	a := newUser(t, s, "a")
	b := newUser(t, s, "b")
	c := newUser(t, s, "c")

	for id, amount := range map[int64]int64{a.ID: 20, b.ID: 30, c.ID: 20} {
		err := s.InTx(ctx, func(tx Tx) error {
			_, err := tx.AdjustCoins(ctx, id, amount, testDay)
			return err
		})
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
	}

	board, err := s.Leaderboard(ctx, 10)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	want := []int64{b.ID, a.ID, c.ID}
	for i, id := range want {
		if board[i].UserID != id || board[i].Rank != i+1 {
			t.Fatalf("row %d: got %+v, want user %d", i, board[i], id)
		}
	}

	rank, coins, err := s.Rank(ctx, c.ID)
	if err != nil || rank != 3 || coins != 20 {
		t.Fatalf("rank of c: %d %d %v", rank, coins, err)
	}
}

func TestTaskCompletionOncePerUser(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := newUser(t, s, "tara")
			task := &domain.Task{Title: "Watch a video", CoinReward: 10, IsActive: true}
			if err := s.CreateTask(ctx, task); err != nil {
				t.Fatalf("create task: %v", err)
			}

			complete := func() error {
				return s.InTx(ctx, func(tx Tx) error {
					return tx.InsertTaskCompletion(ctx, &domain.TaskCompletion{UserID: u.ID, TaskID: task.ID, CoinsAwarded: task.CoinReward})
				})
			}
			if err := complete(); err != nil {
				t.Fatalf("first completion: %v", err)
			}
			if err := complete(); !errors.Is(err, economy.ErrPreconditionFailed) {
				t.Fatalf("second completion: got %v", err)
			}

			ids, err := s.CompletedTaskIDs(ctx, u.ID)
			if err != nil || len(ids) != 1 || ids[0] != task.ID {
				t.Fatalf("completed ids: %v %v", ids, err)
			}
		})
	}
}

func TestListTasksActiveOnly(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			on := &domain.Task{Title: "Rate the app", CoinReward: 20, IsActive: true}
			off := &domain.Task{Title: "Retired survey", CoinReward: 30, IsActive: true}
			for _, task := range []*domain.Task{on, off} {
				if err := s.CreateTask(ctx, task); err != nil {
					t.Fatalf("create task: %v", err)
				}
			}
			if err := s.SetTaskActive(ctx, off.ID, false); err != nil {
				t.Fatalf("deactivate: %v", err)
			}

			contains := func(tasks []domain.Task, id int64) bool {
				for _, task := range tasks {
					if task.ID == id {
						return true
					}
				}
				return false
			}
			active, err := s.ListTasks(ctx, true)
			if err != nil {
				t.Fatalf("active: %v", err)
			}
			if !contains(active, on.ID) || contains(active, off.ID) {
				t.Fatalf("active tasks = %+v", active)
			}
			all, err := s.ListTasks(ctx, false)
			if err != nil {
				t.Fatalf("all: %v", err)
			}
			if !contains(all, on.ID) || !contains(all, off.ID) {
				t.Fatalf("all tasks = %+v", all)
			}

			if err := s.SetTaskActive(ctx, 1<<40, true); !errors.Is(err, ErrNotFound) {
				t.Fatalf("unknown task: got %v", err)
			}
		})
	}
}
