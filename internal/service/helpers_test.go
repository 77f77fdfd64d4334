package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/repository"
)

var ist = time.FixedZone("IST", 5*3600+1800)

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []domain.AccountEvent
}

func (n *recordingNotifier) Publish(userID int64, ev domain.AccountEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, ev)
}

func (n *recordingNotifier) last() domain.AccountEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.events[len(n.events)-1]
}

type fixture struct {
	engine   *Engine
	store    *repository.MemoryStore
	clock    *testClock
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := &testClock{t: time.Date(2025, 3, 10, 10, 0, 0, 0, ist)}
	store := repository.NewMemoryStore()
	store.SetClock(clock.Now)
	notifier := &recordingNotifier{}
	engine := New(Options{
		Store:       store,
		Calendar:    economy.NewCalendar(ist),
		Clock:       clock.Now,
		MaxAttempts: 1000,
		Notifier:    notifier,
	})
	return &fixture{engine: engine, store: store, clock: clock, notifier: notifier}
}

func (f *fixture) register(t *testing.T, name string) *domain.User {
	t.Helper()
	u, err := f.engine.Accounts.Register(context.Background(), name, name+"@example.com")
	if err != nil {
		t.Fatalf("Register(%s): %v", name, err)
	}
	return u
}

// grant credits coins outside of any engine operation.
func (f *fixture) grant(t *testing.T, userID, amount int64) {
	t.Helper()
	err := f.store.InTx(context.Background(), func(tx repository.Tx) error {
		_, err := f.engine.Ledger.Credit(context.Background(), tx, userID, amount, "test_grant", nil)
		return err
	})
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
}

func (f *fixture) user(t *testing.T, id int64) *domain.User {
	t.Helper()
	u, err := f.store.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("GetUser(%d): %v", id, err)
	}
	return u
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v, got nil", kind)
	}
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
	if economy.Reason(err) == "" {
		t.Fatalf("error %v has no reason", err)
	}
}
