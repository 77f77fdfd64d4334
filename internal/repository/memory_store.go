package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
)

// MemoryStore keeps every record in process memory. Transactions work on
// private copies and are validated at commit time against per-record
// versions; a stale read aborts the commit with ErrConflict so the caller
// can retry the whole read-modify-write.
type MemoryStore struct {
	mu  sync.Mutex
	now func() time.Time

	userSeq, offerSeq, withdrawalSeq, referralSeq, txSeq int64
	taskSeq, completionSeq                               int64

	users       map[int64]*userRecord
	codes       map[string]int64
	streaks     map[int64]*streakRecord
	withdrawals map[int64]*withdrawalRecord
	referred    map[int64]domain.Referral
	tasks       map[int64]domain.Task
	completions map[taskKey]domain.TaskCompletion

	offers       []domain.OfferHistory
	referrals    []domain.Referral
	transactions []domain.Transaction
}

type taskKey struct {
	userID, taskID int64
}

type userRecord struct {
	user    domain.User
	version int64
}

type streakRecord struct {
	streak  domain.Streak
	version int64
}

type withdrawalRecord struct {
	w       domain.Withdrawal
	version int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now:         time.Now,
		users:       make(map[int64]*userRecord),
		codes:       make(map[string]int64),
		streaks:     make(map[int64]*streakRecord),
		withdrawals: make(map[int64]*withdrawalRecord),
		referred:    make(map[int64]domain.Referral),
		tasks:       make(map[int64]domain.Task),
		completions: make(map[taskKey]domain.TaskCompletion),
	}
}

// SetClock overrides the timestamp source used for created_at columns.
func (s *MemoryStore) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) CreateUser(ctx context.Context, u *domain.User, st *domain.Streak) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.codes[u.ReferralCode]; taken {
		return ErrDuplicateCode
	}
	s.userSeq++
	u.ID = s.userSeq
	u.CreatedAt = s.now()
	if u.CurrentLevel == 0 {
		u.CurrentLevel = 1
	}
	st.UserID = u.ID
	st.UpdatedAt = u.CreatedAt

	s.users[u.ID] = &userRecord{user: *u, version: 1}
	s.codes[u.ReferralCode] = u.ID
	s.streaks[u.ID] = &streakRecord{streak: *st, version: 1}
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	u := rec.user
	return &u, nil
}

func (s *MemoryStore) GetStreak(ctx context.Context, userID int64) (*domain.Streak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.streaks[userID]
	if !ok {
		return nil, ErrNotFound
	}
	st := rec.streak
	return &st, nil
}

func (s *MemoryStore) ResetStaleDaily(ctx context.Context, today time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, rec := range s.users {
		if economy.ResetDailyIfStale(&rec.user, today) {
			rec.version++
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return economy.RankUsers(s.snapshotUsers(), limit), nil
}

func (s *MemoryStore) Rank(ctx context.Context, userID int64) (int, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range economy.RankUsers(s.snapshotUsers(), 0) {
		if e.UserID == userID {
			return e.Rank, e.DailyCoins, nil
		}
	}
	return 0, 0, ErrNotFound
}

func (s *MemoryStore) snapshotUsers() []domain.User {
	users := make([]domain.User, 0, len(s.users))
	for _, rec := range s.users {
		users = append(users, rec.user)
	}
	return users
}

func (s *MemoryStore) OffersByUser(ctx context.Context, userID int64, limit int) ([]domain.OfferHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.OfferHistory
	for i := len(s.offers) - 1; i >= 0 && len(out) < defaultLimit(limit); i-- {
		if s.offers[i].UserID == userID {
			out = append(out, s.offers[i])
		}
	}
	return out, nil
}

func (s *MemoryStore) WithdrawalsByUser(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Withdrawal
	for _, rec := range s.withdrawals {
		if rec.w.UserID == userID {
			out = append(out, rec.w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > defaultLimit(limit) {
		out = out[:defaultLimit(limit)]
	}
	return out, nil
}

func (s *MemoryStore) ReferralsByReferrer(ctx context.Context, referrerID int64) ([]domain.Referral, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Referral
	for i := len(s.referrals) - 1; i >= 0; i-- {
		ref := s.referrals[i]
		if ref.ReferrerID != referrerID {
			continue
		}
		if rec, ok := s.users[ref.ReferredID]; ok {
			ref.ReferredName = rec.user.Name
		}
		out = append(out, ref)
	}
	return out, nil
}

func (s *MemoryStore) TransactionsByUser(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.Transaction
	for i := len(s.transactions) - 1; i >= 0 && len(out) < defaultLimit(limit); i-- {
		if s.transactions[i].UserID == userID {
			t := s.transactions[i]
			out = append(out, &t)
		}
	}
	return out, nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.taskSeq++
	t.ID = s.taskSeq
	t.CreatedAt = s.now()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) ListTasks(ctx context.Context, activeOnly bool) ([]domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Task
	for _, t := range s.tasks {
		if t.IsActive || !activeOnly {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) SetTaskActive(ctx context.Context, id int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return ErrNotFound
	}
	t.IsActive = active
	s.tasks[id] = t
	return nil
}

func (s *MemoryStore) CompletedTaskIDs(ctx context.Context, userID int64) ([]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []int64
	for k := range s.completions {
		if k.userID == userID {
			ids = append(ids, k.taskID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// InTx runs fn against a private view and commits it if no record it read
// has changed in the meantime.
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	tx := &memTx{
		s:           s,
		users:       make(map[int64]*stagedUser),
		streaks:     make(map[int64]*stagedStreak),
		withdrawals: make(map[int64]*stagedWithdrawal),
	}
	if err := fn(tx); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return tx.commit()
}

type stagedUser struct {
	user    domain.User
	version int64
	dirty   bool
}

type stagedStreak struct {
	streak  domain.Streak
	version int64
	dirty   bool
}

type stagedWithdrawal struct {
	w       domain.Withdrawal
	version int64
	dirty   bool
}

type memTx struct {
	s *MemoryStore

	users       map[int64]*stagedUser
	streaks     map[int64]*stagedStreak
	withdrawals map[int64]*stagedWithdrawal

	offers       []*domain.OfferHistory
	newWithdraws []*domain.Withdrawal
	referrals    []*domain.Referral
	transactions []*domain.Transaction
	completions  []*domain.TaskCompletion
}

func (t *memTx) stageUser(id int64) (*stagedUser, error) {
	if su, ok := t.users[id]; ok {
		return su, nil
	}
	t.s.mu.Lock()
	rec, ok := t.s.users[id]
	var su *stagedUser
	if ok {
		su = &stagedUser{user: rec.user, version: rec.version}
	}
	t.s.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	t.users[id] = su
	return su, nil
}

func (t *memTx) LockUser(ctx context.Context, id int64) (*domain.User, error) {
	su, err := t.stageUser(id)
	if err != nil {
		return nil, err
	}
	u := su.user
	return &u, nil
}

func (t *memTx) UpdateProgress(ctx context.Context, u *domain.User) error {
	su, err := t.stageUser(u.ID)
	if err != nil {
		return err
	}
	su.user.CurrentLevel = u.CurrentLevel
	su.user.GemsThisLevel = u.GemsThisLevel
	su.user.OfferGateOpen = u.OfferGateOpen
	su.user.Gems = u.Gems
	su.dirty = true
	return nil
}

func (t *memTx) AdjustCoins(ctx context.Context, userID, delta int64, today time.Time) (int64, error) {
	su, err := t.stageUser(userID)
	if err != nil {
		return 0, err
	}
	if delta >= 0 {
		err = economy.ApplyCredit(&su.user, delta, today)
	} else {
		err = economy.ApplyDebit(&su.user, -delta)
	}
	if err != nil {
		return 0, err
	}
	su.dirty = true
	return su.user.Coins, nil
}

func (t *memTx) ResetDaily(ctx context.Context, userID int64, today time.Time) error {
	su, err := t.stageUser(userID)
	if err != nil {
		return err
	}
	if economy.ResetDailyIfStale(&su.user, today) {
		su.dirty = true
	}
	return nil
}

func (t *memTx) SetReferredBy(ctx context.Context, userID, referrerID int64) error {
	su, err := t.stageUser(userID)
	if err != nil {
		return err
	}
	if su.user.ReferredBy != nil {
		return economy.Fail(economy.ErrAlreadyReferred, "you have already used a referral code")
	}
	id := referrerID
	su.user.ReferredBy = &id
	su.dirty = true
	return nil
}

func (t *memTx) LockStreak(ctx context.Context, userID int64) (*domain.Streak, error) {
	ss, ok := t.streaks[userID]
	if !ok {
		t.s.mu.Lock()
		rec, found := t.s.streaks[userID]
		if found {
			ss = &stagedStreak{streak: rec.streak, version: rec.version}
		}
		t.s.mu.Unlock()
		if !found {
			return nil, ErrNotFound
		}
		t.streaks[userID] = ss
	}
	st := ss.streak
	return &st, nil
}

func (t *memTx) UpdateStreak(ctx context.Context, st *domain.Streak) error {
	ss, ok := t.streaks[st.UserID]
	if !ok {
		if _, err := t.LockStreak(ctx, st.UserID); err != nil {
			return err
		}
		ss = t.streaks[st.UserID]
	}
	ss.streak = *st
	ss.streak.UpdatedAt = t.s.clock()
	st.UpdatedAt = ss.streak.UpdatedAt
	ss.dirty = true
	return nil
}

func (t *memTx) InsertOffer(ctx context.Context, o *domain.OfferHistory) error {
	t.s.mu.Lock()
	t.s.offerSeq++
	o.ID = t.s.offerSeq
	o.CreatedAt = t.s.now()
	t.s.mu.Unlock()
	t.offers = append(t.offers, o)
	return nil
}

func (t *memTx) InsertWithdrawal(ctx context.Context, w *domain.Withdrawal) error {
	t.s.mu.Lock()
	t.s.withdrawalSeq++
	w.ID = t.s.withdrawalSeq
	w.RequestedAt = t.s.now()
	t.s.mu.Unlock()
	t.newWithdraws = append(t.newWithdraws, w)
	return nil
}

func (t *memTx) LockWithdrawal(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	sw, ok := t.withdrawals[id]
	if !ok {
		t.s.mu.Lock()
		rec, found := t.s.withdrawals[id]
		if found {
			sw = &stagedWithdrawal{w: rec.w, version: rec.version}
		}
		t.s.mu.Unlock()
		if !found {
			return nil, ErrNotFound
		}
		t.withdrawals[id] = sw
	}
	w := sw.w
	return &w, nil
}

func (t *memTx) UpdateWithdrawalStatus(ctx context.Context, w *domain.Withdrawal) error {
	if _, err := t.LockWithdrawal(ctx, w.ID); err != nil {
		return err
	}
	sw := t.withdrawals[w.ID]
	now := t.s.clock()
	sw.w.Status = w.Status
	sw.w.AdminNotes = w.AdminNotes
	sw.w.UpdatedAt = &now
	w.UpdatedAt = &now
	sw.dirty = true
	return nil
}

func (t *memTx) HasReferral(ctx context.Context, referredID int64) (bool, error) {
	for _, r := range t.referrals {
		if r.ReferredID == referredID {
			return true, nil
		}
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	_, ok := t.s.referred[referredID]
	return ok, nil
}

func (t *memTx) UserByReferralCode(ctx context.Context, code string) (*domain.User, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	id, ok := t.s.codes[code]
	if !ok {
		return nil, ErrNotFound
	}
	u := t.s.users[id].user
	return &u, nil
}

func (t *memTx) InsertReferral(ctx context.Context, r *domain.Referral) error {
	if ok, _ := t.HasReferral(ctx, r.ReferredID); ok {
		return economy.Fail(economy.ErrAlreadyReferred, "you have already used a referral code")
	}
	t.s.mu.Lock()
	t.s.referralSeq++
	r.ID = t.s.referralSeq
	r.CreatedAt = t.s.now()
	t.s.mu.Unlock()
	t.referrals = append(t.referrals, r)
	return nil
}

func (t *memTx) InsertTransaction(ctx context.Context, tr *domain.Transaction) error {
	t.s.mu.Lock()
	t.s.txSeq++
	tr.ID = t.s.txSeq
	tr.CreatedAt = t.s.now()
	t.s.mu.Unlock()
	t.transactions = append(t.transactions, tr)
	return nil
}

func (t *memTx) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	task, ok := t.s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &task, nil
}

func (t *memTx) InsertTaskCompletion(ctx context.Context, c *domain.TaskCompletion) error {
	for _, staged := range t.completions {
		if staged.UserID == c.UserID && staged.TaskID == c.TaskID {
			return economy.Fail(economy.ErrPreconditionFailed, "task already completed")
		}
	}
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if _, done := t.s.completions[taskKey{c.UserID, c.TaskID}]; done {
		return economy.Fail(economy.ErrPreconditionFailed, "task already completed")
	}
	t.s.completionSeq++
	c.ID = t.s.completionSeq
	c.CreatedAt = t.s.now()
	t.completions = append(t.completions, c)
	return nil
}

func (s *MemoryStore) clock() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.now()
}

func (t *memTx) commit() error {
	s := t.s
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, su := range t.users {
		if rec, ok := s.users[id]; !ok || rec.version != su.version {
			return fmt.Errorf("%w: user %d changed", ErrConflict, id)
		}
	}
	for id, ss := range t.streaks {
		if rec, ok := s.streaks[id]; !ok || rec.version != ss.version {
			return fmt.Errorf("%w: streak of user %d changed", ErrConflict, id)
		}
	}
	for id, sw := range t.withdrawals {
		if rec, ok := s.withdrawals[id]; !ok || rec.version != sw.version {
			return fmt.Errorf("%w: withdrawal %d changed", ErrConflict, id)
		}
	}
	for _, r := range t.referrals {
		if _, ok := s.referred[r.ReferredID]; ok {
			return economy.Fail(economy.ErrAlreadyReferred, "you have already used a referral code")
		}
	}
	for _, c := range t.completions {
		if _, ok := s.completions[taskKey{c.UserID, c.TaskID}]; ok {
			return economy.Fail(economy.ErrPreconditionFailed, "task already completed")
		}
	}

	for id, su := range t.users {
		if su.dirty {
			s.users[id] = &userRecord{user: su.user, version: su.version + 1}
		}
	}
	for id, ss := range t.streaks {
		if ss.dirty {
			s.streaks[id] = &streakRecord{streak: ss.streak, version: ss.version + 1}
		}
	}
	for id, sw := range t.withdrawals {
		if sw.dirty {
			s.withdrawals[id] = &withdrawalRecord{w: sw.w, version: sw.version + 1}
		}
	}
	for _, w := range t.newWithdraws {
		s.withdrawals[w.ID] = &withdrawalRecord{w: *w, version: 1}
	}
	for _, o := range t.offers {
		s.offers = append(s.offers, *o)
	}
	for _, r := range t.referrals {
		s.referrals = append(s.referrals, *r)
		s.referred[r.ReferredID] = *r
	}
	for _, tr := range t.transactions {
		s.transactions = append(s.transactions, *tr)
	}
	for _, c := range t.completions {
		s.completions[taskKey{c.UserID, c.TaskID}] = *c
	}
	return nil
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Tx    = (*memTx)(nil)
)
