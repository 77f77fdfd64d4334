package service

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"cashdunia/internal/domain"
	"cashdunia/internal/economy"
	"cashdunia/internal/logger"

	redis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// LeaderboardService ranks users by coins earned today.
type LeaderboardService struct {
	*runner
	group singleflight.Group
	cache *redis.Client
	ttl   time.Duration
}

// RankView is one user's position on today's leaderboard.
type RankView struct {
	UserID     int64 `json:"user_id"`
	Rank       int   `json:"rank"`
	DailyCoins int64 `json:"daily_coins"`
}

func NewLeaderboardService(r *runner, cache *redis.Client, ttl time.Duration) *LeaderboardService {
	if ttl <= 0 {
		cache = nil
	}
	return &LeaderboardService{runner: r, cache: cache, ttl: ttl}
}

func leaderboardKey(today time.Time, limit int) string {
	return "leaderboard:" + economy.DayKey(today) + ":" + strconv.Itoa(limit)
}

// Leaderboard returns the top limit users of today. Counters last reset on
// an earlier day are reset before ranking.
func (s *LeaderboardService) Leaderboard(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	limit = economy.ClampLimit(limit)
	today := s.today()
	key := leaderboardKey(today, limit)

	if entries, ok := s.cached(ctx, key); ok {
		return entries, nil
	}

	// The shared load outlives the caller that started it.
	fctx := context.WithoutCancel(ctx)
	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		if _, err := s.store.ResetStaleDaily(fctx, today); err != nil {
			return nil, err
		}
		entries, err := s.store.Leaderboard(fctx, limit)
		if err != nil {
			return nil, err
		}
		if entries == nil {
			entries = []domain.LeaderboardEntry{}
		}
		s.remember(fctx, key, entries)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.LeaderboardEntry), nil
}

// Rank returns the position of userID on today's leaderboard.
func (s *LeaderboardService) Rank(ctx context.Context, userID int64) (*RankView, error) {
	if _, err := s.store.ResetStaleDaily(ctx, s.today()); err != nil {
		return nil, err
	}
	rank, daily, err := s.store.Rank(ctx, userID)
	if err != nil {
		return nil, userErr(err)
	}
	return &RankView{UserID: userID, Rank: rank, DailyCoins: daily}, nil
}

func (s *LeaderboardService) cached(ctx context.Context, key string) ([]domain.LeaderboardEntry, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.WithContext(ctx).Warn("leaderboard cache read failed", "error", err)
		}
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false
	}
	return entries, true
}

func (s *LeaderboardService) remember(ctx context.Context, key string, entries []domain.LeaderboardEntry) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn("leaderboard cache write failed", "error", err)
	}
}
