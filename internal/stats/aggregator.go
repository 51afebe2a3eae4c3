// Package stats implements the gambling statistics aggregator: an
// append-only session log folded into per-game, overall and per-day
// rollups, persisted whole per user.
package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"blobby-bot/internal/model"
	"blobby-bot/internal/pkg/lock"
	"blobby-bot/internal/store"
)

// Aggregator errors.
var (
	ErrNegativeAmount = errors.New("bet and win amounts must not be negative")
)

// Service is the statistics aggregator. It owns the per-user
// GamblingStatsState blob and serializes mutations with its own
// per-user lock.
type Service struct {
	store store.Store
	locks *lock.UserLock
	tz    *time.Location

	// Injection point for tests.
	now func() time.Time
}

// NewService creates a new stats Service instance. Day bucketing uses
// the given timezone; nil means UTC.
func NewService(st store.Store, timezone *time.Location) *Service {
	if timezone == nil {
		timezone = time.UTC
	}
	return &Service{
		store: st,
		locks: lock.NewUserLock(),
		tz:    timezone,
		now:   time.Now,
	}
}

// State returns the user's stats state, falling back to the initial
// zero state when nothing usable is stored.
func (s *Service) State(ctx context.Context, userID int64) (*model.GamblingStatsState, error) {
	state := model.NewGamblingStatsState()
	ok, err := s.store.Load(ctx, store.GamblingStatsKey(userID), state)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats state: %w", err)
	}
	if !ok {
		return model.NewGamblingStatsState(), nil
	}
	if state.PerGame == nil {
		state.PerGame = make(map[string]*model.GameStats)
	}
	return state, nil
}

// RecordSession appends one completed gambling action and folds it into
// every rollup: the game's stats, the overall stats, today's daily
// bucket and the favorite game. The whole state is saved write-through.
func (s *Service) RecordSession(ctx context.Context, userID int64, gameType string, bet, winAmount int64, won bool) (*model.GameSession, error) {
	if bet < 0 || winAmount < 0 {
		return nil, ErrNegativeAmount
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := model.GameSession{
		ID:        newSessionID(now),
		GameType:  gameType,
		Timestamp: now,
		Bet:       bet,
		Won:       won,
		WinAmount: winAmount,
		NetResult: winAmount - bet,
	}

	// Append to the capped session log.
	state.Sessions = append(state.Sessions, session)
	if len(state.Sessions) > model.MaxSessions {
		state.Sessions = state.Sessions[len(state.Sessions)-model.MaxSessions:]
	}

	// Per-game rollup.
	gs := state.PerGame[gameType]
	if gs == nil {
		gs = &model.GameStats{}
		state.PerGame[gameType] = gs
	}
	applySession(gs, session)

	// Overall rollup. Counts, sums and extrema match a field-wise fold
	// across the per-game stats; the streak fields track the true
	// chronological run across all game types interleaved.
	applySession(&state.Overall, session)

	s.applyDaily(state, session, now)
	state.FavoriteGame = favoriteGame(state.PerGame)

	if err := s.store.Save(ctx, store.GamblingStatsKey(userID), state); err != nil {
		return nil, fmt.Errorf("failed to save stats state: %w", err)
	}
	return &session, nil
}

// FilteredStats re-derives a rollup by replaying the filtered session
// subsequence from scratch. Read-only. Nil bounds and an empty game
// type leave that filter open.
func (s *Service) FilteredStats(ctx context.Context, userID int64, start, end *time.Time, gameType string) (*model.GameStats, error) {
	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}

	var filtered []model.GameSession
	for _, sess := range state.Sessions {
		if gameType != "" && sess.GameType != gameType {
			continue
		}
		if start != nil && sess.Timestamp.Before(*start) {
			continue
		}
		if end != nil && sess.Timestamp.After(*end) {
			continue
		}
		filtered = append(filtered, sess)
	}

	result := replay(filtered)
	return &result, nil
}

// ChartData produces exactly days per-day chart points ending today,
// oldest first, zero-filled for days without sessions.
func (s *Service) ChartData(ctx context.Context, userID int64, days int, gameType string) ([]model.ChartPoint, error) {
	if days <= 0 {
		return nil, nil
	}

	state, err := s.State(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Bucket sessions by local calendar date.
	type bucket struct {
		profit int64
		games  int
		wins   int
	}
	buckets := make(map[string]*bucket)
	for _, sess := range state.Sessions {
		if gameType != "" && sess.GameType != gameType {
			continue
		}
		date := sess.Timestamp.In(s.tz).Format("2006-01-02")
		b := buckets[date]
		if b == nil {
			b = &bucket{}
			buckets[date] = b
		}
		b.profit += sess.NetResult
		b.games++
		if sess.Won {
			b.wins++
		}
	}

	today := s.now().In(s.tz)
	points := make([]model.ChartPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := today.AddDate(0, 0, -i).Format("2006-01-02")
		point := model.ChartPoint{Date: date}
		if b := buckets[date]; b != nil {
			point.Profit = b.profit
			point.Games = b.games
			point.WinRate = float64(b.wins) / float64(b.games)
		}
		points = append(points, point)
	}
	return points, nil
}

// Reset replaces the entire state with the initial zero state and
// clears persisted storage. Irreversible.
func (s *Service) Reset(ctx context.Context, userID int64) error {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	if err := s.store.Delete(ctx, store.GamblingStatsKey(userID)); err != nil {
		return fmt.Errorf("failed to reset stats: %w", err)
	}
	return nil
}

// applyDaily folds the session into today's daily bucket, creating it
// if absent, and prunes buckets outside the retention window.
func (s *Service) applyDaily(state *model.GamblingStatsState, sess model.GameSession, now time.Time) {
	date := now.In(s.tz).Format("2006-01-02")

	var entry *model.DailyStats
	for i := range state.Daily {
		if state.Daily[i].Date == date {
			entry = &state.Daily[i]
			break
		}
	}
	if entry == nil {
		state.Daily = append(state.Daily, model.DailyStats{Date: date})
		entry = &state.Daily[len(state.Daily)-1]
	}

	entry.Games++
	if sess.Won {
		entry.Wins++
	}
	entry.TotalBet += sess.Bet
	entry.TotalWon += sess.WinAmount
	entry.NetProfit += sess.NetResult

	// Prune beyond the trailing retention window. Dates are
	// lexicographically ordered, so string comparison works.
	cutoff := now.In(s.tz).AddDate(0, 0, -(model.DailyRetentionDays - 1)).Format("2006-01-02")
	kept := state.Daily[:0]
	for _, d := range state.Daily {
		if d.Date >= cutoff {
			kept = append(kept, d)
		}
	}
	state.Daily = kept

	sort.Slice(state.Daily, func(i, j int) bool {
		return state.Daily[i].Date < state.Daily[j].Date
	})
}

// applySession folds one session into a rollup: counts, sums, the
// signed streak and running extrema, then the derived fields.
func applySession(gs *model.GameStats, sess model.GameSession) {
	gs.TotalGames++
	gs.TotalBet += sess.Bet
	gs.TotalWon += sess.WinAmount

	if sess.Won {
		gs.TotalWins++
		if gs.CurrentStreak > 0 {
			gs.CurrentStreak++
		} else {
			gs.CurrentStreak = 1
		}
		if gs.CurrentStreak > gs.LongestWinStreak {
			gs.LongestWinStreak = gs.CurrentStreak
		}
		if sess.NetResult > gs.BiggestWin {
			gs.BiggestWin = sess.NetResult
		}
	} else {
		gs.TotalLosses++
		if gs.CurrentStreak < 0 {
			gs.CurrentStreak--
		} else {
			gs.CurrentStreak = -1
		}
		if -gs.CurrentStreak > gs.LongestLoseStreak {
			gs.LongestLoseStreak = -gs.CurrentStreak
		}
		if -sess.NetResult > gs.BiggestLoss {
			gs.BiggestLoss = -sess.NetResult
		}
	}

	gs.NetProfit = gs.TotalWon - gs.TotalBet
	gs.WinRate = float64(gs.TotalWins) / float64(gs.TotalGames)
	gs.AverageBet = float64(gs.TotalBet) / float64(gs.TotalGames)
	if gs.TotalWins > 0 {
		gs.AverageWin = float64(gs.TotalWon) / float64(gs.TotalWins)
	}
}

// replay recomputes a rollup from scratch over a session sequence.
func replay(sessions []model.GameSession) model.GameStats {
	var gs model.GameStats
	for _, sess := range sessions {
		applySession(&gs, sess)
	}
	return gs
}

// favoriteGame returns the game type with the most plays. Ties break
// to the lexically smallest game type so the result is deterministic.
func favoriteGame(perGame map[string]*model.GameStats) string {
	types := make([]string, 0, len(perGame))
	for gt := range perGame {
		types = append(types, gt)
	}
	sort.Strings(types)

	favorite := ""
	most := 0
	for _, gt := range types {
		if perGame[gt].TotalGames > most {
			most = perGame[gt].TotalGames
			favorite = gt
		}
	}
	return favorite
}

// newSessionID synthesizes a session id from the timestamp plus a
// random suffix. Uniqueness is not enforced.
func newSessionID(now time.Time) string {
	return fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()[:8])
}
