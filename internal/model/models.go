// Package model defines the data models for the Blobby reward service.
package model

import "time"

// Game type identifiers. GameType on a session must be one of these.
const (
	GameCoinFlip = "coinflip"
	GameDice     = "dice"
	GameSlot     = "slot"
)

// GameSession is a single completed gambling action. Sessions are
// append-only: they are never mutated or deleted individually, only
// trimmed collectively to the most recent MaxSessions entries.
type GameSession struct {
	ID        string    `json:"id"`
	GameType  string    `json:"gameType"`
	Timestamp time.Time `json:"timestamp"`
	Bet       int64     `json:"bet"`
	Won       bool      `json:"won"`
	WinAmount int64     `json:"winAmount"`
	NetResult int64     `json:"netResult"` // WinAmount - Bet
}

// MaxSessions is the cap on the retained session log.
const MaxSessions = 1000

// GameStats is the derived rollup for one game type (or the overall
// fold across all game types).
//
// Invariants:
//   - TotalGames == TotalWins + TotalLosses
//   - NetProfit == TotalWon - TotalBet
//   - CurrentStreak is signed: positive = run of wins, negative = run of
//     losses; it flips to +/-1 when a result breaks the prior run.
type GameStats struct {
	TotalGames        int     `json:"totalGames"`
	TotalWins         int     `json:"totalWins"`
	TotalLosses       int     `json:"totalLosses"`
	TotalBet          int64   `json:"totalBet"`
	TotalWon          int64   `json:"totalWon"`
	NetProfit         int64   `json:"netProfit"`
	WinRate           float64 `json:"winRate"`
	AverageBet        float64 `json:"averageBet"`
	AverageWin        float64 `json:"averageWin"`
	CurrentStreak     int     `json:"currentStreak"`
	LongestWinStreak  int     `json:"longestWinStreak"`
	LongestLoseStreak int     `json:"longestLoseStreak"`
	BiggestWin        int64   `json:"biggestWin"`
	BiggestLoss       int64   `json:"biggestLoss"`
}

// DailyStats aggregates one calendar day's sessions. Date is the local
// calendar date in YYYY-MM-DD form.
type DailyStats struct {
	Date      string `json:"date"`
	Games     int    `json:"games"`
	Wins      int    `json:"wins"`
	TotalBet  int64  `json:"totalBet"`
	TotalWon  int64  `json:"totalWon"`
	NetProfit int64  `json:"netProfit"`
}

// DailyRetentionDays is the trailing retention window for DailyStats,
// pruned on every write.
const DailyRetentionDays = 30

// GamblingStatsState is the whole persisted state owned by the stats
// aggregator. It is serialized wholesale on every mutation.
type GamblingStatsState struct {
	Sessions     []GameSession         `json:"sessions"`
	PerGame      map[string]*GameStats `json:"perGame"`
	Overall      GameStats             `json:"overall"`
	Daily        []DailyStats          `json:"daily"`
	FavoriteGame string                `json:"favoriteGame"`
}

// NewGamblingStatsState returns the initial zero state.
func NewGamblingStatsState() *GamblingStatsState {
	return &GamblingStatsState{
		PerGame: make(map[string]*GameStats),
	}
}

// ChartPoint is one per-day entry produced for profit charts.
type ChartPoint struct {
	Date    string  `json:"date"`
	Profit  int64   `json:"profit"`
	Games   int     `json:"games"`
	WinRate float64 `json:"winRate"`
}

// VIPState is the whole persisted state owned by the VIP loyalty engine.
// TotalPoints is spendable; LifetimePoints is monotonic and determines
// the tier. The tier itself is never stored, only derived.
type VIPState struct {
	TotalPoints    int64 `json:"totalPoints"`
	LifetimePoints int64 `json:"lifetimePoints"`

	// Last-claim timestamps. Zero value means never claimed.
	LastDailyBonusClaim time.Time `json:"lastDailyBonusClaim"`
	LastVIPBonusClaim   time.Time `json:"lastVipBonusClaim"`
	LastJackpotEntry    time.Time `json:"lastJackpotEntry"`

	JackpotPool                 int64 `json:"vipJackpotPool"`
	MonthlyJackpotContributions int64 `json:"monthlyJackpotContributions"`
}

// JackpotFloor is the value the jackpot pool resets to after a payout,
// and the pool's starting value.
const JackpotFloor = 5000

// NewVIPState returns the initial VIP state with the pool at its floor.
func NewVIPState() *VIPState {
	return &VIPState{JackpotPool: JackpotFloor}
}

// Wallet holds a user's spendable coin balance.
type Wallet struct {
	Balance int64 `json:"balance"`
}

// InitialBalance is the coin balance granted on first interaction.
const InitialBalance = 1000

// LimitedOffer is a rotating discounted shop bundle with an expiry
// window, persisted per user so the countdown survives restarts.
type LimitedOffer struct {
	ItemType  string    `json:"itemType"`
	Discount  int       `json:"discount"` // percent off the shop price
	ExpiresAt time.Time `json:"expiresAt"`
}

// Inventory holds a user's purchased power-ups, keyed by item type.
type Inventory struct {
	Items map[string]int `json:"items"`
}

// NewInventory returns an empty inventory.
func NewInventory() *Inventory {
	return &Inventory{Items: make(map[string]int)}
}

// Point sources accepted by the VIP engine. Labeling only; no logic
// branches on them.
const (
	PointSourcePurchase = "purchase"
	PointSourceGambling = "gambling"
	PointSourceBonus    = "bonus"
	PointSourceAdmin    = "admin"
)
