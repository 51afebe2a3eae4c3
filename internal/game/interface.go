// Package game defines the game interface and registry for the Blobby
// casino mini-games. Adding a new game only requires implementing the
// Game interface and registering it.
package game

import "context"

// Result represents the outcome of a game play.
type Result struct {
	Payout      int64          // Net payout (positive = win, negative = loss, 0 = push)
	Won         bool           // Whether the play counts as a win
	Description string         // Human-readable result description
	Details     map[string]any // Additional game-specific details
}

// WinAmount returns the gross amount returned to the player for a
// given bet: stake plus net payout. Zero on a full loss, the stake on
// a push.
func (r *Result) WinAmount(bet int64) int64 {
	return bet + r.Payout
}

// Game is the interface every mini-game implements.
type Game interface {
	// Name returns the game's display name (e.g., "Coin Flip").
	Name() string

	// Command returns the command that triggers this game (e.g., "dice").
	Command() string

	// Description returns a brief description of the game.
	Description() string

	// Play executes the game logic and returns the result. params
	// carries game-specific inputs, e.g. the chosen coin side or the
	// player's VIP odds bonus.
	Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*Result, error)

	// ValidateBet checks if the bet amount and parameters are valid.
	ValidateBet(bet int64, params map[string]any) error

	// MaxBet returns the maximum allowed bet, 0 for no maximum.
	MaxBet() int64

	// Cooldown returns the cooldown in seconds between plays, 0 for none.
	Cooldown() int
}

// Shared param keys understood by the games.
const (
	// ParamOddsBonus is the player's VIP odds bonus in percentage
	// points, added to the base win probability where a game supports
	// it.
	ParamOddsBonus = "odds_bonus"

	// ParamChoice is the player's pick where a game requires one
	// (e.g. "heads" or "tails").
	ParamChoice = "choice"
)

// OddsBonusFrom extracts the odds bonus from params, defaulting to 0.
func OddsBonusFrom(params map[string]any) float64 {
	if params == nil {
		return 0
	}
	switch v := params[ParamOddsBonus].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return 0
	}
}
