// Package coinflip implements the coin flip game, the headline casino
// mechanic: pick a side, win even money.
package coinflip

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"blobby-bot/internal/game"
)

const (
	// DefaultMaxBet is the maximum allowed bet for the coin flip.
	DefaultMaxBet = 1000

	// DefaultCooldown is the cooldown between flips in seconds.
	DefaultCooldown = 3

	// BaseWinProbability is the fair win chance before any VIP odds
	// bonus is applied.
	BaseWinProbability = 0.5

	// MaxWinProbability caps the boosted win chance.
	MaxWinProbability = 0.6
)

// Coin sides.
const (
	Heads = "heads"
	Tails = "tails"
)

// Errors for the coin flip game.
var (
	ErrInvalidBet    = errors.New("bet amount must be positive")
	ErrBetTooHigh    = errors.New("bet exceeds maximum allowed")
	ErrInvalidChoice = errors.New("choice must be heads or tails")
)

// CoinFlip implements the Game interface for coin flip gambling.
type CoinFlip struct {
	maxBet   int64
	cooldown int

	randFloat func() float64
}

// Config holds configuration for the coin flip game.
type Config struct {
	MaxBet   int64
	Cooldown int
}

// New creates a new CoinFlip with the given configuration.
func New(cfg *Config) *CoinFlip {
	maxBet := int64(DefaultMaxBet)
	cooldown := DefaultCooldown

	if cfg != nil {
		if cfg.MaxBet > 0 {
			maxBet = cfg.MaxBet
		}
		if cfg.Cooldown > 0 {
			cooldown = cfg.Cooldown
		}
	}

	return &CoinFlip{
		maxBet:    maxBet,
		cooldown:  cooldown,
		randFloat: rand.Float64,
	}
}

// Name returns the game's display name.
func (c *CoinFlip) Name() string {
	return "Coin Flip"
}

// Command returns the command that triggers this game. It doubles as
// the game type recorded in gambling statistics.
func (c *CoinFlip) Command() string {
	return "coinflip"
}

// Description returns a brief description of the game.
func (c *CoinFlip) Description() string {
	return "Call heads or tails. A correct call pays even money."
}

// MaxBet returns the maximum allowed bet.
func (c *CoinFlip) MaxBet() int64 {
	return c.maxBet
}

// Cooldown returns the cooldown duration in seconds.
func (c *CoinFlip) Cooldown() int {
	return c.cooldown
}

// ValidateBet checks if the bet amount and parameters are valid.
func (c *CoinFlip) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet > c.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, c.maxBet)
	}
	if _, err := choiceFrom(params); err != nil {
		return err
	}
	return nil
}

// Play executes the coin flip. The VIP odds bonus (percentage points)
// raises the win probability above the fair coin, capped.
func (c *CoinFlip) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.Result, error) {
	if err := c.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	choice, err := choiceFrom(params)
	if err != nil {
		return nil, err
	}

	winProb := WinProbability(game.OddsBonusFrom(params))
	won := c.randFloat() < winProb

	// The shown side always matches the outcome.
	side := choice
	if !won {
		side = otherSide(choice)
	}

	result := &game.Result{
		Won: won,
		Details: map[string]any{
			"choice": choice,
			"side":   side,
			"bet":    bet,
		},
	}
	if won {
		result.Payout = bet
		result.Description = fmt.Sprintf("🪙 %s! You called it and won %d coins!", side, bet)
	} else {
		result.Payout = -bet
		result.Description = fmt.Sprintf("🪙 %s! Wrong call, you lost %d coins.", side, bet)
	}
	return result, nil
}

// WinProbability returns the win chance for a given odds bonus in
// percentage points, capped at MaxWinProbability.
func WinProbability(oddsBonus float64) float64 {
	p := BaseWinProbability + oddsBonus/100
	if p > MaxWinProbability {
		p = MaxWinProbability
	}
	return p
}

// choiceFrom extracts and validates the coin side choice from params.
func choiceFrom(params map[string]any) (string, error) {
	if params == nil {
		return "", ErrInvalidChoice
	}
	choice, _ := params[game.ParamChoice].(string)
	if choice != Heads && choice != Tails {
		return "", ErrInvalidChoice
	}
	return choice, nil
}

// otherSide returns the opposite coin side.
func otherSide(side string) string {
	if side == Heads {
		return Tails
	}
	return Heads
}
