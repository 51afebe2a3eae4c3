// Package dice implements the two-dice game: roll 2d6, win on a high
// total.
package dice

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"blobby-bot/internal/game"
)

const (
	// DefaultMaxBet is the maximum allowed bet for the dice game.
	DefaultMaxBet = 1000

	// DefaultCooldown is the cooldown between dice games in seconds.
	DefaultCooldown = 3
)

// Errors for the dice game.
var (
	ErrInvalidBet = errors.New("bet amount must be positive")
	ErrBetTooHigh = errors.New("bet exceeds maximum allowed")
)

// DiceGame implements the Game interface for dice gambling.
type DiceGame struct {
	maxBet   int64
	cooldown int

	rollDie func() int
}

// Config holds configuration for the dice game.
type Config struct {
	MaxBet   int64
	Cooldown int
}

// New creates a new DiceGame with the given configuration.
func New(cfg *Config) *DiceGame {
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

	return &DiceGame{
		maxBet:   maxBet,
		cooldown: cooldown,
		rollDie:  func() int { return rand.Intn(6) + 1 },
	}
}

// Name returns the game's display name.
func (d *DiceGame) Name() string {
	return "Dice Game"
}

// Command returns the command that triggers this game.
func (d *DiceGame) Command() string {
	return "dice"
}

// Description returns a brief description of the game.
func (d *DiceGame) Description() string {
	return "Roll two dice and win on the total: 2-6 lose, 7 push, 8-11 win, 12 jackpot!"
}

// MaxBet returns the maximum allowed bet.
func (d *DiceGame) MaxBet() int64 {
	return d.maxBet
}

// Cooldown returns the cooldown duration in seconds.
func (d *DiceGame) Cooldown() int {
	return d.cooldown
}

// ValidateBet checks if the bet amount is valid.
func (d *DiceGame) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet > d.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, d.maxBet)
	}
	return nil
}

// Play rolls the dice and settles the bet.
func (d *DiceGame) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.Result, error) {
	if err := d.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	dice1 := d.rollDie()
	dice2 := d.rollDie()
	total := dice1 + dice2
	payout := CalculatePayout(dice1, dice2, bet)

	var description string
	switch {
	case payout > bet:
		description = fmt.Sprintf("🎲🎲 Dice: %d + %d = %d\n🎊 JACKPOT! You won %d coins!", dice1, dice2, total, payout)
	case payout > 0:
		description = fmt.Sprintf("🎲🎲 Dice: %d + %d = %d\n🎉 You won %d coins!", dice1, dice2, total, payout)
	case payout == 0:
		description = fmt.Sprintf("🎲🎲 Dice: %d + %d = %d\n😐 Push! Your bet is returned.", dice1, dice2, total)
	default:
		description = fmt.Sprintf("🎲🎲 Dice: %d + %d = %d\n😢 You lost %d coins.", dice1, dice2, total, -payout)
	}

	return &game.Result{
		Payout:      payout,
		Won:         payout > 0,
		Description: description,
		Details: map[string]any{
			"dice1": dice1,
			"dice2": dice2,
			"total": total,
			"bet":   bet,
		},
	}, nil
}

// CalculatePayout calculates the net payout for a roll:
//   - total in [2,6]: lose the bet
//   - total = 7: push
//   - total in [8,11]: win the bet
//   - total = 12: win double
func CalculatePayout(dice1, dice2 int, bet int64) int64 {
	total := dice1 + dice2

	switch {
	case total <= 6:
		return -bet
	case total == 7:
		return 0
	case total <= 11:
		return bet
	default: // total == 12
		return bet * 2
	}
}
