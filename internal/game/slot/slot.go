// Package slot implements the three-reel slot machine.
package slot

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"blobby-bot/internal/game"
)

const (
	// DefaultMaxBet is the maximum allowed bet for the slot machine.
	DefaultMaxBet = 500

	// DefaultCooldown is the cooldown between spins in seconds.
	DefaultCooldown = 5
)

// Reel symbols. Seven is the jackpot symbol.
var Symbols = []string{"🍒", "🍋", "🔔", "🫐", "💎", "7️⃣"}

// SymbolSeven is the jackpot symbol.
const SymbolSeven = "7️⃣"

// Payout multipliers applied to the bet (net).
const (
	TripleSevenMultiplier = 50
	TripleMultiplier      = 10
	PairMultiplier        = 1
)

// Errors for the slot machine.
var (
	ErrInvalidBet = errors.New("bet amount must be positive")
	ErrBetTooHigh = errors.New("bet exceeds maximum allowed")
)

// SlotMachine implements the Game interface for the slot machine.
type SlotMachine struct {
	maxBet   int64
	cooldown int

	spinReel func() string
}

// Config holds configuration for the slot machine.
type Config struct {
	MaxBet   int64
	Cooldown int
}

// New creates a new SlotMachine with the given configuration.
func New(cfg *Config) *SlotMachine {
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

	return &SlotMachine{
		maxBet:   maxBet,
		cooldown: cooldown,
		spinReel: func() string { return Symbols[rand.Intn(len(Symbols))] },
	}
}

// Name returns the game's display name.
func (s *SlotMachine) Name() string {
	return "Slot Machine"
}

// Command returns the command that triggers this game.
func (s *SlotMachine) Command() string {
	return "slot"
}

// Description returns a brief description of the game.
func (s *SlotMachine) Description() string {
	return "Spin three reels: a pair pays 2x, a triple 11x, triple sevens 51x."
}

// MaxBet returns the maximum allowed bet.
func (s *SlotMachine) MaxBet() int64 {
	return s.maxBet
}

// Cooldown returns the cooldown duration in seconds.
func (s *SlotMachine) Cooldown() int {
	return s.cooldown
}

// ValidateBet checks if the bet amount is valid.
func (s *SlotMachine) ValidateBet(bet int64, params map[string]any) error {
	if bet <= 0 {
		return ErrInvalidBet
	}
	if bet > s.maxBet {
		return fmt.Errorf("%w: max bet is %d", ErrBetTooHigh, s.maxBet)
	}
	return nil
}

// Play spins the reels and settles the bet.
func (s *SlotMachine) Play(ctx context.Context, userID int64, bet int64, params map[string]any) (*game.Result, error) {
	if err := s.ValidateBet(bet, params); err != nil {
		return nil, err
	}

	reels := []string{s.spinReel(), s.spinReel(), s.spinReel()}
	payout := CalculatePayout(reels, bet)
	display := strings.Join(reels, " | ")

	var description string
	switch {
	case payout >= bet*TripleSevenMultiplier:
		description = fmt.Sprintf("🎰 %s\n🎊 TRIPLE SEVENS! You won %d coins!", display, payout)
	case payout > 0:
		description = fmt.Sprintf("🎰 %s\n🎉 You won %d coins!", display, payout)
	default:
		description = fmt.Sprintf("🎰 %s\n😢 No luck, you lost %d coins.", display, -payout)
	}

	return &game.Result{
		Payout:      payout,
		Won:         payout > 0,
		Description: description,
		Details: map[string]any{
			"reels": reels,
			"bet":   bet,
		},
	}, nil
}

// CalculatePayout calculates the net payout for a spin:
//   - triple sevens: 50x the bet
//   - any other triple: 10x the bet
//   - any pair: 1x the bet
//   - no match: lose the bet
func CalculatePayout(reels []string, bet int64) int64 {
	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		if reels[0] == SymbolSeven {
			return bet * TripleSevenMultiplier
		}
		return bet * TripleMultiplier
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		return bet * PairMultiplier
	default:
		return -bet
	}
}
