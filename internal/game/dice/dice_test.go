package dice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name     string
		dice1    int
		dice2    int
		bet      int64
		expected int64
	}{
		{"snake eyes loses", 1, 1, 100, -100},
		{"total 6 loses", 2, 4, 100, -100},
		{"total 7 pushes", 3, 4, 100, 0},
		{"total 8 wins", 4, 4, 100, 100},
		{"total 11 wins", 5, 6, 100, 100},
		{"boxcars jackpot", 6, 6, 100, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculatePayout(tt.dice1, tt.dice2, tt.bet))
		})
	}
}

func TestValidateBet(t *testing.T) {
	g := New(&Config{MaxBet: 500})

	assert.ErrorIs(t, g.ValidateBet(0, nil), ErrInvalidBet)
	assert.ErrorIs(t, g.ValidateBet(-10, nil), ErrInvalidBet)
	assert.ErrorIs(t, g.ValidateBet(501, nil), ErrBetTooHigh)
	assert.NoError(t, g.ValidateBet(500, nil))
}

func TestPlay_SettlesRoll(t *testing.T) {
	g := New(nil)

	// Force boxcars.
	g.rollDie = func() int { return 6 }

	result, err := g.Play(context.Background(), 1, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(200), result.Payout)
	assert.True(t, result.Won)
	assert.Equal(t, int64(300), result.WinAmount(100))
	assert.Equal(t, 12, result.Details["total"])
}

func TestPlay_PushReturnsStake(t *testing.T) {
	g := New(nil)

	rolls := []int{3, 4}
	g.rollDie = func() int {
		r := rolls[0]
		rolls = rolls[1:]
		return r
	}

	result, err := g.Play(context.Background(), 1, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), result.Payout)
	assert.False(t, result.Won)
	assert.Equal(t, int64(100), result.WinAmount(100))
}

func TestDefaults(t *testing.T) {
	g := New(nil)
	assert.Equal(t, int64(DefaultMaxBet), g.MaxBet())
	assert.Equal(t, DefaultCooldown, g.Cooldown())
	assert.Equal(t, "dice", g.Command())
}
