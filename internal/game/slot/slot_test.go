package slot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculatePayout(t *testing.T) {
	tests := []struct {
		name     string
		reels    []string
		bet      int64
		expected int64
	}{
		{"triple sevens", []string{"7️⃣", "7️⃣", "7️⃣"}, 10, 500},
		{"triple cherries", []string{"🍒", "🍒", "🍒"}, 10, 100},
		{"leading pair", []string{"🍋", "🍋", "🔔"}, 10, 10},
		{"trailing pair", []string{"🔔", "🍋", "🍋"}, 10, 10},
		{"outer pair", []string{"🍋", "🔔", "🍋"}, 10, 10},
		{"no match", []string{"🍒", "🍋", "🔔"}, 10, -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CalculatePayout(tt.reels, tt.bet))
		})
	}
}

func TestValidateBet(t *testing.T) {
	g := New(nil)

	assert.ErrorIs(t, g.ValidateBet(0, nil), ErrInvalidBet)
	assert.ErrorIs(t, g.ValidateBet(DefaultMaxBet+1, nil), ErrBetTooHigh)
	assert.NoError(t, g.ValidateBet(DefaultMaxBet, nil))
}

func TestPlay_TripleSevens(t *testing.T) {
	g := New(nil)
	g.spinReel = func() string { return SymbolSeven }

	result, err := g.Play(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(500), result.Payout)
	assert.True(t, result.Won)
}

func TestPlay_Loss(t *testing.T) {
	g := New(nil)

	reels := []string{"🍒", "🍋", "🔔"}
	g.spinReel = func() string {
		r := reels[0]
		reels = reels[1:]
		return r
	}

	result, err := g.Play(context.Background(), 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(-10), result.Payout)
	assert.False(t, result.Won)
	assert.Equal(t, int64(0), result.WinAmount(10))
}
