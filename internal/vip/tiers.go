// Package vip implements the loyalty tier engine: lifetime-point tier
// derivation, point crediting, bonus claim gating and the VIP jackpot.
package vip

import "math"

// TierName identifies a loyalty tier.
type TierName string

// Tier names in ascending order.
const (
	TierBronze   TierName = "bronze"
	TierSilver   TierName = "silver"
	TierGold     TierName = "gold"
	TierPlatinum TierName = "platinum"
	TierDiamond  TierName = "diamond"
)

// Tier describes one loyalty tier. Membership is a pure function of
// lifetime points: the highest tier whose MinPoints threshold is met.
type Tier struct {
	Name      TierName // tier identifier
	Emoji     string   // icon shown in the bot
	MinPoints int64    // lifetime points needed to reach this tier
	MaxPoints int64    // upper bound of the band, -1 for the top tier

	PointsMultiplier float64 // applied to every base point credit
	OddsBonus        float64 // percentage points added to game win odds
	SpinDiscount     int     // percent off shop/spin costs

	DailyBonus          int64 // coins from the standard daily claim
	ExclusiveDailyBonus int64 // coins from the VIP-only daily claim

	HasMysteryBox bool    // unlocks the mystery box shop item
	HasJackpot    bool    // unlocks monthly jackpot entry
	JackpotOdds   float64 // per-entry win probability, 0 without jackpot
}

// Tiers is the static tier table, ordered lowest to highest.
var Tiers = []Tier{
	{
		Name:             TierBronze,
		Emoji:            "🥉",
		MinPoints:        0,
		MaxPoints:        999,
		PointsMultiplier: 1.0,
		DailyBonus:       50,
	},
	{
		Name:                TierSilver,
		Emoji:               "🥈",
		MinPoints:           1000,
		MaxPoints:           4999,
		PointsMultiplier:    1.2,
		OddsBonus:           1,
		SpinDiscount:        5,
		DailyBonus:          100,
		ExclusiveDailyBonus: 50,
	},
	{
		Name:                TierGold,
		Emoji:               "🥇",
		MinPoints:           5000,
		MaxPoints:           14999,
		PointsMultiplier:    1.5,
		OddsBonus:           2,
		SpinDiscount:        10,
		DailyBonus:          200,
		ExclusiveDailyBonus: 100,
		HasMysteryBox:       true,
	},
	{
		Name:                TierPlatinum,
		Emoji:               "💠",
		MinPoints:           15000,
		MaxPoints:           49999,
		PointsMultiplier:    2.0,
		OddsBonus:           3,
		SpinDiscount:        15,
		DailyBonus:          350,
		ExclusiveDailyBonus: 250,
		HasMysteryBox:       true,
		HasJackpot:          true,
		JackpotOdds:         0.01,
	},
	{
		Name:                TierDiamond,
		Emoji:               "💎",
		MinPoints:           50000,
		MaxPoints:           -1,
		PointsMultiplier:    3.0,
		OddsBonus:           5,
		SpinDiscount:        25,
		DailyBonus:          500,
		ExclusiveDailyBonus: 500,
		HasMysteryBox:       true,
		HasJackpot:          true,
		JackpotOdds:         0.02,
	},
}

// TierFor returns the highest tier whose MinPoints threshold is met by
// the given lifetime points. Pure; the tier is derived on every call,
// never cached or stored.
func TierFor(lifetimePoints int64) Tier {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].MinPoints <= lifetimePoints {
			return Tiers[i]
		}
	}
	return Tiers[0]
}

// TierIndex returns the position of the tier resolved for the given
// lifetime points, 0 for bronze.
func TierIndex(lifetimePoints int64) int {
	for i := len(Tiers) - 1; i >= 0; i-- {
		if Tiers[i].MinPoints <= lifetimePoints {
			return i
		}
	}
	return 0
}

// NextTier returns the tier above t, or false when t is the top tier.
func NextTier(t Tier) (Tier, bool) {
	for i, tier := range Tiers {
		if tier.Name == t.Name && i+1 < len(Tiers) {
			return Tiers[i+1], true
		}
	}
	return Tier{}, false
}

// DiscountedCost applies the tier's spin discount to a base cost,
// flooring to an integer.
func (t Tier) DiscountedCost(baseCost int64) int64 {
	return int64(math.Floor(float64(baseCost) * (1 - float64(t.SpinDiscount)/100)))
}

// CreditedPoints applies the tier's multiplier to a base point amount,
// flooring to an integer.
func (t Tier) CreditedPoints(basePoints int64) int64 {
	return int64(math.Floor(float64(basePoints) * t.PointsMultiplier))
}
