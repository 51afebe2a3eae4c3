package handler

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/service"
	"blobby-bot/internal/vip"
)

// PointsRedeemRate is how many VIP points buy one coin with /redeem.
const PointsRedeemRate = 10

// VIPHandler handles VIP status, bonus and jackpot commands.
type VIPHandler struct {
	vip    *vip.Service
	casino *service.CasinoService
	wallet *service.WalletService
}

// NewVIPHandler creates a new VIPHandler.
func NewVIPHandler(vipService *vip.Service, casino *service.CasinoService, wallet *service.WalletService) *VIPHandler {
	return &VIPHandler{
		vip:    vipService,
		casino: casino,
		wallet: wallet,
	}
}

// HandleVIP handles /vip: tier, points and progress to the next tier.
func (h *VIPHandler) HandleVIP(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	state, err := h.vip.State(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to fetch VIP status, please try again later")
	}

	tier := vip.TierFor(state.LifetimePoints)
	reply := fmt.Sprintf(
		"%s %s VIP\n"+
			"⭐ Points: %d (lifetime %d)\n"+
			"✖️ Point multiplier: %.1fx\n"+
			"🎯 Odds bonus: +%.0f%%\n"+
			"🏷 Shop discount: %d%%\n"+
			"🎰 Jackpot pool: %d coins",
		tier.Emoji, tier.Name,
		state.TotalPoints, state.LifetimePoints,
		tier.PointsMultiplier,
		tier.OddsBonus,
		tier.SpinDiscount,
		state.JackpotPool,
	)

	if next, ok := vip.NextTier(tier); ok {
		reply += fmt.Sprintf("\n⬆️ %d points to %s %s", next.MinPoints-state.LifetimePoints, next.Emoji, next.Name)
	}
	return c.Reply(reply)
}

// HandleVIPBonus handles /vipbonus: the VIP-exclusive daily claim.
func (h *VIPHandler) HandleVIPBonus(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	canClaim, err := h.vip.CanClaimVIPBonus(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to check the VIP bonus, please try again later")
	}
	if !canClaim {
		return c.Reply("⏳ VIP bonus already claimed today")
	}

	amount, err := h.casino.ClaimVIPBonus(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to claim the VIP bonus, please try again later")
	}
	if amount == 0 {
		return c.Reply("🥉 No VIP bonus at bronze tier yet. Earn points to rank up!")
	}

	return c.Reply(fmt.Sprintf("💎 VIP bonus claimed: +%d coins", amount))
}

// HandleJackpot handles /jackpot: one VIP jackpot entry per day for
// platinum and diamond players.
func (h *VIPHandler) HandleJackpot(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	canEnter, err := h.vip.CanEnterMonthlyJackpot(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to check jackpot eligibility, please try again later")
	}
	if !canEnter {
		return c.Reply("🔒 The jackpot is open to platinum and diamond VIPs, one entry per day")
	}

	result, err := h.casino.AttemptJackpot(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Jackpot attempt failed, please try again later")
	}

	if result.Won {
		return c.Reply(fmt.Sprintf("🎊 JACKPOT! You won %d coins!", result.Amount))
	}
	return c.Reply("🎰 No jackpot this time. The pool keeps growing — try again tomorrow!")
}

// HandleRedeem handles /redeem <points>: spends VIP points for coins.
func (h *VIPHandler) HandleRedeem(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply(fmt.Sprintf("Usage: /redeem <points> (%d points = 1 coin)", PointsRedeemRate))
	}

	points, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || points < PointsRedeemRate {
		return c.Reply(fmt.Sprintf("❌ Redeem at least %d points", PointsRedeemRate))
	}

	// Round down to a whole number of coins.
	points -= points % PointsRedeemRate

	ok, err := h.vip.SpendPoints(ctx, sender.ID, points)
	if err != nil {
		return c.Reply("❌ Failed to redeem points, please try again later")
	}
	if !ok {
		return c.Reply("❌ Not enough points")
	}

	coins := points / PointsRedeemRate
	balance, err := h.wallet.Credit(ctx, sender.ID, coins)
	if err != nil {
		return c.Reply("❌ Failed to credit coins, please try again later")
	}

	return c.Reply(fmt.Sprintf("✅ Redeemed %d points for %d coins\n💰 Balance: %d coins", points, coins, balance))
}
