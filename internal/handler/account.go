// Package handler provides Telegram bot command handlers.
package handler

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/service"
)

// AccountHandler handles wallet and daily bonus commands.
type AccountHandler struct {
	wallet *service.WalletService
	casino *service.CasinoService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(wallet *service.WalletService, casino *service.CasinoService) *AccountHandler {
	return &AccountHandler{
		wallet: wallet,
		casino: casino,
	}
}

// HandleStart handles the /start command. Creates a wallet with the
// initial balance on first interaction.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	wallet, created, err := h.wallet.EnsureWallet(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Something went wrong, please try again later")
	}

	if created {
		return c.Reply(fmt.Sprintf(
			"🫧 Welcome to Blobby Casino!\n\n"+
				"Your wallet is ready with %d coins.\n\n"+
				"Commands:\n"+
				"/balance - check your coins\n"+
				"/daily - claim the daily bonus\n"+
				"/flip <bet> heads|tails - coin flip\n"+
				"/dice <bet> - dice game\n"+
				"/slot <bet> - slot machine\n"+
				"/stats - gambling statistics\n"+
				"/vip - your VIP status\n"+
				"/shop - power-up shop",
			wallet.Balance,
		))
	}

	return c.Reply(fmt.Sprintf("👋 Welcome back! Balance: %d coins", wallet.Balance))
}

// HandleBalance handles the /balance command.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	balance, err := h.wallet.Balance(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to fetch balance, please try again later")
	}

	return c.Reply(fmt.Sprintf("💰 Balance: %d coins", balance))
}

// HandleDaily handles the /daily command: the tier-scaled daily bonus,
// once per calendar day.
func (h *AccountHandler) HandleDaily(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if _, _, err := h.wallet.EnsureWallet(ctx, sender.ID); err != nil {
		return c.Reply("❌ Something went wrong, please try again later")
	}

	amount, err := h.casino.ClaimDaily(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to claim the daily bonus, please try again later")
	}
	if amount == 0 {
		return c.Reply("⏳ Already claimed today. Come back tomorrow!")
	}

	balance, _ := h.wallet.Balance(ctx, sender.ID)
	return c.Reply(fmt.Sprintf("🎁 Daily bonus claimed: +%d coins\n💰 Balance: %d coins", amount, balance))
}
