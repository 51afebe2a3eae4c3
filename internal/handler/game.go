package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/game"
	"blobby-bot/internal/game/coinflip"
	"blobby-bot/internal/model"
	"blobby-bot/internal/service"
)

// GameHandler handles the casino mini-game commands.
type GameHandler struct {
	casino *service.CasinoService
	wallet *service.WalletService
}

// NewGameHandler creates a new GameHandler.
func NewGameHandler(casino *service.CasinoService, wallet *service.WalletService) *GameHandler {
	return &GameHandler{
		casino: casino,
		wallet: wallet,
	}
}

// HandleFlip handles /flip <bet> <heads|tails>.
func (h *GameHandler) HandleFlip(c tele.Context) error {
	args := c.Args()
	if len(args) < 2 {
		return c.Reply("Usage: /flip <bet> heads|tails")
	}

	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply("❌ Bet must be a positive number")
	}

	choice := strings.ToLower(args[1])
	if choice != coinflip.Heads && choice != coinflip.Tails {
		return c.Reply("❌ Call heads or tails")
	}

	return h.play(c, model.GameCoinFlip, bet, map[string]any{game.ParamChoice: choice})
}

// HandleDice handles /dice <bet>.
func (h *GameHandler) HandleDice(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /dice <bet>")
	}

	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply("❌ Bet must be a positive number")
	}

	return h.play(c, model.GameDice, bet, nil)
}

// HandleSlot handles /slot <bet>.
func (h *GameHandler) HandleSlot(c tele.Context) error {
	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /slot <bet>")
	}

	bet, err := parseBet(args[0])
	if err != nil {
		return c.Reply("❌ Bet must be a positive number")
	}

	return h.play(c, model.GameSlot, bet, nil)
}

// play runs one round and formats the outcome.
func (h *GameHandler) play(c tele.Context, command string, bet int64, params map[string]any) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	if _, _, err := h.wallet.EnsureWallet(ctx, sender.ID); err != nil {
		return c.Reply("❌ Something went wrong, please try again later")
	}

	outcome, err := h.casino.Play(ctx, sender.ID, command, bet, params)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Reply("❌ Not enough coins for that bet")
		case errors.Is(err, service.ErrOnCooldown):
			return c.Reply(fmt.Sprintf("⏳ Easy there! %s", err))
		case errors.Is(err, service.ErrGameNotFound):
			return c.Reply("❌ Unknown game")
		default:
			return c.Reply(fmt.Sprintf("❌ %s", err))
		}
	}

	reply := fmt.Sprintf("%s\n💰 Balance: %d coins", outcome.Result.Description, outcome.NewBalance)
	if outcome.PointsWon > 0 {
		reply += fmt.Sprintf("\n⭐ +%d VIP points", outcome.PointsWon)
	}
	return c.Reply(reply)
}

// parseBet parses a positive bet amount.
func parseBet(arg string) (int64, error) {
	bet, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || bet <= 0 {
		return 0, errors.New("invalid bet")
	}
	return bet, nil
}
