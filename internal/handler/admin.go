package handler

import (
	"context"
	"fmt"
	"strconv"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/model"
	"blobby-bot/internal/service"
	"blobby-bot/internal/vip"
)

// AdminHandler handles admin-only economy commands. Admin access is
// enforced by middleware.
type AdminHandler struct {
	wallet *service.WalletService
	vip    *vip.Service
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(wallet *service.WalletService, vipService *vip.Service) *AdminHandler {
	return &AdminHandler{
		wallet: wallet,
		vip:    vipService,
	}
}

// HandleAdminAdd handles /admin_add <user_id> <amount>: credits coins.
func (h *AdminHandler) HandleAdminAdd(c tele.Context) error {
	ctx := context.Background()

	userID, amount, err := parseAdminArgs(c.Args())
	if err != nil {
		return c.Reply("Usage: /admin_add <user_id> <amount>")
	}

	balance, err := h.wallet.Credit(ctx, userID, amount)
	if err != nil {
		return c.Reply(fmt.Sprintf("❌ %s", err))
	}
	return c.Reply(fmt.Sprintf("✅ Credited %d coins to %d (balance %d)", amount, userID, balance))
}

// HandleAdminPoints handles /admin_points <user_id> <points>: credits
// base VIP points (the tier multiplier still applies).
func (h *AdminHandler) HandleAdminPoints(c tele.Context) error {
	ctx := context.Background()

	userID, points, err := parseAdminArgs(c.Args())
	if err != nil {
		return c.Reply("Usage: /admin_points <user_id> <points>")
	}

	credited, err := h.vip.AddPoints(ctx, userID, points, model.PointSourceAdmin)
	if err != nil {
		return c.Reply(fmt.Sprintf("❌ %s", err))
	}
	return c.Reply(fmt.Sprintf("✅ Credited %d VIP points to %d", credited, userID))
}

// parseAdminArgs parses "<user_id> <positive amount>".
func parseAdminArgs(args []string) (int64, int64, error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("missing arguments")
	}
	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	amount, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, 0, fmt.Errorf("invalid amount")
	}
	return userID, amount, nil
}
