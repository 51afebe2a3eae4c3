package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"blobby-bot/internal/service"
	"blobby-bot/internal/shop"
)

// ShopHandler handles the power-up shop commands.
type ShopHandler struct {
	shop   *service.ShopService
	wallet *service.WalletService
}

// NewShopHandler creates a new ShopHandler.
func NewShopHandler(shopService *service.ShopService, wallet *service.WalletService) *ShopHandler {
	return &ShopHandler{
		shop:   shopService,
		wallet: wallet,
	}
}

// HandleShop handles /shop: the catalog with effective prices and the
// current limited-time offer.
func (h *ShopHandler) HandleShop(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	balance, err := h.wallet.Balance(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to open the shop, please try again later")
	}

	offer, err := h.shop.CurrentOffer(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to open the shop, please try again later")
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛒 Power-Up Shop (💰 %d coins)\n\n", balance))

	for _, item := range h.shop.Catalog() {
		price, err := h.shop.PriceFor(ctx, sender.ID, item.Type)
		if err != nil {
			price = item.Price
		}

		line := fmt.Sprintf("%s %s — %d coins", item.Emoji, item.Name, price)
		if price < item.Price {
			line = fmt.Sprintf("%s %s — %d coins (was %d)", item.Emoji, item.Name, price, item.Price)
		}
		if item.VIPOnly {
			line += " 💎"
		}
		b.WriteString(line + "\n")
		b.WriteString(fmt.Sprintf("   %s\n", item.Description))
	}

	if offer != nil {
		if item, ok := shop.GetItem(shop.ItemType(offer.ItemType)); ok {
			remaining := time.Until(offer.ExpiresAt).Round(time.Minute)
			b.WriteString(fmt.Sprintf("\n⏰ Limited offer: %d%% off %s %s, ends in %s!",
				offer.Discount, item.Emoji, item.Name, remaining))
		}
	}

	b.WriteString("\n\nBuy with /buy <item>, e.g. /buy blob_bomb")
	return c.Reply(b.String())
}

// HandleBuy handles /buy <item>.
func (h *ShopHandler) HandleBuy(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	args := c.Args()
	if len(args) < 1 {
		return c.Reply("Usage: /buy <item>")
	}

	itemType := shop.ItemType(strings.ToLower(args[0]))
	price, err := h.shop.Purchase(ctx, sender.ID, itemType)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrItemNotFound):
			return c.Reply("❌ No such item. See /shop for the catalog")
		case errors.Is(err, service.ErrVIPRequired):
			return c.Reply("💎 That item needs gold VIP or higher")
		case errors.Is(err, service.ErrInsufficientBalance):
			return c.Reply("❌ Not enough coins")
		default:
			return c.Reply("❌ Purchase failed, please try again later")
		}
	}

	item, _ := shop.GetItem(itemType)
	balance, _ := h.wallet.Balance(ctx, sender.ID)
	return c.Reply(fmt.Sprintf("✅ Bought %s %s for %d coins\n💰 Balance: %d coins",
		item.Emoji, item.Name, price, balance))
}

// HandleBag handles /bag: the power-up inventory.
func (h *ShopHandler) HandleBag(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	inv, err := h.shop.Inventory(ctx, sender.ID)
	if err != nil {
		return c.Reply("❌ Failed to open the bag, please try again later")
	}

	var b strings.Builder
	b.WriteString("🎒 Your power-ups\n")
	empty := true
	for _, item := range h.shop.Catalog() {
		count := inv.Items[string(item.Type)]
		if count > 0 {
			b.WriteString(fmt.Sprintf("%s %s × %d\n", item.Emoji, item.Name, count))
			empty = false
		}
	}
	if empty {
		b.WriteString("Nothing yet. Visit the /shop!")
	}
	return c.Reply(b.String())
}
