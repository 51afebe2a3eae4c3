package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"blobby-bot/internal/model"
	"blobby-bot/internal/pkg/lock"
	"blobby-bot/internal/shop"
	"blobby-bot/internal/store"
	"blobby-bot/internal/vip"
)

// Shop service errors.
var (
	ErrItemNotFound = errors.New("item not found")
	ErrVIPRequired  = errors.New("item requires a VIP tier with mystery box access")
)

// ShopService handles power-up purchases, inventory and the rotating
// limited-time offer.
type ShopService struct {
	store  store.Store
	locks  *lock.UserLock
	wallet *WalletService
	vip    *vip.Service

	offerDuration time.Duration

	// Injection points for tests.
	now      func() time.Time
	randIntn func(n int) int
}

// NewShopService creates a new ShopService instance.
func NewShopService(st store.Store, wallet *WalletService, vipService *vip.Service, offerDuration time.Duration) *ShopService {
	if offerDuration <= 0 {
		offerDuration = time.Hour
	}
	return &ShopService{
		store:         st,
		locks:         lock.NewUserLock(),
		wallet:        wallet,
		vip:           vipService,
		offerDuration: offerDuration,
		now:           time.Now,
		randIntn:      rand.Intn,
	}
}

// Catalog returns all shop items in display order.
func (s *ShopService) Catalog() []shop.ItemConfig {
	return shop.AllItems()
}

// PriceFor returns the effective price of an item for the user: the
// base price through the tier's spin discount, or the limited-offer
// price when the active offer covers the item and is cheaper.
func (s *ShopService) PriceFor(ctx context.Context, userID int64, itemType shop.ItemType) (int64, error) {
	item, ok := shop.GetItem(itemType)
	if !ok {
		return 0, ErrItemNotFound
	}

	tier, err := s.vip.CurrentTier(ctx, userID)
	if err != nil {
		return 0, err
	}
	price := tier.DiscountedCost(item.Price)

	offer, err := s.CurrentOffer(ctx, userID)
	if err != nil {
		return 0, err
	}
	if offer != nil && offer.ItemType == string(itemType) {
		offerPrice := item.Price * int64(100-offer.Discount) / 100
		if offerPrice < price {
			price = offerPrice
		}
	}
	return price, nil
}

// CurrentOffer returns the user's active limited-time offer, rolling a
// fresh one when none exists or the previous offer expired.
func (s *ShopService) CurrentOffer(ctx context.Context, userID int64) (*model.LimitedOffer, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	offer := &model.LimitedOffer{}
	ok, err := s.store.Load(ctx, store.LimitedOfferKey(userID), offer)
	if err != nil {
		return nil, fmt.Errorf("failed to load limited offer: %w", err)
	}

	now := s.now()
	if ok && now.Before(offer.ExpiresAt) {
		return offer, nil
	}

	offer = s.rollOffer(now)
	if err := s.store.Save(ctx, store.LimitedOfferKey(userID), offer); err != nil {
		return nil, fmt.Errorf("failed to save limited offer: %w", err)
	}

	log.Debug().
		Int64("user_id", userID).
		Str("item", offer.ItemType).
		Int("discount", offer.Discount).
		Time("expires_at", offer.ExpiresAt).
		Msg("Rolled new limited-time offer")

	return offer, nil
}

// rollOffer picks a random offerable item at a 20-50% discount.
func (s *ShopService) rollOffer(now time.Time) *model.LimitedOffer {
	candidates := shop.OfferableItems()
	item := candidates[s.randIntn(len(candidates))]
	return &model.LimitedOffer{
		ItemType:  string(item.Type),
		Discount:  20 + 10*s.randIntn(4),
		ExpiresAt: now.Add(s.offerDuration),
	}
}

// Purchase buys one unit of an item at the user's effective price,
// debiting the wallet and adding the item to the inventory. Returns
// the price paid.
func (s *ShopService) Purchase(ctx context.Context, userID int64, itemType shop.ItemType) (int64, error) {
	item, ok := shop.GetItem(itemType)
	if !ok {
		return 0, ErrItemNotFound
	}

	if item.VIPOnly {
		tier, err := s.vip.CurrentTier(ctx, userID)
		if err != nil {
			return 0, err
		}
		if !tier.HasMysteryBox {
			return 0, ErrVIPRequired
		}
	}

	price, err := s.PriceFor(ctx, userID, itemType)
	if err != nil {
		return 0, err
	}

	if _, err := s.wallet.Debit(ctx, userID, price); err != nil {
		return 0, err
	}

	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	inv, err := s.loadInventory(ctx, userID)
	if err != nil {
		s.refund(ctx, userID, price)
		return 0, err
	}
	inv.Items[string(itemType)]++
	if err := s.store.Save(ctx, store.InventoryKey(userID), inv); err != nil {
		s.refund(ctx, userID, price)
		return 0, fmt.Errorf("failed to save inventory: %w", err)
	}

	log.Info().
		Int64("user_id", userID).
		Str("item", string(itemType)).
		Int64("price", price).
		Msg("Shop purchase completed")

	return price, nil
}

// refund returns the purchase price after a failed inventory update,
// so the user is never charged for an item they did not receive.
func (s *ShopService) refund(ctx context.Context, userID int64, price int64) {
	if _, err := s.wallet.Credit(ctx, userID, price); err != nil {
		log.Error().
			Err(err).
			Int64("user_id", userID).
			Int64("price", price).
			Msg("Failed to refund purchase")
	}
}

// Inventory returns the user's power-up inventory.
func (s *ShopService) Inventory(ctx context.Context, userID int64) (*model.Inventory, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)
	return s.loadInventory(ctx, userID)
}

// UseItem consumes one unit of an item. Returns false when the user
// has none.
func (s *ShopService) UseItem(ctx context.Context, userID int64, itemType shop.ItemType) (bool, error) {
	s.locks.Lock(userID)
	defer s.locks.Unlock(userID)

	inv, err := s.loadInventory(ctx, userID)
	if err != nil {
		return false, err
	}
	if inv.Items[string(itemType)] <= 0 {
		return false, nil
	}

	inv.Items[string(itemType)]--
	if err := s.store.Save(ctx, store.InventoryKey(userID), inv); err != nil {
		return false, fmt.Errorf("failed to save inventory: %w", err)
	}
	return true, nil
}

// loadInventory reads the inventory blob, falling back to an empty
// inventory.
func (s *ShopService) loadInventory(ctx context.Context, userID int64) (*model.Inventory, error) {
	inv := model.NewInventory()
	ok, err := s.store.Load(ctx, store.InventoryKey(userID), inv)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory: %w", err)
	}
	if !ok || inv.Items == nil {
		return model.NewInventory(), nil
	}
	return inv, nil
}
