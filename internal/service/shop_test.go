package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blobby-bot/internal/model"
	"blobby-bot/internal/shop"
	"blobby-bot/internal/store"
	"blobby-bot/internal/vip"
)

type shopFixture struct {
	shop   *ShopService
	wallet *WalletService
	vip    *vip.Service
}

func newShopFixture(t *testing.T) *shopFixture {
	t.Helper()

	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	wallet := NewWalletService(st)
	vipService := vip.NewService(st, time.UTC)

	s := NewShopService(st, wallet, vipService, time.Hour)
	s.now = func() time.Time {
		return time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	}
	// Offers roll deterministically: first offerable item at 20% off.
	s.randIntn = func(int) int { return 0 }

	return &shopFixture{shop: s, wallet: wallet, vip: vipService}
}

func TestCatalog(t *testing.T) {
	f := newShopFixture(t)

	catalog := f.shop.Catalog()
	require.Len(t, catalog, 5)
	assert.Equal(t, shop.ItemExtraMoves, catalog[0].Type)
	assert.Equal(t, shop.ItemMysteryBox, catalog[4].Type)
	assert.True(t, catalog[4].VIPOnly)
}

func TestPriceFor_TierDiscount(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	// Bronze pays the base price on items outside the offer.
	price, err := f.shop.PriceFor(ctx, 1, shop.ItemBlobBomb)
	require.NoError(t, err)
	assert.Equal(t, int64(500), price)

	// Diamond gets 25% off.
	_, err = f.vip.AddPoints(ctx, 2, 50000, model.PointSourceBonus)
	require.NoError(t, err)
	price, err = f.shop.PriceFor(ctx, 2, shop.ItemBlobBomb)
	require.NoError(t, err)
	assert.Equal(t, int64(375), price)
}

func TestPriceFor_OfferBeatsTierDiscount(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	// The rolled offer covers extra moves at 20% off: 300 -> 240.
	offer, err := f.shop.CurrentOffer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, string(shop.ItemExtraMoves), offer.ItemType)
	assert.Equal(t, 20, offer.Discount)

	price, err := f.shop.PriceFor(ctx, 1, shop.ItemExtraMoves)
	require.NoError(t, err)
	assert.Equal(t, int64(240), price)
}

func TestPriceFor_UnknownItem(t *testing.T) {
	f := newShopFixture(t)

	_, err := f.shop.PriceFor(context.Background(), 1, "jetpack")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestCurrentOffer_StableUntilExpiry(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	first, err := f.shop.CurrentOffer(ctx, 1)
	require.NoError(t, err)

	// Within the window the same offer comes back, even if the roll
	// would now pick differently.
	f.shop.randIntn = func(int) int { return 1 }
	second, err := f.shop.CurrentOffer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Past the expiry a fresh offer is rolled.
	f.shop.now = func() time.Time {
		return time.Date(2024, 6, 15, 14, 0, 0, 0, time.UTC)
	}
	third, err := f.shop.CurrentOffer(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, string(shop.ItemBlobBomb), third.ItemType)
	assert.Equal(t, 30, third.Discount)
	assert.True(t, third.ExpiresAt.After(second.ExpiresAt))
}

func TestPurchase_DebitsAndStocksInventory(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	// Offer price for extra moves is 240.
	price, err := f.shop.Purchase(ctx, 1, shop.ItemExtraMoves)
	require.NoError(t, err)
	assert.Equal(t, int64(240), price)

	balance, err := f.wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance-240), balance)

	inv, err := f.shop.Inventory(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, inv.Items[string(shop.ItemExtraMoves)])
}

func TestPurchase_InsufficientBalance(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	// Drain the wallet below the cheapest item.
	_, err := f.wallet.Debit(ctx, 1, model.InitialBalance-100)
	require.NoError(t, err)

	_, err = f.shop.Purchase(ctx, 1, shop.ItemCoinDoubler)
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	inv, err := f.shop.Inventory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
}

func TestPurchase_MysteryBoxRequiresVIPTier(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	_, err := f.shop.Purchase(ctx, 1, shop.ItemMysteryBox)
	assert.ErrorIs(t, err, ErrVIPRequired)

	// Gold unlocks the box; fund the wallet to cover the 10%-off price.
	_, err = f.vip.AddPoints(ctx, 2, 5000, model.PointSourceBonus)
	require.NoError(t, err)
	_, err = f.wallet.Credit(ctx, 2, 1000)
	require.NoError(t, err)

	price, err := f.shop.Purchase(ctx, 2, shop.ItemMysteryBox)
	require.NoError(t, err)
	assert.Equal(t, int64(1800), price)
}

// failingStore wraps a Store and fails saves on a single key.
type failingStore struct {
	store.Store
	failKey string
}

func (s *failingStore) Save(ctx context.Context, key string, v any) error {
	if key == s.failKey {
		return errors.New("store unavailable")
	}
	return s.Store.Save(ctx, key, v)
}

func TestPurchase_RefundsWhenInventorySaveFails(t *testing.T) {
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	wallet := NewWalletService(st)
	vipService := vip.NewService(st, time.UTC)

	s := NewShopService(&failingStore{Store: st, failKey: store.InventoryKey(1)}, wallet, vipService, time.Hour)
	s.randIntn = func(int) int { return 0 }

	ctx := context.Background()
	_, err = s.Purchase(ctx, 1, shop.ItemBlobBomb)
	require.Error(t, err)

	// The debit was returned and no item was granted.
	balance, err := wallet.Balance(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(model.InitialBalance), balance)

	inv, err := s.Inventory(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, inv.Items)
}

func TestUseItem(t *testing.T) {
	f := newShopFixture(t)
	ctx := context.Background()

	// Nothing to use yet.
	used, err := f.shop.UseItem(ctx, 1, shop.ItemBlobBomb)
	require.NoError(t, err)
	assert.False(t, used)

	_, err = f.shop.Purchase(ctx, 1, shop.ItemBlobBomb)
	require.NoError(t, err)

	used, err = f.shop.UseItem(ctx, 1, shop.ItemBlobBomb)
	require.NoError(t, err)
	assert.True(t, used)

	used, err = f.shop.UseItem(ctx, 1, shop.ItemBlobBomb)
	require.NoError(t, err)
	assert.False(t, used)
}
