// Package shop provides the power-up shop: a static item catalog,
// VIP-discounted purchases and rotating limited-time offers.
package shop

// ItemType represents the type of shop item.
type ItemType string

// Item types - easily extensible for future power-ups.
const (
	ItemExtraMoves  ItemType = "extra_moves"  // extra puzzle moves
	ItemBlobBomb    ItemType = "blob_bomb"    // clears a blob cluster
	ItemStreakSaver ItemType = "streak_saver" // preserves a win streak on one loss
	ItemCoinDoubler ItemType = "coin_doubler" // doubles coin rewards for a run
	ItemMysteryBox  ItemType = "mystery_box"  // VIP-only random bundle
)

// ItemConfig holds the configuration for a shop item.
type ItemConfig struct {
	Type        ItemType
	Name        string
	Emoji       string
	Price       int64 // base price in coins, before any discount
	Description string
	VIPOnly     bool // requires a tier with mystery box access
}

// Items contains all available shop items.
// Easily extensible - just add new items to this map.
var Items = map[ItemType]ItemConfig{
	ItemExtraMoves: {
		Type:        ItemExtraMoves,
		Name:        "Extra Moves",
		Emoji:       "➕",
		Price:       300,
		Description: "5 extra moves when a puzzle runs dry",
	},
	ItemBlobBomb: {
		Type:        ItemBlobBomb,
		Name:        "Blob Bomb",
		Emoji:       "💣",
		Price:       500,
		Description: "Blast away a whole blob cluster",
	},
	ItemStreakSaver: {
		Type:        ItemStreakSaver,
		Name:        "Streak Saver",
		Emoji:       "🛟",
		Price:       750,
		Description: "One loss won't break your win streak",
	},
	ItemCoinDoubler: {
		Type:        ItemCoinDoubler,
		Name:        "Coin Doubler",
		Emoji:       "✨",
		Price:       1000,
		Description: "Double coin rewards for your next run",
	},
	ItemMysteryBox: {
		Type:        ItemMysteryBox,
		Name:        "VIP Mystery Box",
		Emoji:       "🎁",
		Price:       2000,
		Description: "A random bundle of power-ups, VIP only",
		VIPOnly:     true,
	},
}

// displayOrder fixes the catalog presentation order.
var displayOrder = []ItemType{
	ItemExtraMoves,
	ItemBlobBomb,
	ItemStreakSaver,
	ItemCoinDoubler,
	ItemMysteryBox,
}

// AllItems returns all shop items in display order.
func AllItems() []ItemConfig {
	items := make([]ItemConfig, 0, len(displayOrder))
	for _, itemType := range displayOrder {
		if item, ok := Items[itemType]; ok {
			items = append(items, item)
		}
	}
	return items
}

// GetItem returns the item config for a given type.
func GetItem(itemType ItemType) (ItemConfig, bool) {
	item, ok := Items[itemType]
	return item, ok
}

// OfferableItems returns the items eligible for limited-time offers.
// Mystery boxes are excluded so VIP gating stays with the tier table.
func OfferableItems() []ItemConfig {
	items := make([]ItemConfig, 0, len(displayOrder))
	for _, itemType := range displayOrder {
		if item, ok := Items[itemType]; ok && !item.VIPOnly {
			items = append(items, item)
		}
	}
	return items
}
