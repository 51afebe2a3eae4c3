// Package store provides keyed JSON-blob persistence for reward state.
//
// Every piece of persisted state (gambling stats, VIP state, wallets,
// limited offers) is one whole-object JSON blob under a fixed key. Blobs
// are wrapped in a schema-version envelope validated on load; a corrupt
// blob or a version mismatch is logged and treated as absent so callers
// fall back to their initial state.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
)

// SchemaVersion is the current blob envelope version. Bumping it
// invalidates all previously saved blobs.
const SchemaVersion = 1

// Storage keys. Blobs are namespaced per user.
const (
	KeyGamblingStats = "blobby-gambling-stats:%d"
	KeyVIPState      = "vipState:%d"
	KeyWallet        = "wallet:%d"
	KeyLimitedOffer  = "blobby-limited-offer:%d"
	KeyInventory     = "blobby-inventory:%d"
)

// GamblingStatsKey returns the stats blob key for a user.
func GamblingStatsKey(userID int64) string { return fmt.Sprintf(KeyGamblingStats, userID) }

// VIPStateKey returns the VIP state blob key for a user.
func VIPStateKey(userID int64) string { return fmt.Sprintf(KeyVIPState, userID) }

// WalletKey returns the wallet blob key for a user.
func WalletKey(userID int64) string { return fmt.Sprintf(KeyWallet, userID) }

// LimitedOfferKey returns the limited-offer blob key for a user.
func LimitedOfferKey(userID int64) string { return fmt.Sprintf(KeyLimitedOffer, userID) }

// InventoryKey returns the inventory blob key for a user.
func InventoryKey(userID int64) string { return fmt.Sprintf(KeyInventory, userID) }

// Store is a keyed JSON-blob store. Implementations must be safe for
// concurrent use; callers serialize read-modify-write cycles per user
// with the lock package.
type Store interface {
	// Load unmarshals the blob under key into v. Returns false with a
	// nil error when the key is absent, the blob is corrupt, or its
	// schema version does not match.
	Load(ctx context.Context, key string, v any) (bool, error)

	// Save marshals v and writes it under key, replacing any previous
	// blob. Write-through: no debouncing, no partial updates.
	Save(ctx context.Context, key string, v any) error

	// Delete removes the blob under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error

	// Close releases any underlying resources.
	Close() error
}

// envelope wraps every stored blob with its schema version.
type envelope struct {
	Version int             `json:"v"`
	Data    json.RawMessage `json:"data"`
}

// encode wraps v in a versioned envelope and marshals it.
func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blob: %w", err)
	}
	return json.Marshal(envelope{Version: SchemaVersion, Data: data})
}

// decode validates the envelope and unmarshals the payload into v.
// Returns false when the blob is unusable (corrupt or wrong version).
func decode(key string, raw []byte, v any) bool {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding corrupt blob")
		return false
	}
	if env.Version != SchemaVersion {
		log.Warn().
			Str("key", key).
			Int("blob_version", env.Version).
			Int("schema_version", SchemaVersion).
			Msg("Discarding blob with mismatched schema version")
		return false
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Discarding undecodable blob")
		return false
	}
	return true
}
