package store

// Drivers:
// memory   - process lifetime only, for tests and demos
// file     - one JSON document holding key -> cart, like browser localStorage
// postgres - cart_snapshots table, one row per key
// redis    - one string value per key

import (
	"context"

	"rocketcart/model"
)

// DefaultKey is the namespaced key the cart snapshot is stored under.
const DefaultKey = "@RocketShoes:cart"

// Store persists whole-cart snapshots. Save always overwrites.
// Load returns an empty cart when nothing was saved yet and ErrCorrupt when
// the stored snapshot cannot be used.
type Store interface {
	Load(ctx context.Context) (model.Cart, error)
	Save(ctx context.Context, cart model.Cart) error

	Close() error
}
