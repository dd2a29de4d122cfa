// Package cache stores parse results keyed by input content and settings.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON file per entry under the XDG cache directory (CLI)
//   - [RedisCache]: shared cache for several API instances
//   - [NullCache]: caching disabled
//
// Keys come from a [Keyer]. The default keyer hashes the input together with
// every setting that influences the result, so changing a profile never
// returns a stale tree.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	// Clear removes the entries and returns how many there were.
	Clear(ctx context.Context) (int, error)
}

// Keyer derives cache keys.
type Keyer interface {
	// TreeKey returns the key of a parsed tree.
	TreeKey(inputHash string, opts TreeKeyOpts) string
}

// TreeKeyOpts lists the parse settings that change a tree.
type TreeKeyOpts struct {
	Pattern     string `json:"pattern"`
	AnchorGroup int    `json:"anchor_group"`
	DataGroup   int    `json:"data_group"`
	SkipLines   int    `json:"skip_lines"`
	Heading     bool   `json:"heading"`
}

// DefaultKeyer produces "tree:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TreeKey hashes the input hash and the settings together.
func (DefaultKeyer) TreeKey(inputHash string, opts TreeKeyOpts) string {
	return "tree:" + digest(inputHash, opts)
}
