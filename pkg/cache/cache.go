package cache

import (
	"context"
	"time"
)

// Cache TTLs. Variants are deterministic functions of their key, so they may
// live long; the fast tier of a [TieredCache] holds entries briefly.
const (
	TTLSource  = 24 * time.Hour
	TTLVariant = 7 * 24 * time.Hour
	TTLFast    = time.Hour
)

// Cache stores opaque byte blobs under string keys.
//
// Get reports a miss as (nil, false, nil); an error means the backend itself
// failed. A ttl of zero stores without expiry. Implementations are safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by caches that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// SourceKeyOpts are the decode settings that shape a source bitmap.
type SourceKeyOpts struct {
	Size   int  `json:"size"`
	Invert bool `json:"invert"`
}

// VariantKeyOpts identify one augmented variant of a source.
type VariantKeyOpts struct {
	Seed       uint64   `json:"seed"`
	Index      int      `json:"index"`
	ConfigHash string   `json:"config_hash"`
	Formats    []string `json:"formats"`
}

// Keyer derives cache keys. Every option that changes the cached bytes must
// take part in the key.
type Keyer interface {
	// SourceKey addresses a decoded source bitmap by the hash of the raw file.
	SourceKey(contentHash string, opts SourceKeyOpts) string
	// VariantKey addresses the encoded artifacts of one variant.
	VariantKey(sourceHash string, opts VariantKeyOpts) string
}

// DefaultKeyer hashes the key options into fixed-width keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// SourceKey implements Keyer.
func (DefaultKeyer) SourceKey(contentHash string, opts SourceKeyOpts) string {
	return hashKey("source", contentHash, opts)
}

// VariantKey implements Keyer.
func (DefaultKeyer) VariantKey(sourceHash string, opts VariantKeyOpts) string {
	return hashKey("variant", sourceHash, opts)
}
