package cache

// ScopedKeyer prefixes every key of an inner Keyer, isolating namespaces
// that share one backend (for example two projects on the same Redis).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner with prefix. A nil inner uses DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// SourceKey implements Keyer.
func (k *ScopedKeyer) SourceKey(contentHash string, opts SourceKeyOpts) string {
	return k.prefix + k.inner.SourceKey(contentHash, opts)
}

// VariantKey implements Keyer.
func (k *ScopedKeyer) VariantKey(sourceHash string, opts VariantKeyOpts) string {
	return k.prefix + k.inner.VariantKey(sourceHash, opts)
}
