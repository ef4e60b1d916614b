package cache

// ScopedKeyer prefixes every key of an inner Keyer. The HTTP service uses
// it to keep its entries apart from CLI runs sharing the same Redis.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ImportKey implements Keyer.
func (k *ScopedKeyer) ImportKey(contentHash string, opts ImportKeyOpts) string {
	return k.prefix + k.inner.ImportKey(contentHash, opts)
}

// LayoutKey implements Keyer.
func (k *ScopedKeyer) LayoutKey(trackHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(trackHash, opts)
}
