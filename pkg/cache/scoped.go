package cache

// ScopedKeyer prefixes every key of an inner keyer. Servers sharing one
// Redis use it to keep deployments, or engine versions, apart:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), buildinfo.Version+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer selects
// the default.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) DiagramKey(modelHash string, opts DiagramKeyOpts) string {
	return k.prefix + k.inner.DiagramKey(modelHash, opts)
}

func (k *ScopedKeyer) DOTKey(modelHash string, opts DOTKeyOpts) string {
	return k.prefix + k.inner.DOTKey(modelHash, opts)
}
