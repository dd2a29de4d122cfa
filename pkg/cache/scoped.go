package cache

// ScopedKeyer prefixes the keys of another Keyer. The API server scopes its
// entries so that a Redis instance shared with CLI users keeps them apart.
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

// TreeKey returns the inner key with the prefix in front.
func (k ScopedKeyer) TreeKey(inputHash string, opts TreeKeyOpts) string {
	return k.Prefix + k.Keyer.TreeKey(inputHash, opts)
}
