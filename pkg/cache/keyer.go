package cache

// LayoutKeyOpts are the request parameters that change a layout besides the
// batch itself.
type LayoutKeyOpts struct {
	Strategy    string  `json:"strategy"`
	Left        float64 `json:"left"`
	Right       float64 `json:"right"`
	Resolution  float64 `json:"resolution"`
	OptionsHash string  `json:"options"`
}

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey addresses the layout of the batch with hash batchHash.
	LayoutKey(batchHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer hashes every option into the key.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(batchHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", batchHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, so several tracks can share one
// cache without colliding.
//
//	k := cache.NewScopedKeyer(nil, "track:junctions:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer wraps inner, or the default keyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// LayoutKey returns the prefixed inner key.
func (k *ScopedKeyer) LayoutKey(batchHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(batchHash, opts)
}
