package cache

// ScopedKeyer wraps a Keyer with a prefix, so that several servers or
// tenants can share one Redis instance without seeing each other's entries.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "jsonviz:staging:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(sceneHash, opts)
}

// SourceKey generates a prefixed source key.
func (k *ScopedKeyer) SourceKey(url string) string {
	return k.prefix + k.inner.SourceKey(url)
}
