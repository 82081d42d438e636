package cache

// ScopedKeyer prefixes every key of an inner Keyer, so several deployments
// (say "staging:" and "prod:") can share one Redis or MongoDB backend. The
// serve command installs it when --key-prefix is set.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer prefixes inner's keys. A nil inner means DefaultKeyer.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TerrainKey(opts TerrainKeyOpts) string {
	return k.prefix + k.inner.TerrainKey(opts)
}

func (k *ScopedKeyer) ArtifactKey(terrainHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(terrainHash, opts)
}
