package cache

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key of one rendered format of a scene.
	ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string

	// SourceKey returns the key of a document fetched from url.
	SourceKey(url string) string
}

// ArtifactKeyOpts holds the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Style   string  `json:"style"`
	Scale   float64 `json:"scale,omitempty"`
	Title   string  `json:"title,omitempty"`
	AutoFit bool    `json:"autofit,omitempty"`
}

// DefaultKeyer hashes key material with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey returns "artifact:" followed by a hash of sceneHash and opts.
func (DefaultKeyer) ArtifactKey(sceneHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", sceneHash, opts)
}

// SourceKey returns "source:" followed by a hash of url.
func (DefaultKeyer) SourceKey(url string) string {
	return hashKey("source", url)
}
