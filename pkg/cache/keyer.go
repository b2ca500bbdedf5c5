package cache

import "github.com/matzehuels/gravity/pkg/core/gravity"

// Key prefixes.
const (
	prefixLayout   = "layout"
	prefixArtifact = "artifact"
)

// LayoutKeyOpts are the inputs besides the tasks that change a layout.
type LayoutKeyOpts struct {
	Config gravity.Config
}

// ArtifactKeyOpts are the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format   string
	Detailed bool
	Guides   bool
	Scale    float64
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey keys a layout by the hash of its tasks and the engine tuning.
	LayoutKey(tasksHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by the hash of its layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces "kind:sha256" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey implements Keyer.
func (DefaultKeyer) LayoutKey(tasksHash string, opts LayoutKeyOpts) string {
	return hashKey(prefixLayout, tasksHash, opts.Config)
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey(prefixArtifact, layoutHash, opts.Format, opts.Detailed, opts.Guides, opts.Scale)
}
