package matrix

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/matzehuels/gravity/pkg/core/gravity"
)

// =============================================================================
// Layout - Serialized Engine Output
// =============================================================================

// Layout is the serialization format for a computed gravity matrix.
type Layout struct {
	Nodes    []Node          `json:"nodes" bson:"nodes"`
	Overflow []string        `json:"overflow" bson:"overflow"`
	Summary  gravity.Summary `json:"summary" bson:"summary"`
	Config   gravity.Config  `json:"config" bson:"config"`
}

// Node is a positioned task.
type Node struct {
	ID        string           `json:"id" bson:"id"`
	Label     string           `json:"label,omitempty" bson:"label,omitempty"`
	Quadrant  gravity.Quadrant `json:"quadrant" bson:"quadrant"`
	Weight    float64          `json:"weight" bson:"weight"`
	R         float64          `json:"r" bson:"r"`
	Theta     float64          `json:"theta" bson:"theta"`
	X         float64          `json:"x" bson:"x"`
	Y         float64          `json:"y" bson:"y"`
	BoxScale  float64          `json:"box_scale" bson:"box_scale"`
	Width     float64          `json:"width" bson:"width"`
	Height    float64          `json:"height" bson:"height"`
	Placement string           `json:"placement" bson:"placement"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// IsOverflow reports whether the resolver gave up on the node.
func (n *Node) IsOverflow() bool {
	return n.Placement == gravity.PlacedOverflow.String()
}

// Polar converts the node back into an engine node.
func (n *Node) Polar() gravity.PolarNode {
	return gravity.PolarNode{
		ID:       n.ID,
		Label:    n.Label,
		Weight:   n.Weight,
		Quadrant: n.Quadrant,
		R:        n.R,
		Theta:    n.Theta,
		BoxScale: n.BoxScale,
		Width:    n.Width,
		Height:   n.Height,
	}
}

// PolarNodes converts every node back into engine nodes.
func (l *Layout) PolarNodes() []gravity.PolarNode {
	out := make([]gravity.PolarNode, len(l.Nodes))
	for i := range l.Nodes {
		out[i] = l.Nodes[i].Polar()
	}
	return out
}

// Extent returns the half-width of the smallest origin-centred square that
// contains every node's scaled footprint, or RMax when that is larger.
func (l *Layout) Extent() float64 {
	ext := l.Config.RMax
	for _, n := range l.Nodes {
		hw := n.Width * n.BoxScale / 2
		hh := n.Height * n.BoxScale / 2
		ext = math.Max(ext, math.Max(math.Abs(n.X)+hw, math.Abs(n.Y)+hh))
	}
	return ext
}

// =============================================================================
// Result → Layout Conversion
// =============================================================================

// FromResult converts engine output into its serialization format. cfg is
// recorded as the tuning the layout was computed with.
func FromResult(res gravity.Result, cfg gravity.Config) Layout {
	out := Layout{
		Nodes:    make([]Node, len(res.Nodes)),
		Overflow: append([]string{}, res.Overflow...),
		Summary:  res.Summary,
		Config:   cfg,
	}
	for i, n := range res.Nodes {
		x, y := n.Cartesian()
		placement := gravity.PlacedClean
		if i < len(res.Placements) {
			placement = res.Placements[i]
		}
		out.Nodes[i] = Node{
			ID:        n.ID,
			Label:     n.Label,
			Quadrant:  n.Quadrant,
			Weight:    n.Weight,
			R:         n.R,
			Theta:     n.Theta,
			X:         x,
			Y:         y,
			BoxScale:  n.BoxScale,
			Width:     n.Width,
			Height:    n.Height,
			Placement: placement.String(),
		}
	}
	return out
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
// A layout without nodes is rejected.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Nodes) == 0 {
		return Layout{}, fmt.Errorf("layout must contain nodes")
	}
	if l.Overflow == nil {
		l.Overflow = []string{}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
