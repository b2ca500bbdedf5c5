package gravity

import (
	"math"
	"sort"
)

// CollisionTolerance absorbs floating-point noise in overlap tests.
const CollisionTolerance = 1e-9

// Placement is the outcome of resolving one node.
type Placement int

const (
	// PlacedClean means the node was accepted at its incoming position.
	PlacedClean Placement = iota
	// PlacedPerturbed means the node was moved outward before it fit.
	PlacedPerturbed
	// PlacedOverflow means the retry budget ran out; the node keeps its
	// last attempted position and may still overlap.
	PlacedOverflow
)

// String returns "clean", "perturbed" or "overflow".
func (p Placement) String() string {
	switch p {
	case PlacedClean:
		return "clean"
	case PlacedPerturbed:
		return "perturbed"
	case PlacedOverflow:
		return "overflow"
	}
	return "unknown"
}

// Resolution is the result of [ResolveCollisions]. Nodes and Placements
// are index-aligned with the input; Overflow lists the ids that could not
// be placed cleanly, in processing order.
type Resolution struct {
	Nodes      []PolarNode
	Placements []Placement
	Overflow   []string
}

// ResolveCollisions spirals overlapping nodes outward until no two
// footprints intersect or a node's retry budget is spent.
//
// Nodes are processed by descending weight so that heavy nodes keep their
// intended position and lighter ones absorb the displacement. The sort is
// stable, so caller order only decides between equal weights.
//
// On each collision a node moves DR further out and DTheta around, with
// theta clamped back into its own quadrant; it never changes quadrant.
// After MaxIter moves a still-colliding node is kept where it is and
// reported in Overflow. The input slice is not modified. cfg is
// sanitised first, so a negative DR never moves a node inward.
func ResolveCollisions(nodes []PolarNode, cfg Config) Resolution {
	cfg = cfg.Sanitize()
	res := Resolution{
		Nodes:      make([]PolarNode, len(nodes)),
		Placements: make([]Placement, len(nodes)),
	}
	copy(res.Nodes, nodes)

	order := make([]int, len(nodes))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return nodes[order[a]].Weight > nodes[order[b]].Weight
	})

	placed := make([]circle, 0, len(nodes))
	for _, idx := range order {
		n, p := place(res.Nodes[idx], placed, cfg)
		res.Nodes[idx] = n
		res.Placements[idx] = p
		if p == PlacedOverflow {
			res.Overflow = append(res.Overflow, n.ID)
		}
		placed = append(placed, circleOf(n))
	}
	return res
}

// place runs the bounded search for a single node.
func place(n PolarNode, placed []circle, cfg Config) (PolarNode, Placement) {
	sector := cfg.Quadrants.Range(n.Quadrant.clamp(cfg.DefaultQuadrant))
	for iter := 0; ; iter++ {
		if !collides(circleOf(n), placed) {
			if iter == 0 {
				return n, PlacedClean
			}
			return n, PlacedPerturbed
		}
		if iter >= cfg.MaxIter {
			return n, PlacedOverflow
		}
		n.R += cfg.DR
		n.Theta = sector.Clamp(n.Theta + cfg.DTheta)
	}
}

type circle struct {
	x, y, r float64
}

func circleOf(n PolarNode) circle {
	x, y := n.Cartesian()
	return circle{x: x, y: y, r: n.EffectiveRadius()}
}

func collides(c circle, placed []circle) bool {
	for _, o := range placed {
		if Overlaps(c.x, c.y, c.r, o.x, o.y, o.r) {
			return true
		}
	}
	return false
}

// Overlaps reports whether two circles intersect by more than
// [CollisionTolerance].
func Overlaps(x1, y1, r1, x2, y2, r2 float64) bool {
	return math.Hypot(x1-x2, y1-y2) < r1+r2-CollisionTolerance
}
