// Package polar renders gravity layouts as Graphviz diagrams.
//
// # Overview
//
// The engine has already decided where every task goes, so Graphviz is used
// purely as a drawing backend: each node is pinned with pos="x,y!" and the
// neato engine is asked to keep it there. Node boxes are sized by their
// footprint times the weight-derived box scale and filled by quadrant.
//
// # Usage
//
// Convert a layout to DOT, then render to SVG or PNG:
//
//	dot := polar.ToDOT(layout, polar.Options{Guides: true})
//	svg, err := polar.RenderSVG(ctx, dot)
//	png, err := polar.RenderPNG(ctx, dot)
//
// # Options
//
//   - Detailed: adds weight, radius, angle and placement under each label
//   - Guides: draws the rMin and rMax rings and the quadrant boundaries
//   - Scale: output resolution multiplier for PNG (sets dpi)
//
// # Overflow
//
// Nodes the collision resolver gave up on are drawn with a dashed red
// outline. They may overlap their neighbours.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process
// rendering; no Graphviz installation is needed.
package polar
