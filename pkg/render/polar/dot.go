package polar

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/gravity/pkg/core/gravity"
	"github.com/matzehuels/gravity/pkg/matrix"
)

// pointsPerInch converts engine units (points) to Graphviz sizes (inches).
const pointsPerInch = 72.0

// Options configures diagram generation.
type Options struct {
	// Detailed adds weight, polar position and placement to node labels.
	Detailed bool

	// Guides draws the radius bounds and quadrant boundaries.
	Guides bool

	// Scale multiplies the output resolution of bitmap formats.
	// Zero means 1.
	Scale float64
}

// quadrantFill is the fill colour per quadrant, indexed by Quadrant-1.
var quadrantFill = [4]string{"#fde2e1", "#e1effd", "#e3f6e5", "#f2f2f2"}

// ToDOT converts a layout to Graphviz DOT with every node pinned at its
// computed position. Render the result with the neato engine.
func ToDOT(l matrix.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	if opts.Scale > 0 && opts.Scale != 1 {
		fmt.Fprintf(&buf, "  dpi=%.0f;\n", pointsPerInch*opts.Scale)
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fixedsize=true, fontsize=11, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	if opts.Guides {
		writeGuides(&buf, l)
		buf.WriteString("\n")
	}

	for _, n := range l.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n matrix.Node, detailed bool) string {
	label := n.DisplayLabel()
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nw=%.2f r=%.0f θ=%.0f°\n%s", label, n.Weight, n.R, n.Theta, n.Placement)
}

func fmtAttrs(n matrix.Node, detailed bool) []string {
	scale := n.BoxScale
	if !(scale > 0) {
		scale = 1
	}
	attrs := []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("pos=\"%s!\"", fmtPoint(n.X, n.Y)),
		fmt.Sprintf("width=%.3f", n.Width*scale/pointsPerInch),
		fmt.Sprintf("height=%.3f", n.Height*scale/pointsPerInch),
		fmt.Sprintf("fillcolor=%q", fillFor(n.Quadrant)),
	}
	if n.IsOverflow() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "color=red", "penwidth=2")
	}
	return attrs
}

func fillFor(q gravity.Quadrant) string {
	if !q.Valid() {
		return "white"
	}
	return quadrantFill[q-1]
}

func fmtPoint(x, y float64) string {
	return fmt.Sprintf("%.2f,%.2f", x, y)
}

// writeGuides emits unlabeled rings at rMin and rMax and a dotted spoke
// along the start edge of each quadrant.
func writeGuides(buf *bytes.Buffer, l matrix.Layout) {
	cfg := l.Config.Sanitize()

	buf.WriteString("  node [shape=circle, style=dashed, color=\"#bbbbbb\", label=\"\", fixedsize=true];\n")
	for _, ring := range []struct {
		id string
		r  float64
	}{{"__ring_min", cfg.RMin}, {"__ring_max", cfg.RMax}} {
		if ring.r <= 0 {
			continue
		}
		d := 2 * ring.r / pointsPerInch
		fmt.Fprintf(buf, "  %q [pos=\"0,0!\", width=%.3f, height=%.3f];\n", ring.id, d, d)
	}

	buf.WriteString("  node [shape=point, style=invis, width=0.01];\n")
	buf.WriteString("  \"__origin\" [pos=\"0,0!\"];\n")
	ext := l.Extent()
	for _, q := range gravity.Quadrants {
		rad := cfg.Quadrants.Range(q).Start * math.Pi / 180
		id := fmt.Sprintf("__edge_%s", q)
		fmt.Fprintf(buf, "  %q [pos=\"%s!\"];\n", id, fmtPoint(ext*math.Cos(rad), ext*math.Sin(rad)))
		fmt.Fprintf(buf, "  \"__origin\" -- %q [style=dotted, color=\"#bbbbbb\"];\n", id)
	}

	buf.WriteString("  node [shape=box, style=\"rounded,filled\", color=black, fixedsize=true];\n")
}
