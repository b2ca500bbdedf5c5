package gravity

import "math"

// Default tuning values.
const (
	DefaultAlpha   = 0.7
	DefaultBeta    = 0.3
	DefaultTMax    = 480.0
	DefaultRMin    = 40.0
	DefaultRMax    = 360.0
	DefaultGamma   = 0.6
	DefaultSMin    = 0.85
	DefaultSMax    = 1.45
	DefaultMaxIter = 30
	DefaultDR      = 8.0
	DefaultDTheta  = 6.0

	// DefaultNodeWidth and DefaultNodeHeight are used when a task carries no footprint hint.
	DefaultNodeWidth  = 120.0
	DefaultNodeHeight = 40.0
)

// QuadrantRange is a half-open angular sector [Start, Start+Span) in degrees.
// Start may be negative; quadrant 1 is [-45, 45) and wraps through 0°.
type QuadrantRange struct {
	Start float64 `toml:"start" json:"start" bson:"start"`
	Span  float64 `toml:"span" json:"span" bson:"span" validate:"gt=0,lte=360"`
}

// QuadrantRanges holds the sector of each quadrant.
type QuadrantRanges struct {
	Q1 QuadrantRange `toml:"q1" json:"q1" bson:"q1"`
	Q2 QuadrantRange `toml:"q2" json:"q2" bson:"q2"`
	Q3 QuadrantRange `toml:"q3" json:"q3" bson:"q3"`
	Q4 QuadrantRange `toml:"q4" json:"q4" bson:"q4"`
}

// DefaultQuadrantRanges tiles the plane in 90° steps starting at -45°.
func DefaultQuadrantRanges() QuadrantRanges {
	return QuadrantRanges{
		Q1: QuadrantRange{Start: -45, Span: 90},
		Q2: QuadrantRange{Start: 45, Span: 90},
		Q3: QuadrantRange{Start: 135, Span: 90},
		Q4: QuadrantRange{Start: 225, Span: 90},
	}
}

// Range returns the sector for q. Out-of-range quadrants are clamped first.
func (r QuadrantRanges) Range(q Quadrant) QuadrantRange {
	switch q.clamp(Q4) {
	case Q1:
		return r.Q1
	case Q2:
		return r.Q2
	case Q3:
		return r.Q3
	default:
		return r.Q4
	}
}

// Config holds every tunable of the layout engine. It is passed by value
// through each call; the engine keeps no configuration of its own.
type Config struct {
	// Weight model
	Alpha float64 `toml:"alpha" json:"alpha" bson:"alpha" validate:"gte=0"`
	Beta  float64 `toml:"beta" json:"beta" bson:"beta" validate:"gte=0"`
	TMax  float64 `toml:"tmax" json:"tmax" bson:"tmax" validate:"gt=0"`

	// Radius and scale
	RMin  float64 `toml:"r_min" json:"r_min" bson:"r_min" validate:"gte=0"`
	RMax  float64 `toml:"r_max" json:"r_max" bson:"r_max" validate:"gtefield=RMin"`
	Gamma float64 `toml:"gamma" json:"gamma" bson:"gamma" validate:"gt=0"`
	SMin  float64 `toml:"s_min" json:"s_min" bson:"s_min" validate:"gt=0"`
	SMax  float64 `toml:"s_max" json:"s_max" bson:"s_max" validate:"gtefield=SMin"`

	// Collision resolution
	MaxIter int     `toml:"max_iter" json:"max_iter" bson:"max_iter" validate:"gte=0,lte=10000"`
	DR      float64 `toml:"dr" json:"dr" bson:"dr" validate:"gte=0"`
	DTheta  float64 `toml:"dtheta" json:"dtheta" bson:"dtheta"`

	Quadrants       QuadrantRanges `toml:"quadrants" json:"quadrants" bson:"quadrants"`
	DefaultQuadrant Quadrant       `toml:"default_quadrant" json:"default_quadrant" bson:"default_quadrant" validate:"gte=1,lte=4"`

	// Footprint used for tasks without width/height hints.
	NodeWidth  float64 `toml:"node_width" json:"node_width" bson:"node_width" validate:"gte=0"`
	NodeHeight float64 `toml:"node_height" json:"node_height" bson:"node_height" validate:"gte=0"`
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		Alpha:           DefaultAlpha,
		Beta:            DefaultBeta,
		TMax:            DefaultTMax,
		RMin:            DefaultRMin,
		RMax:            DefaultRMax,
		Gamma:           DefaultGamma,
		SMin:            DefaultSMin,
		SMax:            DefaultSMax,
		MaxIter:         DefaultMaxIter,
		DR:              DefaultDR,
		DTheta:          DefaultDTheta,
		Quadrants:       DefaultQuadrantRanges(),
		DefaultQuadrant: Q4,
		NodeWidth:       DefaultNodeWidth,
		NodeHeight:      DefaultNodeHeight,
	}
}

// Sanitize returns a copy of c with tunings that would break the engine
// repaired: swapped bounds are reordered, negative counts become zero and
// empty quadrant sectors fall back to the defaults. Values that are merely
// unusual are left alone.
func (c Config) Sanitize() Config {
	if c.RMax < c.RMin {
		c.RMin, c.RMax = c.RMax, c.RMin
	}
	if c.SMax < c.SMin {
		c.SMin, c.SMax = c.SMax, c.SMin
	}
	if c.MaxIter < 0 {
		c.MaxIter = 0
	}
	if c.DR < 0 {
		c.DR = 0
	}
	if !(c.Gamma > 0) {
		c.Gamma = DefaultGamma
	}
	if !(c.TMax > 0) {
		c.TMax = DefaultTMax
	}
	if c.DefaultQuadrant < Q1 || c.DefaultQuadrant > Q4 {
		c.DefaultQuadrant = Q4
	}

	defaults := DefaultQuadrantRanges()
	fix := func(r *QuadrantRange, d QuadrantRange) {
		if !(r.Span > 0) || r.Span > 360 || math.IsNaN(r.Start) || math.IsInf(r.Start, 0) {
			*r = d
		}
	}
	fix(&c.Quadrants.Q1, defaults.Q1)
	fix(&c.Quadrants.Q2, defaults.Q2)
	fix(&c.Quadrants.Q3, defaults.Q3)
	fix(&c.Quadrants.Q4, defaults.Q4)
	return c
}
