package gravity

import "math"

// ComputeRadius maps a weight to a distance from the centre. The mapping is
// inverted: the heaviest tasks sit at RMin, the lightest at RMax.
func ComputeRadius(w float64, cfg Config) float64 {
	w = clamp01(w)
	return cfg.RMin + (1-w)*(cfg.RMax-cfg.RMin)
}

// ComputeBoxScale maps a weight to a visual scale factor in [SMin, SMax].
// With Gamma below 1 the curve rises fastest at low weights, keeping low and
// medium priority tasks visually distinct.
func ComputeBoxScale(w float64, cfg Config) float64 {
	w = clamp01(w)
	return cfg.SMin + math.Pow(w, cfg.Gamma)*(cfg.SMax-cfg.SMin)
}
