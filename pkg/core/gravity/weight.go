package gravity

import "math"

// Priority bounds and the value used when a task carries none.
const (
	MinPriority     = 1.0
	MaxPriority     = 10.0
	DefaultPriority = 5.0
)

// NormalizePriority clamps p to [1, 10] and scales it to [0.1, 1.0].
// NaN is treated as a missing priority.
func NormalizePriority(p float64) float64 {
	if math.IsNaN(p) {
		p = DefaultPriority
	}
	return clamp(p, MinPriority, MaxPriority) / MaxPriority
}

// NormalizeTime maps a time estimate onto a logarithmic scale where tMax
// lands on 1. Negative and NaN estimates count as zero. Estimates above
// tMax yield values slightly above 1; the weight clamp absorbs them.
func NormalizeTime(t, tMax float64) float64 {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	denom := math.Log1p(tMax)
	if !(denom > 0) {
		return 0
	}
	return math.Log1p(t) / denom
}

// ComputeWeight blends normalised priority and time into a single
// importance scalar in [0, 1]. Priority dominates under the default tuning.
func ComputeWeight(priority, timeMinutes float64, cfg Config) float64 {
	nt := NormalizeTime(timeMinutes, cfg.TMax)
	if math.IsInf(nt, 1) {
		// keeps Beta == 0 from turning an infinite estimate into NaN
		nt = math.MaxFloat64
	}
	return clamp01(cfg.Alpha*NormalizePriority(priority) + cfg.Beta*nt)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// clamp01 also maps NaN to 0 so a bad tuning can never leak out of range.
func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return clamp(v, 0, 1)
}
