package gravity

import (
	"math"
	"sort"
)

// angleEpsilon keeps clamped angles strictly inside the half-open sector.
const angleEpsilon = 1e-9

// NormalizeAngle maps any angle in degrees into [0, 360).
func NormalizeAngle(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// offset returns how far theta lies past the sector start, in [0, 360).
func (r QuadrantRange) offset(theta float64) float64 {
	return NormalizeAngle(theta - r.Start)
}

// Contains reports whether theta (mod 360) lies in [Start, Start+Span).
func (r QuadrantRange) Contains(theta float64) bool {
	return r.offset(theta) < r.Span
}

// Mid returns the sector's midpoint in [0, 360).
func (r QuadrantRange) Mid() float64 {
	return NormalizeAngle(r.Start + r.Span/2)
}

// Clamp moves theta back into the sector if it has left it, snapping to
// whichever edge is nearer. The result is normalised into [0, 360).
//
// A node pushed past the upper edge on every retry lands on that edge each
// time, so near a boundary only radial growth makes progress.
func (r QuadrantRange) Clamp(theta float64) float64 {
	off := r.offset(theta)
	if off < r.Span {
		return NormalizeAngle(theta)
	}
	past := off - r.Span
	before := 360 - off
	if past <= before {
		return NormalizeAngle(r.Start + r.Span - angleEpsilon)
	}
	return NormalizeAngle(r.Start)
}

// AssignAnglesSorted spreads tasks evenly across their quadrant's sector,
// heaviest first. Within a quadrant of n tasks the i-th task (after a
// stable descending sort by weight) sits at start + (i+0.5)/n * span.
// Each quadrant is laid out independently; empty quadrants contribute
// nothing. The result maps task id to angle in degrees.
//
// Duplicate ids overwrite each other in the returned map; use [Build] when
// ids are not guaranteed unique. cfg is sanitised first.
func AssignAnglesSorted(tasks []WeightedTask, cfg Config) map[string]float64 {
	cfg = cfg.Sanitize()
	out := make(map[string]float64, len(tasks))
	for i, theta := range assignAngles(tasks, cfg) {
		out[tasks[i].ID] = theta
	}
	return out
}

// assignAngles is the index-based form of [AssignAnglesSorted]: the angle
// of tasks[i] is returned at position i.
func assignAngles(tasks []WeightedTask, cfg Config) []float64 {
	angles := make([]float64, len(tasks))

	var buckets [len(Quadrants)][]int
	for i, t := range tasks {
		q := t.Quadrant.clamp(cfg.DefaultQuadrant)
		buckets[q-1] = append(buckets[q-1], i)
	}

	for qi, bucket := range buckets {
		n := len(bucket)
		if n == 0 {
			continue
		}
		sort.SliceStable(bucket, func(a, b int) bool {
			return tasks[bucket[a]].Weight > tasks[bucket[b]].Weight
		})
		r := cfg.Quadrants.Range(Quadrants[qi])
		for i, idx := range bucket {
			angles[idx] = NormalizeAngle(r.Start + (float64(i)+0.5)/float64(n)*r.Span)
		}
	}
	return angles
}
